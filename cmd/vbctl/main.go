// Package main implements vbctl, a command-line shell over the vecbrowse
// listing operations. It talks to S3 Vectors directly, without the server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecbrowse/internal/commands"
	"github.com/kailas-cloud/vecbrowse/internal/config"
	"github.com/kailas-cloud/vecbrowse/internal/domain/listing"
	logpkg "github.com/kailas-cloud/vecbrowse/internal/logger"
	"github.com/kailas-cloud/vecbrowse/internal/repository/vectorstore"
	s3vt "github.com/kailas-cloud/vecbrowse/internal/transport/s3vectors"
	listinguc "github.com/kailas-cloud/vecbrowse/internal/usecase/listing"
	"github.com/kailas-cloud/vecbrowse/internal/version"
)

var (
	// envName selects config/<env>.yaml; a missing file means built-in defaults
	envName string
	// region overrides aws.default_region
	region string
	// profile overrides aws.profile
	profile string
	// endpointURL overrides aws.endpoint_url
	endpointURL string

	maxResults int32
	nextToken  string
	fetchAll   bool
	verbose    bool

	// newHandlers builds the listing handlers; tests swap it for a fake.
	newHandlers = buildHandlers
)

// handlers is the listing surface used by the subcommands.
type handlers interface {
	GetBucketList(ctx context.Context, region string, req listing.PageRequest) (commands.Result, error)
	GetBucketIndexes(ctx context.Context, region, bucket string, req listing.PageRequest) (commands.Result, error)
	GetBucketVectors(
		ctx context.Context, region, bucket, index string, req listing.PageRequest,
	) (commands.Result, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// The message is printed unchanged; it is the service's own description.
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vbctl",
	Short: "Browse Amazon S3 Vectors buckets, indexes and vectors",
	Long: `vbctl lists vector buckets, their indexes and the vectors stored in an index.
Output is the same JSON the vecbrowse API returns. When more items remain, the
continuation token is printed to stderr; pass it back with --next-token.

Credentials come from the default AWS chain (environment, shared config, SSO,
instance role).`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envName, "env", config.GetEnv(), "configuration environment (config/<env>.yaml)")
	pf.StringVar(&region, "region", "", "AWS region (default: aws.default_region from config)")
	pf.StringVar(&profile, "profile", "", "shared config profile (default: aws.profile from config)")
	pf.StringVar(&endpointURL, "endpoint-url", "", "S3 Vectors endpoint override")
	pf.Int32Var(&maxResults, "max-results", 0, "page size forwarded to the service (0 = service default)")
	pf.StringVar(&nextToken, "next-token", "", "continue after a previous page")
	pf.BoolVar(&fetchAll, "all", false, "follow continuation tokens up to listing.max_pages")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log remote failures and debug output to stderr")

	rootCmd.AddCommand(bucketsCmd)
	rootCmd.AddCommand(indexesCmd)
	rootCmd.AddCommand(vectorsCmd)
}

// bucketsCmd lists vector buckets
var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List vector buckets in a region",
	Long: `List vector buckets in a region as [{"name","arn"}].

Examples:
  vbctl buckets
  vbctl buckets --region eu-central-1 --all`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListing(cmd, func(ctx context.Context, h handlers, region string, req listing.PageRequest) (commands.Result, error) {
			return h.GetBucketList(ctx, region, req)
		})
	},
}

// indexesCmd lists the indexes of a bucket
var indexesCmd = &cobra.Command{
	Use:   "indexes BUCKET",
	Short: "List the indexes of a vector bucket",
	Long: `List the indexes of a vector bucket as
[{"indexName","vectorBucketName","indexArn","index_name"}].

Examples:
  vbctl indexes media
  vbctl indexes media --max-results 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, func(ctx context.Context, h handlers, region string, req listing.PageRequest) (commands.Result, error) {
			return h.GetBucketIndexes(ctx, region, args[0], req)
		})
	},
}

// vectorsCmd lists the vectors of an index
var vectorsCmd = &cobra.Command{
	Use:   "vectors BUCKET INDEX",
	Short: "List the vectors of an index with data and metadata",
	Long: `List the vectors of an index as [{"key","data","metadata"}].

Examples:
  vbctl vectors media movies
  vbctl vectors media movies --all > movies.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, func(ctx context.Context, h handlers, region string, req listing.PageRequest) (commands.Result, error) {
			return h.GetBucketVectors(ctx, region, args[0], args[1], req)
		})
	},
}

type listFunc func(ctx context.Context, h handlers, region string, req listing.PageRequest) (commands.Result, error)

func runListing(cmd *cobra.Command, list listFunc) error {
	cfg := loadConfig()
	if region != "" {
		cfg.AWS.DefaultRegion = region
	}
	if profile != "" {
		cfg.AWS.Profile = profile
	}
	if endpointURL != "" {
		cfg.AWS.EndpointURL = endpointURL
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	logger, err := logpkg.New("local", level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	ctx := logpkg.Into(cmd.Context(), logger)

	logger.Debug("listing",
		zap.String("command", cmd.Name()),
		zap.String("region", cfg.AWS.DefaultRegion),
		zap.Int("max_pages", cfg.Listing.MaxPages),
	)

	req := listing.PageRequest{
		Cursor: listing.Cursor{MaxResults: maxResults, NextToken: nextToken},
		All:    fetchAll,
	}
	res, err := list(ctx, newHandlers(cfg), cfg.AWS.DefaultRegion, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Payload)
	if res.NextToken != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "next token: %s\n", res.NextToken)
	}
	return nil
}

// loadConfig reads config/<env>.yaml, falling back to defaults when the file
// is absent or invalid. The CLI never serves HTTP, so only the aws and
// listing sections matter.
func loadConfig() config.Config {
	cfg, err := config.Load(envName)
	if err != nil {
		cfg = config.Config{}
		cfg.ApplyDefaults()
	}
	return cfg
}

func buildHandlers(cfg config.Config) handlers {
	clients := s3vt.NewClientFactory(s3vt.Config{
		Provider:      s3vt.EnvConfigProvider{Profile: cfg.AWS.Profile},
		EndpointURL:   cfg.AWS.EndpointURL,
		DefaultRegion: cfg.AWS.DefaultRegion,
	})
	return commands.New(listinguc.New(vectorstore.New(clients), cfg.Listing.MaxPages))
}
