// Package s3vectors builds Amazon S3 Vectors clients for a region.
package s3vectors

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
)

// API is the subset of the S3 Vectors client used for listing.
type API interface {
	ListVectorBuckets(
		ctx context.Context, params *s3vectors.ListVectorBucketsInput, optFns ...func(*s3vectors.Options),
	) (*s3vectors.ListVectorBucketsOutput, error)
	ListIndexes(
		ctx context.Context, params *s3vectors.ListIndexesInput, optFns ...func(*s3vectors.Options),
	) (*s3vectors.ListIndexesOutput, error)
	ListVectors(
		ctx context.Context, params *s3vectors.ListVectorsInput, optFns ...func(*s3vectors.Options),
	) (*s3vectors.ListVectorsOutput, error)
}

var _ API = (*s3vectors.Client)(nil)

// ConfigProvider resolves AWS configuration (credentials, retry, endpoints) for a region.
type ConfigProvider interface {
	Load(ctx context.Context, region string) (aws.Config, error)
}

// ConfigProviderFunc adapts a function to ConfigProvider.
type ConfigProviderFunc func(ctx context.Context, region string) (aws.Config, error)

// Load implements ConfigProvider.
func (f ConfigProviderFunc) Load(ctx context.Context, region string) (aws.Config, error) {
	return f(ctx, region)
}

// EnvConfigProvider loads configuration from environment variables and the
// shared config/credentials files, the same chain the AWS CLI uses.
type EnvConfigProvider struct {
	// Profile selects a shared config profile. Empty uses AWS_PROFILE or "default".
	Profile string
}

// Load implements ConfigProvider.
func (p EnvConfigProvider) Load(ctx context.Context, region string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if p.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(p.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// Config holds client factory settings.
type Config struct {
	Provider      ConfigProvider
	EndpointURL   string // overrides the service endpoint (local emulators)
	DefaultRegion string // used by HealthCheck
}

// ClientFactory creates a fresh client per call. Nothing is shared between
// clients beyond what the provider hands out.
type ClientFactory struct {
	provider      ConfigProvider
	endpointURL   string
	defaultRegion string
}

// NewClientFactory creates a ClientFactory. A nil provider falls back to EnvConfigProvider.
func NewClientFactory(cfg Config) *ClientFactory {
	provider := cfg.Provider
	if provider == nil {
		provider = EnvConfigProvider{}
	}
	return &ClientFactory{
		provider:      provider,
		endpointURL:   cfg.EndpointURL,
		defaultRegion: cfg.DefaultRegion,
	}
}

// New returns a client configured for region.
func (f *ClientFactory) New(ctx context.Context, region string) (API, error) {
	awsCfg, err := f.provider.Load(ctx, region)
	if err != nil {
		return nil, err //nolint:wrapcheck // provider errors are surfaced verbatim
	}

	return s3vectors.NewFromConfig(awsCfg, func(o *s3vectors.Options) {
		if f.endpointURL != "" {
			o.BaseEndpoint = aws.String(f.endpointURL)
		}
	}), nil
}

// HealthCheck verifies that credentials resolve for the default region.
// It never calls the vector storage service.
func (f *ClientFactory) HealthCheck(ctx context.Context) error {
	awsCfg, err := f.provider.Load(ctx, f.defaultRegion)
	if err != nil {
		return err //nolint:wrapcheck // already carries context
	}
	if awsCfg.Credentials == nil {
		return errors.New("no credentials provider configured")
	}
	if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		return fmt.Errorf("retrieve credentials: %w", err)
	}
	return nil
}
