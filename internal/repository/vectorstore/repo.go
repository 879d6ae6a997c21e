// Package vectorstore lists buckets, indexes and vectors from Amazon S3 Vectors.
package vectorstore

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kailas-cloud/vecbrowse/internal/domain"
	"github.com/kailas-cloud/vecbrowse/internal/domain/listing"
	"github.com/kailas-cloud/vecbrowse/internal/metrics"
	s3vt "github.com/kailas-cloud/vecbrowse/internal/transport/s3vectors"
)

const (
	opListVectorBuckets = "ListVectorBuckets"
	opListIndexes       = "ListIndexes"
	opListVectors       = "ListVectors"
)

var tracer = otel.Tracer("github.com/kailas-cloud/vecbrowse/internal/repository/vectorstore")

// clientSource hands out a client per call (ISP over transport/s3vectors.ClientFactory).
type clientSource interface {
	New(ctx context.Context, region string) (s3vt.API, error)
}

// Repo implements usecase/listing.Repository. Every call builds its own client
// and issues exactly one list request.
type Repo struct {
	clients clientSource
}

// New creates a vector store repository.
func New(clients clientSource) *Repo {
	return &Repo{clients: clients}
}

// ListBuckets fetches one page of vector buckets.
func (r *Repo) ListBuckets(
	ctx context.Context, region string, cur listing.Cursor,
) (listing.Page[listing.Bucket], error) {
	ctx, done := r.observe(ctx, opListVectorBuckets, region)

	client, err := r.clients.New(ctx, region)
	if err != nil {
		return listing.Page[listing.Bucket]{}, done(0, err)
	}

	out, err := client.ListVectorBuckets(ctx, &s3vectors.ListVectorBucketsInput{
		MaxResults: maxResults(cur),
		NextToken:  nextToken(cur),
	})
	if err != nil {
		return listing.Page[listing.Bucket]{}, done(0, err)
	}

	items := bucketsFromSDK(out.VectorBuckets)
	return listing.Page[listing.Bucket]{Items: items, NextToken: aws.ToString(out.NextToken)}, done(len(items), nil)
}

// ListIndexes fetches one page of indexes in bucket.
func (r *Repo) ListIndexes(
	ctx context.Context, region, bucket string, cur listing.Cursor,
) (listing.Page[listing.Index], error) {
	ctx, done := r.observe(ctx, opListIndexes, region, attribute.String("s3vectors.bucket", bucket))

	client, err := r.clients.New(ctx, region)
	if err != nil {
		return listing.Page[listing.Index]{}, done(0, err)
	}

	out, err := client.ListIndexes(ctx, &s3vectors.ListIndexesInput{
		VectorBucketName: aws.String(bucket),
		MaxResults:       maxResults(cur),
		NextToken:        nextToken(cur),
	})
	if err != nil {
		return listing.Page[listing.Index]{}, done(0, err)
	}

	items := indexesFromSDK(out.Indexes)
	return listing.Page[listing.Index]{Items: items, NextToken: aws.ToString(out.NextToken)}, done(len(items), nil)
}

// ListVectors fetches one page of vectors in bucket/index, including vector
// data and metadata. Both are opt-in on the wire.
func (r *Repo) ListVectors(
	ctx context.Context, region, bucket, index string, cur listing.Cursor,
) (listing.Page[listing.Vector], error) {
	ctx, done := r.observe(ctx, opListVectors, region,
		attribute.String("s3vectors.bucket", bucket),
		attribute.String("s3vectors.index", index),
	)

	client, err := r.clients.New(ctx, region)
	if err != nil {
		return listing.Page[listing.Vector]{}, done(0, err)
	}

	out, err := client.ListVectors(ctx, &s3vectors.ListVectorsInput{
		VectorBucketName: aws.String(bucket),
		IndexName:        aws.String(index),
		MaxResults:       maxResults(cur),
		NextToken:        nextToken(cur),
		ReturnData:       true,
		ReturnMetadata:   true,
	})
	if err != nil {
		return listing.Page[listing.Vector]{}, done(0, err)
	}

	items, err := vectorsFromSDK(out.Vectors)
	if err != nil {
		// A document the SDK cannot decode is a malformed response.
		return listing.Page[listing.Vector]{}, done(0, err)
	}
	return listing.Page[listing.Vector]{Items: items, NextToken: aws.ToString(out.NextToken)}, done(len(items), nil)
}

// observe starts a client span and returns a finisher that records metrics,
// closes the span and wraps a non-nil error as a domain.RemoteError.
func (r *Repo) observe(
	ctx context.Context, op, region string, attrs ...attribute.KeyValue,
) (context.Context, func(items int, err error) error) {
	start := time.Now()
	attrs = append(attrs,
		attribute.String("rpc.system", "aws-api"),
		attribute.String("rpc.method", op),
		attribute.String("cloud.region", region),
	)
	ctx, span := tracer.Start(ctx, "S3Vectors."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, func(items int, err error) error {
		defer span.End()
		metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.RemoteRequestsTotal.WithLabelValues(op, "error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return domain.NewRemoteError(op, err)
		}

		metrics.RemoteRequestsTotal.WithLabelValues(op, "success").Inc()
		metrics.RemoteItemsTotal.WithLabelValues(op).Add(float64(items))
		span.SetAttributes(attribute.Int("s3vectors.items", items))
		return nil
	}
}

func maxResults(cur listing.Cursor) *int32 {
	if cur.MaxResults <= 0 {
		return nil
	}
	return aws.Int32(cur.MaxResults)
}

func nextToken(cur listing.Cursor) *string {
	if cur.NextToken == "" {
		return nil
	}
	return aws.String(cur.NextToken)
}
