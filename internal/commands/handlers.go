// Package commands implements the listing operations exposed to the UI shell.
// Each operation returns its result as JSON text, or an error whose message
// is the underlying failure's description.
package commands

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecbrowse/internal/domain"
	"github.com/kailas-cloud/vecbrowse/internal/domain/listing"
	"github.com/kailas-cloud/vecbrowse/internal/logger"
)

// Lister is the subset of usecase/listing.Service used by the handlers.
type Lister interface {
	ListBuckets(ctx context.Context, region string, req listing.PageRequest) (listing.Page[listing.Bucket], error)
	ListIndexes(
		ctx context.Context, region, bucket string, req listing.PageRequest,
	) (listing.Page[listing.Index], error)
	ListVectors(
		ctx context.Context, region, bucket, index string, req listing.PageRequest,
	) (listing.Page[listing.Vector], error)
}

// Result is a serialized listing. NextToken is set when more items remain.
type Result struct {
	Payload   string
	NextToken string
}

// Handlers serves GetBucketList, GetBucketIndexes and GetBucketVectors.
type Handlers struct {
	lister Lister
}

// New creates the listing handlers.
func New(lister Lister) *Handlers {
	return &Handlers{lister: lister}
}

// GetBucketList lists the vector buckets in region as [{name, arn}].
func (h *Handlers) GetBucketList(ctx context.Context, region string, req listing.PageRequest) (Result, error) {
	ctx = logger.With(ctx, zap.String("region", region))

	page, err := h.lister.ListBuckets(ctx, region, req)
	if err != nil {
		return Result{}, remoteFailure(ctx, "ListVectorBuckets", err)
	}
	return encode(ctx, bucketRecords(page.Items), page.NextToken)
}

// GetBucketIndexes lists the indexes of bucket as
// [{indexName, vectorBucketName, indexArn, index_name}].
func (h *Handlers) GetBucketIndexes(
	ctx context.Context, region, bucket string, req listing.PageRequest,
) (Result, error) {
	ctx = logger.With(ctx, zap.String("region", region), zap.String("bucket", bucket))

	page, err := h.lister.ListIndexes(ctx, region, bucket, req)
	if err != nil {
		return Result{}, remoteFailure(ctx, "ListIndexes", err)
	}
	return encode(ctx, indexRecords(page.Items), page.NextToken)
}

// GetBucketVectors lists the vectors of bucket/index as [{key, data, metadata}].
func (h *Handlers) GetBucketVectors(
	ctx context.Context, region, bucket, index string, req listing.PageRequest,
) (Result, error) {
	ctx = logger.With(ctx, zap.String("region", region), zap.String("bucket", bucket), zap.String("index", index))

	page, err := h.lister.ListVectors(ctx, region, bucket, index, req)
	if err != nil {
		return Result{}, remoteFailure(ctx, "ListVectors", err)
	}
	return encode(ctx, vectorRecords(page.Items), page.NextToken)
}

// marshal is swapped in tests to exercise the serialization failure path.
var marshal = json.Marshal

// remoteFailure unwraps the remote error so callers see its text unchanged.
// Failures that never reached the service are reported under op.
func remoteFailure(ctx context.Context, op string, err error) error {
	var re *domain.RemoteError
	if !errors.As(err, &re) {
		re = &domain.RemoteError{Op: op, Err: err}
	}
	logger.FromContext(ctx).Warn("remote listing failed", zap.String("operation", re.Op), zap.Error(re))
	return re
}

func encode[T any](ctx context.Context, records []T, nextToken string) (Result, error) {
	if records == nil {
		records = []T{}
	}
	b, err := marshal(records)
	if err != nil {
		logger.FromContext(ctx).Error("encode listing", zap.Error(err))
		return Result{}, &domain.SerializationError{Err: err}
	}
	return Result{Payload: string(b), NextToken: nextToken}, nil
}
