package listing

import (
	"context"

	domlisting "github.com/kailas-cloud/vecbrowse/internal/domain/listing"
)

// Repository fetches single listing pages from the vector storage service.
type Repository interface {
	ListBuckets(ctx context.Context, region string, cur domlisting.Cursor) (domlisting.Page[domlisting.Bucket], error)
	ListIndexes(ctx context.Context, region, bucket string, cur domlisting.Cursor) (domlisting.Page[domlisting.Index], error)
	ListVectors(
		ctx context.Context, region, bucket, index string, cur domlisting.Cursor,
	) (domlisting.Page[domlisting.Vector], error)
}
