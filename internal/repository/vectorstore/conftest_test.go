package vectorstore

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3vectors"

	s3vt "github.com/kailas-cloud/vecbrowse/internal/transport/s3vectors"
)

// fakeAPI records list inputs and replays canned outputs.
type fakeAPI struct {
	bucketsOut *s3vectors.ListVectorBucketsOutput
	indexesOut *s3vectors.ListIndexesOutput
	vectorsOut *s3vectors.ListVectorsOutput
	err        error

	bucketsIn []*s3vectors.ListVectorBucketsInput
	indexesIn []*s3vectors.ListIndexesInput
	vectorsIn []*s3vectors.ListVectorsInput
}

func (f *fakeAPI) ListVectorBuckets(
	_ context.Context, in *s3vectors.ListVectorBucketsInput, _ ...func(*s3vectors.Options),
) (*s3vectors.ListVectorBucketsOutput, error) {
	f.bucketsIn = append(f.bucketsIn, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.bucketsOut == nil {
		return &s3vectors.ListVectorBucketsOutput{}, nil
	}
	return f.bucketsOut, nil
}

func (f *fakeAPI) ListIndexes(
	_ context.Context, in *s3vectors.ListIndexesInput, _ ...func(*s3vectors.Options),
) (*s3vectors.ListIndexesOutput, error) {
	f.indexesIn = append(f.indexesIn, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.indexesOut == nil {
		return &s3vectors.ListIndexesOutput{}, nil
	}
	return f.indexesOut, nil
}

func (f *fakeAPI) ListVectors(
	_ context.Context, in *s3vectors.ListVectorsInput, _ ...func(*s3vectors.Options),
) (*s3vectors.ListVectorsOutput, error) {
	f.vectorsIn = append(f.vectorsIn, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.vectorsOut == nil {
		return &s3vectors.ListVectorsOutput{}, nil
	}
	return f.vectorsOut, nil
}

// fakeClients hands out the same fake API and remembers requested regions.
type fakeClients struct {
	api     *fakeAPI
	err     error
	regions []string
}

func (f *fakeClients) New(_ context.Context, region string) (s3vt.API, error) {
	f.regions = append(f.regions, region)
	if f.err != nil {
		return nil, f.err
	}
	return f.api, nil
}

// fakeDocument returns a fixed generic value from UnmarshalSmithyDocument.
type fakeDocument struct {
	value interface{}
	err   error
}

func (d fakeDocument) UnmarshalSmithyDocument(v interface{}) error {
	if d.err != nil {
		return d.err
	}
	if p, ok := v.(*interface{}); ok {
		*p = d.value
	}
	return nil
}
