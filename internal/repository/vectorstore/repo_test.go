package vectorstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/vecbrowse/internal/domain"
	"github.com/kailas-cloud/vecbrowse/internal/domain/document"
	"github.com/kailas-cloud/vecbrowse/internal/domain/listing"
	"github.com/kailas-cloud/vecbrowse/internal/metrics"
	s3vt "github.com/kailas-cloud/vecbrowse/internal/transport/s3vectors"
)

func TestListBuckets_MapsSummaries(t *testing.T) {
	created := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{bucketsOut: &s3vectors.ListVectorBucketsOutput{
		VectorBuckets: []types.VectorBucketSummary{
			{
				VectorBucketName: aws.String("media"),
				VectorBucketArn:  aws.String("arn:aws:s3vectors:us-east-1:123456789012:bucket/media"),
				CreationTime:     aws.Time(created),
			},
			{VectorBucketName: aws.String("docs"), VectorBucketArn: aws.String("arn:docs")},
		},
		NextToken: aws.String("tok-2"),
	}}
	clients := &fakeClients{api: api}

	page, err := New(clients).ListBuckets(context.Background(), "us-east-1", listing.Cursor{})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, listing.Bucket{
		Name:      "media",
		ARN:       "arn:aws:s3vectors:us-east-1:123456789012:bucket/media",
		CreatedAt: created,
	}, page.Items[0])
	assert.Equal(t, "docs", page.Items[1].Name)
	assert.Equal(t, "tok-2", page.NextToken)
	assert.Equal(t, []string{"us-east-1"}, clients.regions)
}

func TestListBuckets_ForwardsCursor(t *testing.T) {
	api := &fakeAPI{}
	repo := New(&fakeClients{api: api})

	_, err := repo.ListBuckets(context.Background(), "us-east-1", listing.Cursor{})
	require.NoError(t, err)
	_, err = repo.ListBuckets(context.Background(), "us-east-1", listing.Cursor{MaxResults: 50, NextToken: "abc"})
	require.NoError(t, err)

	require.Len(t, api.bucketsIn, 2)
	assert.Nil(t, api.bucketsIn[0].MaxResults)
	assert.Nil(t, api.bucketsIn[0].NextToken)
	assert.Equal(t, int32(50), aws.ToInt32(api.bucketsIn[1].MaxResults))
	assert.Equal(t, "abc", aws.ToString(api.bucketsIn[1].NextToken))
}

func TestListBuckets_Empty(t *testing.T) {
	page, err := New(&fakeClients{api: &fakeAPI{}}).ListBuckets(context.Background(), "us-east-1", listing.Cursor{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore())
}

func TestListIndexes_MapsSummaries(t *testing.T) {
	api := &fakeAPI{indexesOut: &s3vectors.ListIndexesOutput{
		Indexes: []types.IndexSummary{{
			IndexName:        aws.String("movies"),
			VectorBucketName: aws.String("media"),
			IndexArn:         aws.String("arn:aws:s3vectors:us-east-1:123456789012:bucket/media/index/movies"),
		}},
	}}

	page, err := New(&fakeClients{api: api}).ListIndexes(context.Background(), "us-east-1", "media", listing.Cursor{})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "movies", page.Items[0].Name)
	assert.Equal(t, "media", page.Items[0].BucketName)
	assert.Equal(t, "arn:aws:s3vectors:us-east-1:123456789012:bucket/media/index/movies", page.Items[0].ARN)

	require.Len(t, api.indexesIn, 1)
	assert.Equal(t, "media", aws.ToString(api.indexesIn[0].VectorBucketName))
	assert.Nil(t, api.indexesIn[0].VectorBucketArn)
}

func TestListVectors_RequestsDataAndMetadata(t *testing.T) {
	api := &fakeAPI{}

	_, err := New(&fakeClients{api: api}).ListVectors(context.Background(), "eu-west-1", "media", "movies", listing.Cursor{})
	require.NoError(t, err)

	require.Len(t, api.vectorsIn, 1)
	in := api.vectorsIn[0]
	assert.True(t, in.ReturnData, "vector data must be requested explicitly")
	assert.True(t, in.ReturnMetadata, "metadata must be requested explicitly")
	assert.Equal(t, "media", aws.ToString(in.VectorBucketName))
	assert.Equal(t, "movies", aws.ToString(in.IndexName))
}

// wireClients points a real S3 Vectors client at handler, so responses go
// through the SDK's own deserializers.
func wireClients(t *testing.T, handler http.HandlerFunc) clientSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return s3vt.NewClientFactory(s3vt.Config{
		Provider: s3vt.ConfigProviderFunc(func(_ context.Context, region string) (aws.Config, error) {
			return aws.Config{
				Region:           region,
				Credentials:      aws.AnonymousCredentials{},
				RetryMaxAttempts: 1,
			}, nil
		}),
		EndpointURL: srv.URL,
	})
}

func TestListVectors_MapsWireResponse(t *testing.T) {
	clients := wireClients(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ListVectors", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"vectors": [
				{
					"key": "v1",
					"data": {"float32": [0.5, 1]},
					"metadata": {
						"genre": "drama",
						"year": 1999,
						"neg": -3,
						"f": 1.5,
						"arr": [1, "x", true, null]
					}
				},
				{"key": "v2"}
			],
			"nextToken": "page-2"
		}`))
	})

	page, err := New(clients).ListVectors(context.Background(), "us-east-1", "media", "movies", listing.Cursor{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "page-2", page.NextToken)

	v1 := page.Items[0]
	assert.Equal(t, "v1", v1.Key)
	assert.Equal(t, []float32{0.5, 1}, v1.Data)
	assert.Equal(t, document.Object{
		"genre": document.String("drama"),
		"year":  document.PosInt(1999),
		"neg":   document.NegInt(-3),
		"f":     document.Float(1.5),
		"arr": document.Array{
			document.PosInt(1),
			document.String("x"),
			document.Bool(true),
			document.Null{},
		},
	}, v1.Metadata)

	v2 := page.Items[1]
	assert.Equal(t, "v2", v2.Key)
	assert.NotNil(t, v2.Data)
	assert.Empty(t, v2.Data)
	assert.Nil(t, v2.Metadata)
}

func TestListVectors_WireErrorKeepsServiceCode(t *testing.T) {
	clients := wireClients(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Amzn-Errortype", "AccessDeniedException")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"denied"}`))
	})

	_, err := New(clients).ListVectors(context.Background(), "us-east-1", "media", "movies", listing.Cursor{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteCall)
	assert.Contains(t, err.Error(), "AccessDeniedException")
	assert.Contains(t, err.Error(), "denied")
}

func TestRepo_RemoteErrorIsVerbatim(t *testing.T) {
	remoteErr := errors.New("AccessDenied")
	api := &fakeAPI{err: remoteErr}
	repo := New(&fakeClients{api: api})
	ctx := context.Background()

	_, errBuckets := repo.ListBuckets(ctx, "us-east-1", listing.Cursor{})
	_, errIndexes := repo.ListIndexes(ctx, "us-east-1", "b", listing.Cursor{})
	_, errVectors := repo.ListVectors(ctx, "us-east-1", "b", "i", listing.Cursor{})

	for _, err := range []error{errBuckets, errIndexes, errVectors} {
		require.Error(t, err)
		assert.Equal(t, "AccessDenied", err.Error())
		assert.ErrorIs(t, err, domain.ErrRemoteCall)
		assert.ErrorIs(t, err, remoteErr)
	}

	// One request per call, no retries.
	assert.Len(t, api.bucketsIn, 1)
	assert.Len(t, api.indexesIn, 1)
	assert.Len(t, api.vectorsIn, 1)
}

func TestRepo_ClientConstructionError(t *testing.T) {
	loadErr := errors.New("load aws config: failed to get shared config profile, nope")
	clients := &fakeClients{err: loadErr}

	_, err := New(clients).ListBuckets(context.Background(), "us-east-1", listing.Cursor{})
	require.Error(t, err)
	assert.Equal(t, loadErr.Error(), err.Error())
	assert.ErrorIs(t, err, domain.ErrRemoteCall)

	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, opListVectorBuckets, re.Op)
}

func TestRepo_RecordsMetrics(t *testing.T) {
	success := metrics.RemoteRequestsTotal.WithLabelValues(opListIndexes, "success")
	failure := metrics.RemoteRequestsTotal.WithLabelValues(opListIndexes, "error")
	items := metrics.RemoteItemsTotal.WithLabelValues(opListIndexes)
	beforeOK, beforeErr, beforeItems := testutil.ToFloat64(success), testutil.ToFloat64(failure), testutil.ToFloat64(items)

	api := &fakeAPI{indexesOut: &s3vectors.ListIndexesOutput{
		Indexes: []types.IndexSummary{{IndexName: aws.String("a")}, {IndexName: aws.String("b")}},
	}}
	repo := New(&fakeClients{api: api})
	_, err := repo.ListIndexes(context.Background(), "us-east-1", "media", listing.Cursor{})
	require.NoError(t, err)

	api.err = errors.New("ThrottlingException")
	_, err = repo.ListIndexes(context.Background(), "us-east-1", "media", listing.Cursor{})
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(success)-beforeOK, 0)
	assert.InDelta(t, 1, testutil.ToFloat64(failure)-beforeErr, 0)
	assert.InDelta(t, 2, testutil.ToFloat64(items)-beforeItems, 0)
}
