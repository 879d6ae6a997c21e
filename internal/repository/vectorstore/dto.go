package vectorstore

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/types"
	smithydocument "github.com/aws/smithy-go/document"

	"github.com/kailas-cloud/vecbrowse/internal/domain/document"
	"github.com/kailas-cloud/vecbrowse/internal/domain/listing"
)

// bucketsFromSDK maps bucket summaries to domain buckets.
func bucketsFromSDK(in []types.VectorBucketSummary) []listing.Bucket {
	out := make([]listing.Bucket, len(in))
	for i, b := range in {
		out[i] = listing.Bucket{
			Name:      aws.ToString(b.VectorBucketName),
			ARN:       aws.ToString(b.VectorBucketArn),
			CreatedAt: aws.ToTime(b.CreationTime),
		}
	}
	return out
}

// indexesFromSDK maps index summaries to domain indexes.
func indexesFromSDK(in []types.IndexSummary) []listing.Index {
	out := make([]listing.Index, len(in))
	for i, idx := range in {
		out[i] = listing.Index{
			Name:       aws.ToString(idx.IndexName),
			BucketName: aws.ToString(idx.VectorBucketName),
			ARN:        aws.ToString(idx.IndexArn),
			CreatedAt:  aws.ToTime(idx.CreationTime),
		}
	}
	return out
}

// vectorsFromSDK maps listed vectors to domain vectors.
func vectorsFromSDK(in []types.ListOutputVector) ([]listing.Vector, error) {
	out := make([]listing.Vector, len(in))
	for i, v := range in {
		key := aws.ToString(v.Key)

		var meta document.Value
		if v.Metadata != nil {
			var err error
			meta, err = metadataFromSDK(v.Metadata)
			if err != nil {
				return nil, fmt.Errorf("vector %q metadata: %w", key, err)
			}
		}

		out[i] = listing.Vector{
			Key:      key,
			Data:     float32Data(v.Data),
			Metadata: meta,
		}
	}
	return out, nil
}

// float32Data returns the float32 payload, or an empty slice when the vector
// carries no data or data of another kind.
func float32Data(d types.VectorData) []float32 {
	if f, ok := d.(*types.VectorDataMemberFloat32); ok && f.Value != nil {
		return f.Value
	}
	return []float32{}
}

// smithyDocument is the unmarshal half of the SDK's document.Interface.
type smithyDocument interface {
	UnmarshalSmithyDocument(v interface{}) error
}

// metadataFromSDK decodes an SDK lazy document into a domain document.
func metadataFromSDK(doc smithyDocument) (document.Value, error) {
	var raw interface{}
	if err := doc.UnmarshalSmithyDocument(&raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return fromSmithyValue(raw)
}

// fromSmithyValue walks the generic shape produced by the SDK document decoder.
func fromSmithyValue(raw interface{}) (document.Value, error) {
	switch v := raw.(type) {
	case nil:
		return document.Null{}, nil
	case map[string]interface{}:
		o := make(document.Object, len(v))
		for k, e := range v {
			conv, err := fromSmithyValue(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			o[k] = conv
		}
		return o, nil
	case []interface{}:
		a := make(document.Array, len(v))
		for i, e := range v {
			conv, err := fromSmithyValue(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			a[i] = conv
		}
		return a, nil
	case smithydocument.Number:
		return document.ParseNumber(string(v))
	case json.Number:
		return document.ParseNumber(v.String())
	case float64:
		return document.Float(v), nil
	case string:
		return document.String(v), nil
	case bool:
		return document.Bool(v), nil
	default:
		return nil, fmt.Errorf("unsupported document value of type %T", raw)
	}
}
