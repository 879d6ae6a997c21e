package commands

import (
	"encoding/json"
	"math"

	"github.com/kailas-cloud/vecbrowse/internal/domain/document"
	"github.com/kailas-cloud/vecbrowse/internal/domain/listing"
)

type bucketRecord struct {
	Name string `json:"name"`
	ARN  string `json:"arn"`
}

// indexRecord carries the index name twice; the UI reads both keys.
type indexRecord struct {
	IndexName        string `json:"indexName"`
	VectorBucketName string `json:"vectorBucketName"`
	IndexARN         string `json:"indexArn"`
	IndexNameLegacy  string `json:"index_name"`
}

type vectorRecord struct {
	Key      string     `json:"key"`
	Data     vectorData `json:"data"`
	Metadata any        `json:"metadata"`
}

// vectorData writes NaN and infinite components as null instead of failing
// the whole page.
type vectorData []float32

func (d vectorData) MarshalJSON() ([]byte, error) {
	out := make([]*float32, len(d))
	for i := range d {
		f := d[i]
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			continue
		}
		out[i] = &f
	}
	return json.Marshal(out)
}

func bucketRecords(in []listing.Bucket) []bucketRecord {
	out := make([]bucketRecord, len(in))
	for i, b := range in {
		out[i] = bucketRecord{Name: b.Name, ARN: b.ARN}
	}
	return out
}

func indexRecords(in []listing.Index) []indexRecord {
	out := make([]indexRecord, len(in))
	for i, idx := range in {
		out[i] = indexRecord{
			IndexName:        idx.Name,
			VectorBucketName: idx.BucketName,
			IndexARN:         idx.ARN,
			IndexNameLegacy:  idx.Name,
		}
	}
	return out
}

func vectorRecords(in []listing.Vector) []vectorRecord {
	out := make([]vectorRecord, len(in))
	for i, v := range in {
		data := v.Data
		if data == nil {
			data = []float32{}
		}

		var meta any
		if v.Metadata != nil {
			meta = document.ToJSON(v.Metadata)
		}

		out[i] = vectorRecord{Key: v.Key, Data: data, Metadata: meta}
	}
	return out
}
