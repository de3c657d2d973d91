package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/periodsweep/internal/dynamo"
)

// SampleRecord is the JSON form of a sample. JSON has no NaN or Inf, so
// unfilled slots and undefined metrics are null.
type SampleRecord struct {
	Index    int                 `json:"index"`
	Velocity float64             `json:"velocity"`
	Times    []*float64          `json:"times"`
	Outcome  dynamo.Outcome      `json:"outcome"`
	Steps    int                 `json:"steps"`
	Metrics  map[string]*float64 `json:"metrics,omitempty"`
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func valueOrNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func NewSampleRecord(s dynamo.Sample) SampleRecord {
	rec := SampleRecord{
		Index:    s.Index,
		Velocity: s.Velocity,
		Times:    make([]*float64, len(s.Times)),
		Outcome:  s.Outcome,
		Steps:    s.Steps,
	}
	for i, t := range s.Times {
		rec.Times[i] = nullable(t)
	}
	if len(s.Metrics) > 0 {
		rec.Metrics = make(map[string]*float64, len(s.Metrics))
		for k, v := range s.Metrics {
			rec.Metrics[k] = nullable(v)
		}
	}
	return rec
}

func (r SampleRecord) Sample() dynamo.Sample {
	s := dynamo.Sample{
		Index:    r.Index,
		Velocity: r.Velocity,
		Times:    make([]float64, len(r.Times)),
		Outcome:  r.Outcome,
		Steps:    r.Steps,
	}
	for i, t := range r.Times {
		s.Times[i] = valueOrNaN(t)
	}
	if len(r.Metrics) > 0 {
		s.Metrics = make(map[string]float64, len(r.Metrics))
		for k, v := range r.Metrics {
			s.Metrics[k] = valueOrNaN(v)
		}
	}
	return s
}

type ExportData struct {
	Run     *RunMetadata   `json:"run"`
	Samples []SampleRecord `json:"samples"`
}

// ExportJSON writes a run and its samples as one indented document.
func ExportJSON(w io.Writer, meta *RunMetadata, samples []dynamo.Sample) error {
	data := ExportData{
		Run:     meta,
		Samples: make([]SampleRecord, len(samples)),
	}
	for i, s := range samples {
		data.Samples[i] = NewSampleRecord(s)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
