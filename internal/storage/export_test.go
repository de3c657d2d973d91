package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "leo_1", Name: "leo", Complete: true}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, testSamples()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if strings.Contains(buf.String(), "NaN") {
		t.Error("JSON output must not contain NaN")
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if data.Run.ID != "leo_1" {
		t.Errorf("expected run leo_1, got %s", data.Run.ID)
	}
	if len(data.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(data.Samples))
	}
	if data.Samples[1].Times[0] != nil {
		t.Errorf("expected null for an unfilled slot")
	}
	if got := data.Samples[1].Outcome.String(); got != "collision" {
		t.Errorf("expected collision outcome, got %s", got)
	}
	if !strings.Contains(buf.String(), `"outcome": "no_convergence"`) {
		t.Error("expected outcomes written by name")
	}

	back := data.Samples[2].Sample()
	if back.Times[0] != 5000 || !math.IsNaN(back.Times[1]) {
		t.Errorf("sample did not survive export: %v", back.Times)
	}
}
