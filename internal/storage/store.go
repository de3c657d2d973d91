package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/periodsweep/internal/config"
	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/sweep"
)

const (
	metadataFile = "metadata.json"
	tableFile    = "periods.csv"
	samplesFile  = "samples.json"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Timestamp time.Time     `json:"timestamp"`
	Config    config.Config `json:"config"`
	Summary   sweep.Summary `json:"summary"`
	Complete  bool          `json:"complete"`
	Error     string        `json:"error,omitempty"`
}

// Run is a sweep being recorded. Samples are streamed to the period
// table as they arrive; Finish writes the rest.
type Run struct {
	dir     string
	meta    RunMetadata
	file    *os.File
	table   *TableWriter
	records []SampleRecord
}

// Create starts a new run directory for cfg.
func (s *Store) Create(cfg *config.Config) (*Run, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	file, err := os.Create(filepath.Join(runDir, tableFile))
	if err != nil {
		return nil, err
	}
	table, err := NewTableWriter(file, cfg.Orbits)
	if err != nil {
		file.Close()
		return nil, err
	}

	return &Run{
		dir: runDir,
		meta: RunMetadata{
			ID:        runID,
			Name:      cfg.Name,
			Timestamp: now,
			Config:    *cfg,
		},
		file:  file,
		table: table,
	}, nil
}

func (r *Run) ID() string { return r.meta.ID }

func (r *Run) Write(s dynamo.Sample) error {
	if err := r.table.Write(s); err != nil {
		return err
	}
	r.records = append(r.records, NewSampleRecord(s))
	return nil
}

// Finish closes the period table and writes the samples and metadata.
// runErr is the error the sweep ended with, if any; the run is kept
// either way.
func (r *Run) Finish(summary sweep.Summary, runErr error) error {
	flushErr := r.table.Flush()
	closeErr := r.file.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(r.dir, samplesFile), r.records); err != nil {
		return err
	}

	r.meta.Summary = summary
	r.meta.Complete = runErr == nil
	if runErr != nil {
		r.meta.Error = runErr.Error()
	}
	return writeJSON(filepath.Join(r.dir, metadataFile), r.meta)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSamples returns the samples of a run in sweep order.
func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}

	var records []SampleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	samples := make([]dynamo.Sample, len(records))
	for i, rec := range records {
		samples[i] = rec.Sample()
	}
	return samples, nil
}

// TablePath is the location of a run's period table.
func (s *Store) TablePath(runID string) string {
	return filepath.Join(s.baseDir, runID, tableFile)
}
