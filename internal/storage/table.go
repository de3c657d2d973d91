package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/periodsweep/internal/dynamo"
)

// Header returns the period table header for n orbits.
func Header(n int) []string {
	header := []string{"tangential_velocity"}
	for k := 1; k <= n; k++ {
		header = append(header, fmt.Sprintf("time_%d", k))
	}
	return header
}

func formatFloat(v float64) string {
	// 'g' with -1 precision round-trips exactly and spells NaN as "NaN".
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// TableWriter streams samples as period table rows.
type TableWriter struct {
	w      *csv.Writer
	orbits int
}

// NewTableWriter writes the header immediately.
func NewTableWriter(w io.Writer, orbits int) (*TableWriter, error) {
	t := &TableWriter{w: csv.NewWriter(w), orbits: orbits}
	if err := t.w.Write(Header(orbits)); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TableWriter) Write(s dynamo.Sample) error {
	if len(s.Times) != t.orbits {
		return fmt.Errorf("sample %d has %d times, table has %d", s.Index, len(s.Times), t.orbits)
	}
	row := make([]string, 0, t.orbits+1)
	row = append(row, formatFloat(s.Velocity))
	for _, v := range s.Times {
		row = append(row, formatFloat(v))
	}
	return t.w.Write(row)
}

func (t *TableWriter) Flush() error {
	t.w.Flush()
	return t.w.Error()
}

// WriteCSV writes a complete period table.
func WriteCSV(w io.Writer, orbits int, samples []dynamo.Sample) error {
	t, err := NewTableWriter(w, orbits)
	if err != nil {
		return err
	}
	for _, s := range samples {
		if err := t.Write(s); err != nil {
			return err
		}
	}
	return t.Flush()
}

// ReadCSV parses a period table. The table carries no plan indices or
// outcomes, so Index is the row number and Outcome is Completed when every
// slot is filled and Degenerate otherwise.
func ReadCSV(r io.Reader) ([]dynamo.Sample, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty period table")
	}
	if len(records[0]) < 1 || records[0][0] != "tangential_velocity" {
		return nil, fmt.Errorf("unexpected header %v", records[0])
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		v, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		s := dynamo.Sample{Index: i, Velocity: v, Times: make([]float64, len(record)-1)}
		for j, field := range record[1:] {
			if s.Times[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", i+1, j+2, err)
			}
		}
		if s.Completed() < len(s.Times) {
			s.Outcome = dynamo.OutcomeDegenerate
		}
		samples = append(samples, s)
	}
	return samples, nil
}
