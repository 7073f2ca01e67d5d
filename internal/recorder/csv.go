package recorder

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the column order for exported sample files.
var csvHeader = []string{"t", "x", "v", "a", "brake", "distance"}

// WriteCSV writes samples oldest-first as CSV with a header row.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	row := make([]string, len(csvHeader))
	for _, s := range samples {
		for i, v := range []float64{s.T, s.X, s.V, s.A, s.Brake, s.Distance} {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a sample file previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	samples := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(csvHeader), len(rec))
		}
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+2, csvHeader[j], err)
			}
			vals[j] = v
		}
		samples = append(samples, Sample{
			T: vals[0], X: vals[1], V: vals[2],
			A: vals[3], Brake: vals[4], Distance: vals[5],
		})
	}
	return samples, nil
}
