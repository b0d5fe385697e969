package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/parquet-go/parquet-go"
)

// ReadReport loads every row of the report at path.
func ReadReport(path string) ([]ReportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat report file: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	r := parquet.NewGenericReader[ReportRow](pf)
	defer r.Close()

	out := make([]ReportRow, 0, r.NumRows())
	buf := make([]ReportRow, 256)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read report rows: %w", err)
		}
	}
}

// StatusCount is the number of rows with one status.
type StatusCount struct {
	Status string
	Count  int
}

// Tally counts rows by status, ordered by status name.
func Tally(rows []ReportRow) []StatusCount {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, StatusCount{Status: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

// AtLocation keeps the rows whose location is name.
func AtLocation(rows []ReportRow, name string) []ReportRow {
	var out []ReportRow
	for _, r := range rows {
		if r.Location == name {
			out = append(out, r)
		}
	}
	return out
}
