// Package parquetio exports run reports as Parquet files.
package parquetio

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// WriteReport writes rows to a new file at path, replacing any existing one.
func WriteReport(path string, rows []ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	w := parquet.NewGenericWriter[ReportRow](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("write report rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close report writer: %w", err)
	}
	return f.Close()
}
