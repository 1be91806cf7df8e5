// Package export writes flattened catalog rows to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/transform"
)

// CSVWriter writes rows under a header discovered across the whole export.
type CSVWriter struct {
	// Comma is the field delimiter (default ',').
	Comma rune
	// CRLF ends records with \r\n instead of \n.
	CRLF bool
}

// NewCSVWriter creates a comma-delimited writer with \r\n record endings.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{Comma: ',', CRLF: true}
}

// Write creates the parent directory of path if needed and writes the file.
//
// The data goes to a temporary file in the same directory which is renamed
// over path once complete, so a failed run never leaves a partial export and
// a rerun replaces the previous file in full.
func (w *CSVWriter) Write(rows []transform.Row, columns *transform.ColumnSet, path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.ErrFilesystem, "create output directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapError(err, errors.ErrFilesystem, "open output file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := w.Export(rows, columns, tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapError(err, errors.ErrFilesystem, "close output file")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.WrapError(err, errors.ErrFilesystem, "set output file mode")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapError(err, errors.ErrFilesystem, "replace output file")
	}
	return nil
}

// Export writes the header and every row to out.
// Columns missing from a row are written as empty fields.
func (w *CSVWriter) Export(rows []transform.Row, columns *transform.ColumnSet, out io.Writer) error {
	if columns == nil {
		columns = transform.NewColumnSet()
	}

	writer := csv.NewWriter(out)
	if w.Comma != 0 {
		writer.Comma = w.Comma
	}
	writer.UseCRLF = w.CRLF

	header := columns.Header()
	if err := writer.Write(header); err != nil {
		return errors.WrapError(err, errors.ErrFilesystem, "write header")
	}

	record := make([]string, len(header))
	for i, row := range rows {
		for j, column := range header {
			record[j] = row.Get(column)
		}
		if err := writer.Write(record); err != nil {
			return errors.WrapError(err, errors.ErrFilesystem, fmt.Sprintf("write row %d", i+1))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.WrapError(err, errors.ErrFilesystem, "flush CSV")
	}
	return nil
}
