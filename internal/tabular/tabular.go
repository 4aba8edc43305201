// AngelaMos | 2026
// tabular.go

// Package tabular reads and writes the CSV files used for bulk import and
// order export.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/carterperez-dev/orderdesk/internal/core"
)

// MaxUploadBytes caps the size of an imported file.
const MaxUploadBytes = 10 << 20

// Record is one data row keyed by normalized header name.
type Record map[string]string

// NormalizeHeader lowercases and trims a column name.
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Read parses a CSV document with a header row. Every column in required
// must be present after header normalization, otherwise nothing is returned
// and the error wraps core.ErrInvalidInput. Short rows read missing cells as
// empty strings.
func Read(r io.Reader, required ...string) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.Invalidf("csv file is empty")
	}
	if err != nil {
		return nil, core.Invalidf("read csv header: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.Invalidf(
			"csv is missing required columns: %s",
			strings.Join(missing, ", "),
		)
	}

	var records []Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, core.Invalidf("read csv line %d: %v", line, err)
		}

		rec := make(Record, len(required))
		for _, col := range required {
			if i := index[col]; i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// Write emits header followed by rows.
func Write(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}

	return nil
}

// Serve writes a CSV attachment response.
func Serve(
	w http.ResponseWriter,
	filename string,
	header []string,
	rows [][]string,
) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filename),
	)
	w.WriteHeader(http.StatusOK)
	return Write(w, header, rows)
}

// ServeTemplate writes a header-only CSV attachment.
func ServeTemplate(w http.ResponseWriter, filename string, header []string) error {
	return Serve(w, filename, header, nil)
}

// FromRequest returns the CSV body of an upload. Multipart forms are read
// from the "file" field; any other body is taken as raw CSV.
func FromRequest(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
		if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
			return nil, core.Invalidf("parse upload: %v", err)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, core.Invalidf("missing upload field \"file\"")
		}
		return f, nil
	}

	return http.MaxBytesReader(w, r.Body, MaxUploadBytes), nil
}
