package utils

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const csvBufferSize = 64 * 1024

// CSVWriter streams rows through a buffered encoding/csv writer. The header is
// written once, before the first row.
type CSVWriter struct {
	buffered *bufio.Writer
	csv      *csv.Writer
	headers  []string
	rows     int
	started  bool
}

func NewCSVWriter(w io.Writer, headers []string) *CSVWriter {
	buffered := bufio.NewWriterSize(w, csvBufferSize)
	return &CSVWriter{
		buffered: buffered,
		csv:      csv.NewWriter(buffered),
		headers:  headers,
	}
}

func (w *CSVWriter) Write(row []string) error {
	if !w.started {
		w.started = true
		if err := w.csv.Write(w.headers); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	if len(row) != len(w.headers) {
		return fmt.Errorf("CSV row has %d fields, header has %d", len(row), len(w.headers))
	}

	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("failed to write CSV row %d: %w", w.rows+1, err)
	}
	w.rows++
	return nil
}

// Flush writes the header even when no rows were written.
func (w *CSVWriter) Flush() (int, error) {
	if !w.started {
		w.started = true
		if err := w.csv.Write(w.headers); err != nil {
			return 0, fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return w.rows, fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	if err := w.buffered.Flush(); err != nil {
		return w.rows, fmt.Errorf("failed to flush CSV buffer: %w", err)
	}
	return w.rows, nil
}

func FormatCSVTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatCSVText prefixes cells a spreadsheet would evaluate as a formula with
// a single quote so they open as plain text.
func FormatCSVText(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + value
	}
	return value
}

func FormatCSVList(values []string) string {
	return FormatCSVText(strings.Join(values, ";"))
}

func FormatCSVOptional(value *string) string {
	if value == nil {
		return ""
	}
	return FormatCSVText(*value)
}

func FormatCSVInt(value int) string {
	return strconv.Itoa(value)
}
