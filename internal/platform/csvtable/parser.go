// Package csvtable parses loosely-typed CSV snapshot exports into
// header-keyed row maps. Snapshots come from several generators with
// inconsistent quoting, BOMs and encodings, so parsing is tolerant:
// malformed rows are collected as diagnostics, never raised as failures.
package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// RawRow maps a column header to the cell value of one CSV line.
// Columns absent from a short line are absent from the map.
type RawRow map[string]string

// ParseError describes a single unusable CSV line.
type ParseError struct {
	Line   int    // 1-based line number in the decoded input
	Reason string // human-readable cause
}

// ParsedTable is the result of parsing one CSV snapshot.
// Headers preserves source column order for display; every RawRow key is
// one of Headers.
type ParsedTable struct {
	Headers []string
	Rows    []RawRow
	Errors  []ParseError
}

// DefaultCandleHeaders is the fallback schema used when a snapshot cannot
// be parsed at all, so downstream consumers still see a valid empty table.
var DefaultCandleHeaders = []string{"날짜", "시가", "고가", "저가", "종가", "거래량"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse turns raw CSV bytes into a ParsedTable. It strips a UTF-8 BOM,
// decodes EUC-KR input to UTF-8, treats the first non-blank line as the
// header line and skips blank lines. Lines with more cells than headers
// are excluded and reported in Errors.
func Parse(raw []byte) ParsedTable {
	text := decode(raw)

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var t ParsedTable
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, reason := describe(err)
			t.Errors = append(t.Errors, ParseError{Line: line, Reason: reason})
			continue
		}
		if blank(rec) {
			continue
		}
		if t.Headers == nil {
			t.Headers = trimAll(rec)
			continue
		}
		if len(rec) > len(t.Headers) {
			line, _ := r.FieldPos(0)
			t.Errors = append(t.Errors, ParseError{Line: line, Reason: "more cells than headers"})
			continue
		}
		row := make(RawRow, len(rec))
		for i, cell := range rec {
			row[t.Headers[i]] = strings.TrimSpace(cell)
		}
		t.Rows = append(t.Rows, row)
	}

	if t.Headers == nil {
		// Nothing usable: degrade to an empty table with the candle schema.
		slog.Warn("csv snapshot is empty or unparsable, using default schema",
			"bytes", len(raw), "errors", len(t.Errors))
		t.Headers = append([]string(nil), DefaultCandleHeaders...)
		if len(raw) > 0 && len(t.Errors) == 0 {
			t.Errors = append(t.Errors, ParseError{Line: 1, Reason: "no parsable lines"})
		}
	}
	return t
}

// First returns the first present, non-empty value among the given column
// aliases. Snapshot generators disagree on header names (날짜/일자/Date), so
// named access goes through alias lists.
func (r RawRow) First(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := r[n]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// decode strips a UTF-8 BOM and transcodes EUC-KR bodies to UTF-8.
func decode(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
	if err != nil {
		slog.Warn("csv snapshot is neither UTF-8 nor EUC-KR", "error", err)
		return string(raw)
	}
	return string(out)
}

func describe(err error) (int, string) {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line, pe.Err.Error()
	}
	return 0, err.Error()
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, cell := range rec {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
