package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// row gives named access to one CSV record
type row struct {
	header map[string]int
	values []string
	line   int
}

func (r row) has(column string) bool {
	_, ok := r.header[column]
	return ok
}

// get returns the trimmed value of column, or "" when the column is absent or blank
func (r row) get(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// float parses column, falling back to def when missing, blank or NaN
func (r row) float(column string, def float64) (float64, error) {
	v := r.get(column)
	if v == "" || strings.EqualFold(v, "nan") {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %s: %w", r.line, column, err)
	}
	return f, nil
}

// int parses column, accepting float-formatted integers such as "50.0"
func (r row) int(column string, def int) (int, error) {
	f, err := r.float(column, float64(def))
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// bool parses column as a boolean flag; blank is false
func (r row) bool(column string) (bool, error) {
	switch strings.ToLower(r.get(column)) {
	case "", "false", "0", "no", "f":
		return false, nil
	case "true", "1", "yes", "t":
		return true, nil
	default:
		return false, fmt.Errorf("line %d: column %s: invalid boolean %q", r.line, column, r.get(column))
	}
}

// readRows reads a headered CSV, calling fn for each data record.
// Every entry of required must appear in the header; "a|b" accepts either name.
func readRows(r io.Reader, source string, required []string, fn func(row) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRecord, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty file")
		}
		return &LoadError{Source: source, Err: err}
	}

	header := make(map[string]int, len(headerRecord))
	for i, name := range headerRecord {
		header[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, names := range required {
		if !hasAny(header, strings.Split(names, "|")) {
			return &LoadError{Source: source, Field: names, Err: errors.New("missing required column")}
		}
	}

	line := 1
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return &LoadError{Source: source, Field: fmt.Sprintf("line %d", line), Err: err}
		}
		if err := fn(row{header: header, values: values, line: line}); err != nil {
			return &LoadError{Source: source, Err: err}
		}
	}
}

func hasAny(header map[string]int, names []string) bool {
	for _, name := range names {
		if _, ok := header[name]; ok {
			return true
		}
	}
	return false
}
