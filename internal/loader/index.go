package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"jukejam/internal/models"
	"jukejam/internal/search"
)

// LoadIndexes reads the index bundle JSON at path
func LoadIndexes(path string) (*search.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return ReadIndexes(f, path)
}

// ReadIndexes decodes an index bundle and validates that every field is present
// and every token maps to an array of track ids. Ids may be numbers or strings.
func ReadIndexes(r io.Reader, source string) (*search.Index, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("failed to decode index bundle: %w", err)}
	}

	fields := make(map[search.Field]search.PostingMap, len(search.Fields))
	for _, field := range search.Fields {
		tokens, ok := raw[string(field)]
		if !ok {
			return nil, &LoadError{Source: source, Field: string(field), Err: search.ErrMissingIndexField}
		}

		postings := make(search.PostingMap, len(tokens))
		for token, msg := range tokens {
			if trimmed := bytes.TrimSpace(msg); len(trimmed) == 0 || trimmed[0] != '[' {
				return nil, &LoadError{Source: source, Field: fmt.Sprintf("%s/%s", field, token), Err: search.ErrMalformedPostings}
			}
			var ids []models.TrackID
			if err := json.Unmarshal(msg, &ids); err != nil {
				return nil, &LoadError{Source: source, Field: fmt.Sprintf("%s/%s", field, token), Err: fmt.Errorf("%w: %v", search.ErrMalformedPostings, err)}
			}
			postings[token] = ids
		}
		fields[field] = postings
	}

	idx, err := search.NewIndex(fields)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return idx, nil
}

// WriteIndexes encodes idx in the bundle format ReadIndexes accepts
func WriteIndexes(w io.Writer, idx *search.Index) error {
	out := make(map[string]search.PostingMap, len(search.Fields))
	for _, field := range search.Fields {
		out[string(field)] = idx.Mapping(field)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode index bundle: %w", err)
	}
	return nil
}
