package search

import (
	"errors"
	"fmt"
	"sort"

	"jukejam/internal/models"
)

// Field names one of the inverted index mappings
type Field string

const (
	FieldGenre  Field = "genre"
	FieldMood   Field = "mood"
	FieldEnergy Field = "energy"
	FieldTitle  Field = "title"
	FieldArtist Field = "artist"
)

// Fields lists every mapping an index bundle must carry
var Fields = []Field{FieldGenre, FieldMood, FieldEnergy, FieldTitle, FieldArtist}

var (
	// ErrMissingIndexField is returned when an index bundle lacks a required mapping
	ErrMissingIndexField = errors.New("index is missing a required field")

	// ErrMalformedPostings is returned when a token does not map to a list of track ids
	ErrMalformedPostings = errors.New("index postings must be a list of track ids")
)

// PostingMap maps a normalized token to the tracks containing it
type PostingMap map[string][]models.TrackID

// Index is the read-only inverted index over the catalog.
// It is built offline and never mutated once loaded, so concurrent reads need no locking.
type Index struct {
	fields map[Field]PostingMap
}

// NewIndex validates that every required field is present and wraps the mappings
func NewIndex(fields map[Field]PostingMap) (*Index, error) {
	for _, f := range Fields {
		if _, ok := fields[f]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingIndexField, f)
		}
	}

	idx := &Index{fields: make(map[Field]PostingMap, len(Fields))}
	for _, f := range Fields {
		postings := fields[f]
		if postings == nil {
			postings = PostingMap{}
		}
		idx.fields[f] = postings
	}
	return idx, nil
}

// Postings returns the posting list for a token, or nil when the token is unknown
func (idx *Index) Postings(field Field, token string) []models.TrackID {
	return idx.fields[field][token]
}

// PostingSet returns the posting list for a token as a set
func (idx *Index) PostingSet(field Field, token string) IDSet {
	return NewIDSet(idx.Postings(field, token)...)
}

// Tokens returns every token of a field in ascending order
func (idx *Index) Tokens(field Field) []string {
	postings := idx.fields[field]
	tokens := make([]string, 0, len(postings))
	for token := range postings {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Mapping exposes the raw mapping of a field for serialization
func (idx *Index) Mapping(field Field) PostingMap {
	return idx.fields[field]
}

// DocFreq counts the documents whose title or artist postings contain term.
// A document present in both fields is counted once.
func (idx *Index) DocFreq(term string) int {
	docs := idx.PostingSet(FieldTitle, term)
	docs.Union(idx.PostingSet(FieldArtist, term))
	return len(docs)
}

// BuildIndex builds the five-field index from catalog tracks.
// Title and artist are tokenized; genre, mood and energy are indexed as whole lowercased values.
func BuildIndex(tracks []models.Track) *Index {
	fields := make(map[Field]PostingMap, len(Fields))
	for _, f := range Fields {
		fields[f] = PostingMap{}
	}

	add := func(field Field, token string, id models.TrackID) {
		if token == "" {
			return
		}
		postings := fields[field][token]
		if n := len(postings); n > 0 && postings[n-1] == id {
			return
		}
		fields[field][token] = append(postings, id)
	}

	for _, t := range tracks {
		add(FieldGenre, normalizeValue(t.Genre), t.ID)
		add(FieldMood, normalizeValue(string(t.MoodBucket)), t.ID)
		add(FieldEnergy, normalizeValue(t.EnergyLabel), t.ID)
		for _, tok := range uniqueTokens(t.Title) {
			add(FieldTitle, tok, t.ID)
		}
		for _, tok := range uniqueTokens(t.ArtistName) {
			add(FieldArtist, tok, t.ID)
		}
	}

	return &Index{fields: fields}
}

func uniqueTokens(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
