package search

// Filters selects candidates from the index. Every supplied category is ANDed;
// genres are ORed among themselves. A supplied category whose values are all
// blank stays active and matches nothing.
type Filters struct {
	Title  string   `json:"title,omitempty"`
	Artist string   `json:"artist,omitempty"`
	Genres []string `json:"genres,omitempty"`
	Mood   string   `json:"mood,omitempty"`
	Energy string   `json:"energy,omitempty"`
}

// Retrieve returns the tracks matching every active filter category.
// With no active category the result is empty; there is no implicit match-all.
func Retrieve(idx *Index, f Filters) IDSet {
	var sets []IDSet

	// Text queries are conjunctive over tokens; title and artist are intersected when both are given.
	var textHits IDSet
	if hits, ok := matchAllTokens(idx, FieldTitle, f.Title); ok {
		textHits = hits
	}
	if hits, ok := matchAllTokens(idx, FieldArtist, f.Artist); ok {
		if textHits == nil {
			textHits = hits
		} else {
			textHits = textHits.Intersect(hits)
		}
	}
	if textHits != nil {
		sets = append(sets, textHits)
	}

	if len(f.Genres) > 0 {
		genreHits := IDSet{}
		for _, g := range f.Genres {
			if genre := normalizeValue(g); genre != "" {
				genreHits.Union(idx.PostingSet(FieldGenre, genre))
			}
		}
		sets = append(sets, genreHits)
	}

	if f.Mood != "" {
		sets = append(sets, idx.PostingSet(FieldMood, normalizeValue(f.Mood)))
	}

	if f.Energy != "" {
		sets = append(sets, idx.PostingSet(FieldEnergy, normalizeValue(f.Energy)))
	}

	if len(sets) == 0 {
		return IDSet{}
	}

	result := sets[0]
	for _, s := range sets[1:] {
		result = result.Intersect(s)
	}
	return result
}

// matchAllTokens intersects the postings of every token of text.
// The boolean is false when text yields no tokens, leaving the category inactive.
func matchAllTokens(idx *Index, field Field, text string) (IDSet, bool) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, false
	}
	hits := idx.PostingSet(field, tokens[0])
	for _, tok := range tokens[1:] {
		hits = hits.Intersect(idx.PostingSet(field, tok))
	}
	return hits, true
}
