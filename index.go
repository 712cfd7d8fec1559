// ═══════════════════════════════════════════════════════════════════════════════
// INVERTED INDEX BUILDER (C2)
// ═══════════════════════════════════════════════════════════════════════════════
// Maps each token to its posting list (adapted skip list, postinglist.go)
// and its global frequency. In self-join mode (X == Y) frequency equals
// the posting list length; in two-collection mode frequency sums
// occurrences from both collections but the posting list only carries
// Y-side occurrences, since matches are always drawn from Y (spec §3).
// ═══════════════════════════════════════════════════════════════════════════════
package edjoin

import "log/slog"

// InvertedIndex is the frozen, read-only-after-build token index described
// in spec §3. It implements FrequencyLookup so it can drive
// PosQGramArray.SortByFrequency directly.
type InvertedIndex struct {
	postings map[Token]*PostingList
	freq     map[Token]int
}

var _ FrequencyLookup = (*InvertedIndex)(nil)

// NewInvertedIndex creates an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		postings: make(map[Token]*PostingList),
		freq:     make(map[Token]int),
	}
}

// Frequency returns the global occurrence count for a token, or 0 if the
// token was never indexed.
func (idx *InvertedIndex) Frequency(t Token) int { return idx.freq[t] }

// Postings returns the posting list for a token, or nil if the token was
// never indexed.
func (idx *InvertedIndex) Postings(t Token) *PostingList { return idx.postings[t] }

// BuildIndex implements spec §4.2's algorithm: enumerate Y, recording
// postings and setting frequency to the Y-posting-list length; then, if X
// is a distinct collection, enumerate X and bump frequency only (never
// touching posting lists). Passing the same slice for x and y with
// selfJoin true performs a self-join build.
func BuildIndex(x, y []Record, q int, selfJoin bool) *InvertedIndex {
	idx := NewInvertedIndex()

	for _, rec := range y {
		grams := ExtractQGrams(rec.Bytes, q)
		for _, g := range grams {
			idx.index(g.Token, rec.ID, g.Loc)
		}
	}
	for tok, pl := range idx.postings {
		idx.freq[tok] = pl.Len()
	}

	if !selfJoin {
		for _, rec := range x {
			grams := ExtractQGrams(rec.Bytes, q)
			for _, g := range grams {
				idx.freq[g.Token]++
			}
		}
	}

	slog.Debug("built inverted index", slog.Int("tokens", len(idx.postings)), slog.Bool("selfJoin", selfJoin))
	return idx
}

func (idx *InvertedIndex) index(tok Token, recordID RecordID, loc Loc) {
	pl, ok := idx.postings[tok]
	if !ok {
		pl = NewPostingList()
		idx.postings[tok] = pl
	}
	pl.Insert(Posting{RecordID: recordID, Loc: loc})
}
