// ═══════════════════════════════════════════════════════════════════════════════
// VERIFIER (C5)
// ═══════════════════════════════════════════════════════════════════════════════
// Applies, in order, count filtering, location-based (minimum-edit-error)
// filtering, content-based (L1) filtering with a suffix-error summary,
// and finally exact edit distance (Algorithm 8, spec §4.5). Each filter
// either proves ed(x,y) > tau and short-circuits, or is inconclusive and
// falls through to the next — never erroneous.
// ═══════════════════════════════════════════════════════════════════════════════
package edjoin

import "github.com/antzucaro/matchr"

// compareQGrams walks two frequency-ordered PosQGramArrays in lockstep
// (Algorithm 8) and returns the loose-mismatch list (sorted by ascending
// Loc) together with epsilon1, the count of strict mismatches.
func compareQGrams(x, y PosQGramArray, freq FrequencyLookup, tau int) (PosQGramArray, int) {
	i, j := 0, 0
	epsilon1 := 0
	var loose PosQGramArray

	advanceX := func() {
		emit := (i >= 1 && x[i].Token != x[i-1].Token) ||
			(j >= 1 && x[i].Token != y[j-1].Token) ||
			(j >= 1 && abs(int(x[i].Loc)-int(y[j-1].Loc)) > tau)
		if emit {
			loose = append(loose, x[i])
		}
		i++
		epsilon1++
	}

	for i < len(x) && j < len(y) {
		switch {
		case x[i].Token == y[j].Token:
			if abs(int(x[i].Loc)-int(y[j].Loc)) <= tau {
				i++
				j++
			} else if x[i].Loc < y[j].Loc {
				advanceX()
			} else {
				j++
			}
		case lessByFrequency(freq, x[i].Token, y[j].Token):
			advanceX()
		default:
			j++
		}
	}
	for i < len(x) {
		advanceX()
	}

	loose.SortByLocation()
	return loose, epsilon1
}

// suffixSumEntry is one condensed (loc, rightError) pair of a
// SuffixSumArray (spec §3).
type suffixSumEntry struct {
	Loc        Loc
	RightError int
}

// buildSuffixSum constructs the condensed SuffixSumArray from a
// loose-mismatch list already in location order (spec §4.5 step d). It
// returns nil if mismatch is empty, in which case the content filter is
// skipped entirely.
func buildSuffixSum(mismatch PosQGramArray, q int) []suffixSumEntry {
	if len(mismatch) == 0 {
		return nil
	}
	reversed := make(PosQGramArray, len(mismatch))
	for i, g := range mismatch {
		reversed[len(mismatch)-1-i] = g
	}

	cnt := 0
	loc := reversed[0].Loc + 1
	var out []suffixSumEntry
	for _, g := range reversed {
		if g.Loc < loc {
			cnt++
			out = append(out, suffixSumEntry{Loc: g.Loc, RightError: cnt})
			if int(g.Loc)+1 >= q {
				loc = g.Loc + 1 - Loc(q)
			} else {
				loc = 0
			}
		}
	}
	return out
}

// rightErrorAt returns the rightError of the first suffix-sum entry whose
// Loc >= loc, or 0 if none qualifies.
func rightErrorAt(sums []suffixSumEntry, loc Loc) int {
	for _, e := range sums {
		if e.Loc >= loc {
			return e.RightError
		}
	}
	return 0
}

// l1Distance computes the city-block distance between the character
// histograms of s and t restricted to byte range [lo, hi).
func l1Distance(s, t []byte, lo, hi int) int {
	if lo < 0 {
		lo = 0
	}
	hiT := hi
	if hiT > len(t) {
		hiT = len(t)
	}
	if hi > len(s) {
		hi = len(s)
	}

	var hs, ht [256]int
	for i := lo; i < hi && i < len(s); i++ {
		hs[s[i]]++
	}
	for i := lo; i < hiT && i < len(t); i++ {
		ht[t[i]]++
	}

	dist := 0
	for c := 0; c < 256; c++ {
		dist += abs(hs[c] - ht[c])
	}
	return dist
}

// contentFilter implements Algorithm 5: it walks maximal runs of
// consecutive-Loc mismatches, computing an L1-distance-derived lower
// bound on edit distance for each probing window. It returns (epsilon,
// true) when the filter applies, or (0, false) when mismatch has fewer
// than 2 elements and the filter must be skipped.
func contentFilter(x, y []byte, mismatch PosQGramArray, sums []suffixSumEntry, q, tau int) (int, bool) {
	if len(mismatch) < 2 {
		return 0, false
	}

	windowErr := func(j, iMinus1 int) int {
		lo := int(mismatch[j].Loc)
		hi := int(mismatch[iMinus1].Loc) + q - 1
		l1 := l1Distance(x, y, lo, hi)
		re := rightErrorAt(sums, mismatch[iMinus1].Loc+Loc(q))
		return l1/2 + re
	}

	i, j := 1, 0
	for i < len(mismatch) {
		if mismatch[i].Loc-mismatch[i-1].Loc > 1 {
			if eps := windowErr(j, i-1); eps > tau {
				return 2*tau + 1, true
			}
			j = i
		}
		i++
	}
	return windowErr(j, i-1), true
}

// Match is a verified matching pair.
type Match struct {
	X  RecordID
	Y  RecordID
	Ed int
}

// Verify runs the full filter-and-verify pipeline of spec §4.5 against a
// single candidate y, returning the Match if ed(x, y) <= tau.
func Verify(idx *InvertedIndex, x Record, xGrams PosQGramArray, y Record, yGrams PosQGramArray, q, tau int) (Match, bool) {
	xSorted := xGrams.Clone()
	ySorted := yGrams.Clone()
	xSorted.SortByFrequency(idx)
	ySorted.SortByFrequency(idx)

	mismatch, epsilon1 := compareQGrams(xSorted, ySorted, idx, tau)

	// (b) count filter
	if epsilon1 > q*tau {
		return Match{}, false
	}

	mismatch.SortByLocation()
	// (c) location filter
	if MinEditErrors(mismatch, q) > tau {
		return Match{}, false
	}

	// (d)+(e) suffix-sum + content filter
	sums := buildSuffixSum(mismatch, q)
	if sums != nil {
		if eps, applies := contentFilter(x.Bytes, y.Bytes, mismatch, sums, q, tau); applies && eps > tau {
			return Match{}, false
		}
	}

	// (f) exact verification
	ed := matchr.Levenshtein(string(x.Bytes), string(y.Bytes))
	if ed > tau {
		return Match{}, false
	}
	return Match{X: x.ID, Y: y.ID, Ed: ed}, true
}
