package edjoin

import (
	"sort"
	"testing"
)

func TestCandidates_SelfJoinPrunesLowerIDs(t *testing.T) {
	y := recs("hello", "hella", "jello")
	idx := BuildIndex(y, y, 2, true)

	x := y[2] // "jello"
	xGrams := ExtractQGrams(x.Bytes, 2)
	xGrams.SortByFrequency(idx)
	prefixLen := PrefixLength(xGrams, 2, 2)

	got := Candidates(idx, x, xGrams, prefixLen, y, 2, true)
	for _, id := range got {
		if id <= x.ID {
			t.Errorf("self-join candidate %d should be > x.ID %d", id, x.ID)
		}
	}
}

func TestCandidates_LengthFilterExcludesFarLengths(t *testing.T) {
	y := recs("ab", "abcdefghij")
	idx := BuildIndex(y, y, 2, true)

	x := y[0]
	xGrams := ExtractQGrams(x.Bytes, 2)
	xGrams.SortByFrequency(idx)
	prefixLen := PrefixLength(xGrams, 2, 1)

	got := Candidates(idx, x, xGrams, prefixLen, y, 1, true)
	for _, id := range got {
		if id == 1 {
			t.Error("length filter should have excluded a record 8 bytes longer at tau=1")
		}
	}
}

func TestCandidates_SortedAscending(t *testing.T) {
	y := recs("aaaa", "aaab", "aabb", "abbb", "bbbb")
	idx := BuildIndex(y, y, 2, true)

	x := y[0]
	xGrams := ExtractQGrams(x.Bytes, 2)
	xGrams.SortByFrequency(idx)
	prefixLen := PrefixLength(xGrams, 2, 2)

	got := Candidates(idx, x, xGrams, prefixLen, y, 2, true)
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }) {
		t.Errorf("candidates not sorted ascending: %v", got)
	}
}

func TestCandidates_NoSelfMatch(t *testing.T) {
	y := recs("abc")
	idx := BuildIndex(y, y, 2, true)
	x := y[0]
	xGrams := ExtractQGrams(x.Bytes, 2)
	xGrams.SortByFrequency(idx)
	prefixLen := PrefixLength(xGrams, 2, 2)

	got := Candidates(idx, x, xGrams, prefixLen, y, 2, true)
	for _, id := range got {
		if id == x.ID {
			t.Error("a record should never be its own candidate")
		}
	}
}
