package edjoin

import "testing"

// ═══════════════════════════════════════════════════════════════════════════════
// MIN_EDIT_ERRORS TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestMinEditErrors_Empty(t *testing.T) {
	if got := MinEditErrors(nil, 2); got != 0 {
		t.Errorf("MinEditErrors(nil) = %d, want 0", got)
	}
}

func TestMinEditErrors_NonOverlappingSingle(t *testing.T) {
	// A single q-gram always requires exactly one edit to destroy.
	s := PosQGramArray{{Token: "ab", Loc: 0}}
	if got := MinEditErrors(s, 2); got != 1 {
		t.Errorf("MinEditErrors(single) = %d, want 1", got)
	}
}

func TestMinEditErrors_OverlappingWindowCoveredByOneEdit(t *testing.T) {
	// q=2: grams at loc 0 and loc 1 overlap (windows [0,1] and [1,2]); one
	// edit at position 1 invalidates both.
	s := PosQGramArray{{Token: "ab", Loc: 0}, {Token: "bc", Loc: 1}}
	if got := MinEditErrors(s, 2); got != 1 {
		t.Errorf("MinEditErrors(overlapping) = %d, want 1", got)
	}
}

func TestMinEditErrors_DisjointWindowsNeedTwoEdits(t *testing.T) {
	s := PosQGramArray{{Token: "ab", Loc: 0}, {Token: "de", Loc: 3}}
	if got := MinEditErrors(s, 2); got != 2 {
		t.Errorf("MinEditErrors(disjoint) = %d, want 2", got)
	}
}

func TestMinEditErrors_NeverExceedsLength(t *testing.T) {
	s := ExtractQGrams([]byte("abcdefgh"), 2)
	if got := MinEditErrors(s, 2); got > len(s) {
		t.Errorf("MinEditErrors(%d grams) = %d, exceeds array length", len(s), got)
	}
}

func TestMinEditErrors_DoesNotMutateInput(t *testing.T) {
	s := PosQGramArray{{Token: "bc", Loc: 1}, {Token: "ab", Loc: 0}}
	orig := s.Clone()
	MinEditErrors(s, 2)
	for i := range orig {
		if s[i] != orig[i] {
			t.Fatalf("MinEditErrors mutated its input at index %d", i)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// PREFIX LENGTH TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestPrefixLength_MonotoneInTau(t *testing.T) {
	grams := ExtractQGrams([]byte("abcdefghijklmnop"), 2)
	freq := fakeFreq{}
	for _, g := range grams {
		freq[g.Token]++
	}
	grams.SortByFrequency(freq)

	prev := PrefixLength(grams, 2, 1)
	for tau := 2; tau <= 5; tau++ {
		got := PrefixLength(grams, 2, tau)
		if got < prev {
			t.Errorf("PrefixLength not monotone non-decreasing in tau: tau=%d got %d after %d", tau, got, prev)
		}
		prev = got
	}
}

func TestPrefixLength_WithinBounds(t *testing.T) {
	grams := ExtractQGrams([]byte("mississippimississippi"), 3)
	freq := fakeFreq{}
	for _, g := range grams {
		freq[g.Token]++
	}
	grams.SortByFrequency(freq)

	q, tau := 3, 2
	p := PrefixLength(grams, q, tau)
	wantMin := tau + 1
	if wantMin > len(grams) {
		wantMin = len(grams)
	}
	if p < wantMin {
		t.Errorf("PrefixLength = %d, want >= %d", p, wantMin)
	}
	if p > len(grams) {
		t.Errorf("PrefixLength = %d exceeds array length %d", p, len(grams))
	}
}
