package edjoin

import (
	"bytes"
	"testing"
)

// ═══════════════════════════════════════════════════════════════════════════════
// ENCODE / DECODE ROUND-TRIP TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestEncodeDecode_RoundTrip(t *testing.T) {
	y := recs("hello", "hella", "jello")
	idx := BuildIndex(y, y, 2, true)

	encoded, err := idx.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded := NewInvertedIndex()
	if err := decoded.Decode(encoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(decoded.postings) != len(idx.postings) {
		t.Fatalf("decoded %d tokens, want %d", len(decoded.postings), len(idx.postings))
	}
	for tok, pl := range idx.postings {
		dpl := decoded.Postings(tok)
		if dpl == nil {
			t.Fatalf("token %q missing after decode", tok)
		}
		if dpl.Len() != pl.Len() {
			t.Errorf("token %q: decoded %d postings, want %d", tok, dpl.Len(), pl.Len())
		}
		if decoded.Frequency(tok) != idx.Frequency(tok) {
			t.Errorf("token %q: decoded frequency %d, want %d", tok, decoded.Frequency(tok), idx.Frequency(tok))
		}

		var want, got []Posting
		pl.Each(func(p Posting) { want = append(want, p) })
		dpl.Each(func(p Posting) { got = append(got, p) })
		if len(want) != len(got) {
			t.Fatalf("token %q: posting count mismatch after decode", tok)
		}
		for i := range want {
			if want[i] != got[i] {
				t.Errorf("token %q posting %d = %+v, want %+v", tok, i, got[i], want[i])
			}
		}
	}
}

func TestSaveLoadIndex_RoundTrip(t *testing.T) {
	y := recs("abcdef", "abcxef")
	idx := BuildIndex(y, y, 2, true)

	var buf bytes.Buffer
	if err := SaveIndex(&buf, idx); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}

	loaded, err := LoadIndex(&buf)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if loaded.Frequency("ab") != idx.Frequency("ab") {
		t.Errorf("loaded Frequency(\"ab\") = %d, want %d", loaded.Frequency("ab"), idx.Frequency("ab"))
	}
}

func TestDecode_EmptyIndex(t *testing.T) {
	idx := NewInvertedIndex()
	encoded, err := idx.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded := NewInvertedIndex()
	if err := decoded.Decode(encoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.postings) != 0 {
		t.Errorf("decoded %d tokens for an empty index, want 0", len(decoded.postings))
	}
}
