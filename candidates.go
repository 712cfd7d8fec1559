// ═══════════════════════════════════════════════════════════════════════════════
// CANDIDATE GENERATOR (C4)
// ═══════════════════════════════════════════════════════════════════════════════
// Probes the inverted index with the first p frequency-ordered q-grams of
// a record, applying the length and position pre-filters from spec §4.4.
// A record whose q-grams can all be destroyed by tau edits instead takes
// every length-compatible record as a candidate. Surviving y_ids are deduplicated with a roaring.Bitmap: Add is an
// idempotent set-insert, and iterating the bitmap afterwards yields the
// candidate set already sorted ascending by RecordID, which is exactly
// the order C5/C6 need for their ordering contract.
// ═══════════════════════════════════════════════════════════════════════════════
package edjoin

import "github.com/RoaringBitmap/roaring"

// Candidates returns, in ascending RecordID order, every y-record that
// survives the length and position pre-filters against x (spec §4.4).
// xGrams must already be sorted in frequency order; prefixLen bounds how
// many of its leading tokens are probed. If MinEditErrors over all of
// xGrams is at most tau (or xGrams is empty), every record passing the
// length filter (and, in a self-join, with a higher RecordID) is also
// returned, whether or not it shares a q-gram with x.
func Candidates(idx *InvertedIndex, x Record, xGrams PosQGramArray, prefixLen int, allRecords []Record, tau int, selfJoin bool) []RecordID {
	bitmap := roaring.NewBitmap()
	xLen := len(x.Bytes)

	probe := xGrams
	if prefixLen < len(probe) {
		probe = probe[:prefixLen]
	}

	for _, g := range probe {
		pl := idx.Postings(g.Token)
		if pl == nil {
			continue
		}
		visit := func(p Posting) {
			if selfJoin && p.RecordID == x.ID {
				return
			}
			yLen := len(allRecords[p.RecordID].Bytes)
			if abs(yLen-xLen) > tau {
				return
			}
			if abs(int(g.Loc)-int(p.Loc)) > tau {
				return
			}
			bitmap.Add(uint32(p.RecordID))
		}

		if selfJoin {
			pl.SeekGreaterThan(x.ID, visit)
		} else {
			pl.Each(visit)
		}
	}

	// When tau edits can destroy every q-gram of x, a y within tau edits
	// may share no q-gram with x, so every length-compatible y is kept.
	if len(xGrams) == 0 || MinEditErrors(xGrams, len(xGrams[0].Token)) <= tau {
		for _, y := range allRecords {
			if (selfJoin && y.ID <= x.ID) || abs(len(y.Bytes)-xLen) > tau {
				continue
			}
			bitmap.Add(uint32(y.ID))
		}
	}

	out := make([]RecordID, 0, bitmap.GetCardinality())
	it := bitmap.Iterator()
	for it.HasNext() {
		out = append(out, RecordID(it.Next()))
	}
	return out
}
