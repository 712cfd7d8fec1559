// ═══════════════════════════════════════════════════════════════════════════════
// POSTING LISTS: adapted from the teacher's position skip list
// ═══════════════════════════════════════════════════════════════════════════════
// blaze's InvertedIndex keeps one skip list per token, keyed by
// Position{DocumentID, Offset} with +/-Inf sentinels, so phrase search can
// walk forward/backward through occurrences.
//
// Ed-Join has no phrase search, but it repeatedly needs the same shape of
// operation: "the first posting for this token whose RecordID is greater
// than x" (the self-join pruning rule, spec §4.4). That is exactly what a
// skip list gives you in O(log n) instead of a linear scan of the posting
// list, so the teacher's skip list survives here, re-keyed on
// Posting{RecordID, Loc int} and stripped of the float64/infinity sentinel
// scheme (RecordID/Loc are always non-negative here; a nil pointer serves
// as EOF instead of a sentinel value).
// ═══════════════════════════════════════════════════════════════════════════════
package edjoin

import (
	"math/rand"
	"sync"
)

// MaxPostingHeight bounds the tower height of a posting-list node.
const MaxPostingHeight = 32

// Posting is one occurrence of a token in the reference collection: which
// record, and where in it.
type Posting struct {
	RecordID RecordID
	Loc      Loc
}

// Less orders postings ascending by RecordID, ties broken by Loc — the
// canonical PostingList order required by spec §3.
func (p Posting) Less(o Posting) bool {
	if p.RecordID != o.RecordID {
		return p.RecordID < o.RecordID
	}
	return p.Loc < o.Loc
}

type postingNode struct {
	key   Posting
	tower [MaxPostingHeight]*postingNode
}

// PostingList is a skip list of Postings for a single token, always kept
// sorted ascending by RecordID (ties by Loc) as entries are inserted
// during index construction.
type PostingList struct {
	head   *postingNode
	height int
	length int
}

// postingRand is a single package-level RNG guarded by a mutex. Reseeding
// per-insert (as blaze's randomHeight does with time.Now().UnixNano())
// produces identical seeds when insertions happen faster than the clock's
// resolution, which is routine here — one posting per q-gram per record.
// A shared, seeded-once generator avoids that correlation.
var (
	postingRandMu sync.Mutex
	postingRand   = rand.New(rand.NewSource(1))
)

func randomPostingHeight() int {
	postingRandMu.Lock()
	defer postingRandMu.Unlock()
	height := 1
	for postingRand.Float64() < 0.5 && height < MaxPostingHeight {
		height++
	}
	return height
}

// NewPostingList creates an empty posting list.
func NewPostingList() *PostingList {
	return &PostingList{head: &postingNode{}, height: 1}
}

// Len reports the number of postings in the list.
func (pl *PostingList) Len() int { return pl.length }

// Insert adds a posting, keeping the list sorted. Duplicate (RecordID,
// Loc) pairs are kept distinct from each other only if they are not
// byte-identical keys; inserting the same key twice updates in place,
// mirroring blaze's Insert semantics.
func (pl *PostingList) Insert(p Posting) {
	var journey [MaxPostingHeight]*postingNode
	current := pl.head
	for level := pl.height - 1; level >= 0; level-- {
		for current.tower[level] != nil && current.tower[level].key.Less(p) {
			current = current.tower[level]
		}
		journey[level] = current
	}

	if next := current.tower[0]; next != nil && next.key == p {
		return
	}

	height := randomPostingHeight()
	node := &postingNode{key: p}
	for level := 0; level < height; level++ {
		pred := journey[level]
		if pred == nil {
			pred = pl.head
		}
		node.tower[level] = pred.tower[level]
		pred.tower[level] = node
	}
	if height > pl.height {
		pl.height = height
	}
	pl.length++
}

// Each visits every posting in ascending order.
func (pl *PostingList) Each(fn func(Posting)) {
	for n := pl.head.tower[0]; n != nil; n = n.tower[0] {
		fn(n.key)
	}
}

// SeekGreaterThan returns, in ascending order, every posting whose
// RecordID is strictly greater than recordID — the self-join pruning rule
// of spec §4.4 ("keep postings with y_id > x_id"), realised as a skip to
// the first qualifying node rather than a linear scan from the head.
func (pl *PostingList) SeekGreaterThan(recordID RecordID, fn func(Posting)) {
	target := Posting{RecordID: recordID, Loc: Loc(1<<31 - 1)}
	current := pl.head
	for level := pl.height - 1; level >= 0; level-- {
		for current.tower[level] != nil && current.tower[level].key.Less(target) {
			current = current.tower[level]
		}
	}
	for n := current.tower[0]; n != nil; n = n.tower[0] {
		fn(n.key)
	}
}

// First returns the earliest posting in the list, plus whether one exists.
func (pl *PostingList) First() (Posting, bool) {
	if pl.head.tower[0] == nil {
		return Posting{}, false
	}
	return pl.head.tower[0].key, true
}
