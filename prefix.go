// ═══════════════════════════════════════════════════════════════════════════════
// PREFIX-LENGTH SOLVER (C3)
// ═══════════════════════════════════════════════════════════════════════════════
// Algorithm 2 + Algorithm 3 from the original implementation: the prefix
// length is the smallest count of frequency-ordered q-grams whose total
// destruction forces more than tau edits. Binary search narrows it in
// O(log q*tau) calls to min_edit_errors.
// ═══════════════════════════════════════════════════════════════════════════════
package edjoin

// MinEditErrors computes the minimum number of edits required to
// invalidate every element of s (spec §4.3, "Algorithm 2"). It copies s
// and re-sorts the copy by ascending Loc — the caller's ordering (often
// frequency order) is never mutated — then sweeps left to right,
// greedily covering non-overlapping windows of width q.
func MinEditErrors(s PosQGramArray, q int) int {
	if len(s) == 0 {
		return 0
	}
	sorted := s.Clone()
	sorted.SortByLocation()

	cnt := 0
	loc := Loc(-1)
	for _, g := range sorted {
		if g.Loc > loc {
			cnt++
			loc = g.Loc + Loc(q) - 1
		}
	}
	return cnt
}

// PrefixLength computes the smallest p in [tau+1, min(q*tau+1, len(array))]
// such that MinEditErrors(array[0:p], q) > tau, where array must already
// be sorted in frequency order. If no such p exists within the bound, it
// returns min(q*tau+1, len(array)) (spec §4.3).
func PrefixLength(array PosQGramArray, q, tau int) int {
	left := tau + 1
	right := q*tau + 1
	n := len(array)

	for left < right {
		mid := (left + right) / 2
		upper := mid
		if upper > n {
			upper = n
		}
		if MinEditErrors(array[:upper], q) <= tau {
			left = mid + 1
		} else {
			right = mid
		}
	}
	if left > n {
		left = n
	}
	return left
}
