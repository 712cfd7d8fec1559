// ═══════════════════════════════════════════════════════════════════════════════
// JOIN DRIVER (C6)
// ═══════════════════════════════════════════════════════════════════════════════
// Orchestrates C1-C5 across the whole record collection. Builds the index
// once, then fans a worker per CPU out over the X collection via
// errgroup.Group; each worker owns its PosQGramArrays, candidate set, and
// mismatch scratch, and only the final merge touches shared state.
// ═══════════════════════════════════════════════════════════════════════════════
package edjoin

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Record is one immutable line of an input document.
type Record struct {
	ID    RecordID
	Bytes []byte
}

// LoadRecords splits r into newline-terminated records, assigning each a
// zero-based RecordID equal to its line number. Embedded NULs are
// rejected per spec §6.
func LoadRecords(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)

	var records []Record
	id := RecordID(0)
	for scanner.Scan() {
		line := scanner.Bytes()
		for _, b := range line {
			if b == 0 {
				return nil, fmt.Errorf("record %d: %w", id, ErrParseFailure)
			}
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, Record{ID: id, Bytes: cp})
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w: %v", ErrInputNotReadable, err)
	}
	return records, nil
}

// minLength returns the shortest record length in the collection, or 0
// if the collection is empty.
func minLength(records []Record) int {
	if len(records) == 0 {
		return 0
	}
	min := len(records[0].Bytes)
	for _, r := range records[1:] {
		if l := len(r.Bytes); l < min {
			min = l
		}
	}
	return min
}

// Parameters holds the resolved, validated (q, tau) pair for a run.
type Parameters struct {
	Q   int
	Tau int
}

// DeriveParameters applies spec §4.6's defaulting rule (q defaults to the
// shortest record length when qFlag is 0, tau defaults to 2 when tauFlag
// is 0) and then validates the result: 1 <= q <= minLen, tau >= 1. The
// q <= minLen bound is not applied when minLen is 0.
func DeriveParameters(x, y []Record, qFlag, tauFlag int) (Parameters, error) {
	minLen := minLength(x)
	if yMin := minLength(y); len(y) > 0 && (len(x) == 0 || yMin < minLen) {
		minLen = yMin
	}

	q := qFlag
	if q == 0 {
		q = minLen
	}
	tau := tauFlag
	if tau == 0 {
		tau = 2
	}

	if q < 1 || (minLen > 0 && q > minLen) {
		return Parameters{}, fmt.Errorf("q=%d outside [1,%d]: %w", q, minLen, ErrParameterOutOfRange)
	}
	if tau < 1 {
		return Parameters{}, fmt.Errorf("tau=%d must be >= 1: %w", tau, ErrParameterOutOfRange)
	}
	return Parameters{Q: q, Tau: tau}, nil
}

// IsSelfJoin reports whether pathX and pathY name the same file, per
// spec §9's "compare canonical form" guidance. An empty pathY means no
// second collection was given, which is also a self-join.
func IsSelfJoin(pathX, pathY string) bool {
	if pathY == "" {
		return true
	}
	ax, errX := filepath.Abs(pathX)
	ay, errY := filepath.Abs(pathY)
	if errX != nil || errY != nil {
		return pathX == pathY
	}
	return filepath.Clean(ax) == filepath.Clean(ay)
}

// Run builds the inverted index over (x, y) and verifies every candidate
// pair, returning matches sorted by X ascending then Y ascending (spec
// §4.6 step 5). When selfJoin is true x and y must be the same slice.
func Run(x, y []Record, params Parameters, selfJoin bool) ([]Match, error) {
	idx := BuildIndex(x, y, params.Q, selfJoin)
	reference := y
	if selfJoin {
		reference = x
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > len(x) && len(x) > 0 {
		workers = len(x)
	}

	results := make([][]Match, len(x))
	jobs := make(chan int)

	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				rec := x[i]
				grams := ExtractQGrams(rec.Bytes, params.Q)
				grams.SortByFrequency(idx)

				prefixLen := PrefixLength(grams, params.Q, params.Tau)
				candidateIDs := Candidates(idx, rec, grams, prefixLen, reference, params.Tau, selfJoin)

				matches := make([]Match, 0, len(candidateIDs))
				for _, cid := range candidateIDs {
					yRec := reference[cid]
					yGrams := ExtractQGrams(yRec.Bytes, params.Q)
					if m, ok := Verify(idx, rec, grams, yRec, yGrams, params.Q, params.Tau); ok {
						matches = append(matches, m)
					}
				}
				sort.Slice(matches, func(a, b int) bool { return matches[a].Y < matches[b].Y })
				results[i] = matches
			}
			return nil
		})
	}

	for i := range x {
		jobs <- i
	}
	close(jobs)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Match
	for _, ms := range results {
		all = append(all, ms...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].X != all[j].X {
			return all[i].X < all[j].X
		}
		return all[i].Y < all[j].Y
	})

	slog.Info("join complete", slog.Int("records", len(x)), slog.Int("matches", len(all)))
	return all, nil
}

// WriteMatches streams matches to w in "x_id,y_id,ed\n" format, in the
// order given (callers pass the already-sorted result of Run).
func WriteMatches(w io.Writer, matches []Match) error {
	bw := bufio.NewWriter(w)
	for _, m := range matches {
		if _, err := fmt.Fprintf(bw, "%d,%d,%d\n", m.X, m.Y, m.Ed); err != nil {
			return fmt.Errorf("writing match: %w", err)
		}
	}
	return bw.Flush()
}

// OutputPath derives the output filename from the input stem per spec
// §6: "<stem-of-doc_x>_out_q<q>_tau<tau>.<ext-of-doc_x or txt>".
func OutputPath(inputPath string, q, tau int) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	if ext == "" {
		ext = ".txt"
	}
	return fmt.Sprintf("%s_out_q%d_tau%d%s", stem, q, tau, ext)
}
