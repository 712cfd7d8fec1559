// ═══════════════════════════════════════════════════════════════════════════════
// SERIALIZATION: Saving and Loading the Index
// ═══════════════════════════════════════════════════════════════════════════════
// Why serialize?
// - Skip rebuilding the index when re-running the same collection at a
//   different tau
// - Ship a pre-built index alongside its record file
//
// BINARY FORMAT:
// --------------
// A custom binary format, smaller and faster to parse than JSON, and one
// that preserves posting order exactly as built:
//
//	[num_tokens: uint32]
//	for each token, in map-iteration order (order carries no meaning,
//	rebuilt as a map on load):
//	  [token_length: uint32][token: bytes]
//	  [frequency: uint32]
//	  [num_postings: uint32]
//	  for each posting, ascending by RecordID as stored in the skip list:
//	    [record_id: uint32][loc: uint32]
//
// The posting-list skip list's tower structure is never serialized —
// only its logical (RecordID, Loc) sequence. PostingList.Insert
// reconstructs a fresh skip list in O(n log n) on load, which is cheap
// next to the token-sort-by-frequency work every join run already pays.
// ═══════════════════════════════════════════════════════════════════════════════
package edjoin

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Encode serializes idx to the binary format described above.
func (idx *InvertedIndex) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := binary.Write(buf, binary.LittleEndian, uint32(len(idx.postings))); err != nil {
		return nil, err
	}

	for tok, pl := range idx.postings {
		if err := writeToken(buf, tok); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, uint32(idx.freq[tok])); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, uint32(pl.Len())); err != nil {
			return nil, err
		}

		var encErr error
		pl.Each(func(p Posting) {
			if encErr != nil {
				return
			}
			if err := binary.Write(buf, binary.LittleEndian, uint32(p.RecordID)); err != nil {
				encErr = err
				return
			}
			if err := binary.Write(buf, binary.LittleEndian, uint32(p.Loc)); err != nil {
				encErr = err
			}
		})
		if encErr != nil {
			return nil, encErr
		}
	}

	return buf.Bytes(), nil
}

func writeToken(buf *bytes.Buffer, tok Token) error {
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(tok))); err != nil {
		return err
	}
	_, err := buf.WriteString(string(tok))
	return err
}

// Decode replaces idx's contents with the index encoded by data.
func (idx *InvertedIndex) Decode(data []byte) error {
	r := bytes.NewReader(data)

	var numTokens uint32
	if err := binary.Read(r, binary.LittleEndian, &numTokens); err != nil {
		return fmt.Errorf("decoding token count: %w", err)
	}

	postings := make(map[Token]*PostingList, numTokens)
	freq := make(map[Token]int, numTokens)

	for i := uint32(0); i < numTokens; i++ {
		tok, err := readToken(r)
		if err != nil {
			return fmt.Errorf("decoding token %d: %w", i, err)
		}

		var tokFreq, numPostings uint32
		if err := binary.Read(r, binary.LittleEndian, &tokFreq); err != nil {
			return fmt.Errorf("decoding frequency for %q: %w", tok, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &numPostings); err != nil {
			return fmt.Errorf("decoding posting count for %q: %w", tok, err)
		}

		pl := NewPostingList()
		for j := uint32(0); j < numPostings; j++ {
			var recordID, loc uint32
			if err := binary.Read(r, binary.LittleEndian, &recordID); err != nil {
				return fmt.Errorf("decoding posting %d for %q: %w", j, tok, err)
			}
			if err := binary.Read(r, binary.LittleEndian, &loc); err != nil {
				return fmt.Errorf("decoding posting %d for %q: %w", j, tok, err)
			}
			pl.Insert(Posting{RecordID: RecordID(recordID), Loc: Loc(loc)})
		}

		postings[tok] = pl
		freq[tok] = int(tokFreq)
	}

	idx.postings = postings
	idx.freq = freq
	return nil
}

func readToken(r *bytes.Reader) (Token, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return Token(b), nil
}

// SaveIndex encodes idx and writes it to w.
func SaveIndex(w io.Writer, idx *InvertedIndex) error {
	encoded, err := idx.Encode()
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(encoded); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return bw.Flush()
}

// LoadIndex reads and decodes an index previously written by SaveIndex.
func LoadIndex(r io.Reader) (*InvertedIndex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	idx := NewInvertedIndex()
	if err := idx.Decode(data); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}
	return idx, nil
}
