package edjoin

import "errors"

// Sentinel errors returned by the record loader and CLI driver. Callers
// use errors.Is against these; everything else is wrapped with
// fmt.Errorf("...: %w", ...) so the sentinel survives unwrapping.
var (
	ErrInputNotReadable    = errors.New("input file could not be read")
	ErrParameterOutOfRange = errors.New("parameter out of range")
	ErrParseFailure        = errors.New("failed to parse input line")
	ErrOutputCreateFailure = errors.New("failed to create output file")
	ErrNoPostingList       = errors.New("no posting list for token")
)
