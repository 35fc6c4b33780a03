// Package match implements spec.md §4.2's case-insensitive,
// underscore/dash-equivalent best-unique-prefix name matching, used to
// resolve user-typed table and column names against the schema's declared
// names.
package match

import (
	"errors"
	"math"
)

// ErrNoMatch and ErrAmbiguous are sentinels: callers use errors.Is to
// distinguish "unknown name" from "ambiguous name" and build their own
// domain-specific message (e.g. "unknown table" vs. "unknown column").
var (
	ErrNoMatch   = errors.New("no matching name")
	ErrAmbiguous = errors.New("ambiguous name")
)

// Exact and ExactPrefix are the two "infinite" scores: a perfect match, and
// a match where name and candidate are equal once case and dash/underscore
// are folded. Both outrank every finite partial-prefix score.
const (
	Exact       = math.MaxUint32
	ExactPrefix = math.MaxUint32 - 1
)

func fold(c byte) byte {
	if c == '-' {
		c = '_'
	}
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return c
}

// Score computes spec.md §4.2's score_partial_match(name, candidate): how
// well candidate matches the user-typed name.
//
//   - name == candidate                      -> Exact
//   - name and candidate are equal once
//     both are folded                         -> ExactPrefix
//   - name is a proper prefix of candidate,
//     folded, consuming all of name           -> len(name)
//   - otherwise                               -> 0
func Score(name, candidate string) uint32 {
	if name == candidate {
		return Exact
	}
	i := 0
	for ; i < len(name) && i < len(candidate); i++ {
		if fold(name[i]) != fold(candidate[i]) {
			break
		}
	}
	if i == len(candidate) && i == len(name) {
		return ExactPrefix
	}
	if i == len(name) {
		return uint32(i)
	}
	return 0
}

// Best finds the unique best-scoring name among candidates for the
// user-typed name n. It returns the winning index and a nil error, or an error
// describing either "no match" or "ambiguous match" per spec.md §4.2.
func Best(n string, candidates []string) (int, error) {
	bestIdx := -1
	var bestScore uint32
	tie := false

	for i, c := range candidates {
		s := Score(n, c)
		if s == 0 {
			continue
		}
		switch {
		case s > bestScore:
			bestScore = s
			bestIdx = i
			tie = false
		case s == bestScore:
			tie = true
		}
	}

	if bestIdx == -1 {
		return -1, ErrNoMatch
	}
	if tie {
		return -1, ErrAmbiguous
	}
	return bestIdx, nil
}
