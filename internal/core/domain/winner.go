package domain

import (
	"fmt"
	"strings"
)

type Winner string

const (
	WinnerA   Winner = Winner(CandidateA)
	WinnerB   Winner = Winner(CandidateB)
	WinnerTie Winner = "Tie"
)

func (w Winner) Valid() bool {
	return w == WinnerA || w == WinnerB || w == WinnerTie
}

func ParseWinner(s string) (Winner, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(WinnerTie)) {
		return WinnerTie, nil
	}
	w := Winner(strings.ToUpper(s))
	if !w.Valid() {
		return "", fmt.Errorf("%w: unknown winner %q", ErrInvalidInput, s)
	}
	return w, nil
}

// Tally holds per-candidate vote counts. Both candidates are always present.
type Tally map[Candidate]int

func NewTally() Tally {
	t := make(Tally, len(Candidates))
	for _, c := range Candidates {
		t[c] = 0
	}
	return t
}

func (t Tally) Total() int {
	total := 0
	for _, c := range Candidates {
		total += t[c]
	}
	return total
}

// ResolveWinner gives the candidate with strictly more votes, otherwise a tie.
func ResolveWinner(t Tally) Winner {
	a, b := t[CandidateA], t[CandidateB]
	switch {
	case a > b:
		return WinnerA
	case b > a:
		return WinnerB
	default:
		return WinnerTie
	}
}
