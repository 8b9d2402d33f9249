package domain

import (
	"fmt"
	"strings"
)

// Candidate identifies one of the two contestants. Display names belong to
// whoever renders them.
type Candidate string

const (
	CandidateA Candidate = "A"
	CandidateB Candidate = "B"
)

// Candidates lists the fixed candidate set in ballot order.
var Candidates = []Candidate{CandidateA, CandidateB}

func (c Candidate) Valid() bool {
	return c == CandidateA || c == CandidateB
}

func ParseCandidate(s string) (Candidate, error) {
	c := Candidate(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidCandidate, s)
	}
	return c, nil
}
