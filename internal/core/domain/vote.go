package domain

import (
	"time"
)

type Vote struct {
	ID             int64     `json:"id"`
	RegisterNumber string    `json:"register_number"`
	Candidate      Candidate `json:"candidate"`
	CastAt         time.Time `json:"cast_at"`
}

// VoterRecord joins a vote with the student who cast it.
type VoterRecord struct {
	RegisterNumber string    `json:"register_number"`
	Name           string    `json:"name"`
	Candidate      Candidate `json:"candidate"`
	CastAt         time.Time `json:"cast_at"`
}
