package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudent(t *testing.T) {
	now := time.Now()

	student, err := NewStudent("  ab12  ", "  priya sharma ", now)
	require.NoError(t, err)
	assert.Equal(t, "AB12", student.RegisterNumber)
	assert.Equal(t, "Priya Sharma", student.Name)

	tests := []struct {
		name           string
		registerNumber string
		studentName    string
	}{
		{name: "empty register number", registerNumber: "   ", studentName: "Priya"},
		{name: "empty name", registerNumber: "REG001", studentName: " "},
		{name: "short register number", registerNumber: "ab", studentName: "Priya"},
		{name: "short name", registerNumber: "REG001", studentName: "P"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStudent(tt.registerNumber, tt.studentName, now)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParseCandidate(t *testing.T) {
	c, err := ParseCandidate(" a ")
	require.NoError(t, err)
	assert.Equal(t, CandidateA, c)

	c, err = ParseCandidate("B")
	require.NoError(t, err)
	assert.Equal(t, CandidateB, c)

	_, err = ParseCandidate("C")
	require.ErrorIs(t, err, ErrInvalidCandidate)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseWinner(t *testing.T) {
	for input, want := range map[string]Winner{"a": WinnerA, "B": WinnerB, "tie": WinnerTie, " TIE ": WinnerTie} {
		got, err := ParseWinner(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseWinner("nobody")
	require.ErrorIs(t, err, ErrInvalidInput)
}
