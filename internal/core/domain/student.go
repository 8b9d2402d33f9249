package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinRegisterNumberLength = 3
	MinNameLength           = 2
)

type Student struct {
	RegisterNumber string    `json:"register_number"`
	Name           string    `json:"name"`
	RegisteredAt   time.Time `json:"registered_at"`
}

// NormalizeRegisterNumber is applied before every lookup and insert.
func NormalizeRegisterNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func NormalizeName(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// NewStudent normalizes and validates registration input.
func NewStudent(registerNumber, name string, registeredAt time.Time) (*Student, error) {
	registerNumber = NormalizeRegisterNumber(registerNumber)
	name = NormalizeName(name)

	if registerNumber == "" || name == "" {
		return nil, fmt.Errorf("%w: register number and name are required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(registerNumber) < MinRegisterNumberLength {
		return nil, fmt.Errorf("%w: register number must be at least %d characters long", ErrInvalidInput, MinRegisterNumberLength)
	}
	if utf8.RuneCountInString(name) < MinNameLength {
		return nil, fmt.Errorf("%w: name must be at least %d characters long", ErrInvalidInput, MinNameLength)
	}

	return &Student{
		RegisterNumber: registerNumber,
		Name:           name,
		RegisteredAt:   registeredAt,
	}, nil
}
