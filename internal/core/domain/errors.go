package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidCandidate      = errors.New("invalid candidate")
	ErrDuplicateRegistration = errors.New("register number is already registered")
	ErrNotRegistered         = errors.New("register number is not registered")
	ErrAlreadyVoted          = errors.New("student has already voted")
	ErrWindowClosed          = errors.New("voting is not currently open")
	ErrNoSchedule            = errors.New("no voting schedule set")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrStoreUnavailable      = errors.New("store unavailable")
)
