package domain

import "errors"

// Validation failures raised by the field constructors.
var (
	ErrInvalidID        = errors.New("invalid clip id")
	ErrInvalidShortCode = errors.New("invalid short code")
	ErrEmptyContent     = errors.New("content must not be empty")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrCountRange       = errors.New("hit count out of range")
	ErrTimeConversion   = errors.New("time conversion failed")
)

// ErrStorage wraps any failure of the backing store.
var ErrStorage = errors.New("storage error")

// Retrieval outcomes.
var (
	ErrNotFound         = errors.New("clip not found")
	ErrExpired          = errors.New("clip has expired")
	ErrPasswordRequired = errors.New("password required")
	ErrWrongPassword    = errors.New("wrong password")

	// ErrCodeExists indicates the short code is already taken.
	ErrCodeExists = errors.New("short code already exists")

	// ErrCodeExhausted means no free short code was found within the retry budget.
	ErrCodeExhausted = errors.New("unable to generate unique short code")
)
