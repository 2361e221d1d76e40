package domain

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password is an optional bcrypt hash guarding a clip's content.
//
// It has three states: absent, present but empty (explicitly unprotected),
// and a hash. Absent and empty both leave the clip public, but an update
// treats them differently: absent keeps whatever is stored, empty removes
// the protection.
type Password struct {
	value *string
}

// NoPassword returns the absent password.
func NoPassword() Password {
	return Password{}
}

// NewPassword hashes a raw secret. The empty string yields the explicit
// "no protection" value.
func NewPassword(raw string) (Password, error) {
	if raw == "" {
		return emptyPassword(), nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return Password{}, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}
	s := string(hash)
	return Password{value: &s}, nil
}

// PasswordFromStored re-validates a value read from storage.
func PasswordFromStored(stored *string) (Password, error) {
	if stored == nil {
		return NoPassword(), nil
	}
	if *stored == "" {
		return emptyPassword(), nil
	}
	if _, err := bcrypt.Cost([]byte(*stored)); err != nil {
		return Password{}, fmt.Errorf("%w: stored value is not a bcrypt hash: %v", ErrInvalidPassword, err)
	}
	s := *stored
	return Password{value: &s}, nil
}

func emptyPassword() Password {
	s := ""
	return Password{value: &s}
}

// IsSet reports whether the password field is present, even if empty.
func (p Password) IsSet() bool {
	return p.value != nil
}

// IsProtected reports whether a hash is stored.
func (p Password) IsProtected() bool {
	return p.value != nil && *p.value != ""
}

// IntoInner returns the stored form: nil, "" or the hash.
func (p Password) IntoInner() *string {
	return p.value
}

// Verify checks candidate against the hash. An unprotected password accepts
// any candidate. A mismatch is reported as (false, nil).
func (p Password) Verify(candidate string) (bool, error) {
	if !p.IsProtected() {
		return true, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(*p.value), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}
}
