// Package dbid provides the internal identity used for stored records.
package dbid

import (
	"fmt"

	"github.com/google/uuid"
)

// DbID is a random 128-bit identifier. It is independent of the public
// short code and never changes once assigned.
type DbID struct {
	id uuid.UUID
}

// New returns a fresh random identifier.
func New() DbID {
	return DbID{id: uuid.New()}
}

// Nil returns the all-zero sentinel. It is never assigned to a stored record.
func Nil() DbID {
	return DbID{id: uuid.Nil}
}

// Parse reads the canonical string form produced by String.
func Parse(s string) (DbID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DbID{}, fmt.Errorf("parse db id %q: %w", s, err)
	}
	return DbID{id: id}, nil
}

func (d DbID) String() string {
	return d.id.String()
}

// IsNil reports whether d is the sentinel value.
func (d DbID) IsNil() bool {
	return d.id == uuid.Nil
}

func (d DbID) MarshalText() ([]byte, error) {
	return []byte(d.id.String()), nil
}

func (d *DbID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
