package domain

import (
	"fmt"
	"math"
)

// StoredClip is the flat shape a clip takes outside the process: ids as
// strings, instants as unix seconds and hits as a signed integer. Storage
// rows and export files both convert through it.
type StoredClip struct {
	ClipID    string
	ShortCode string
	Content   string
	Title     *string
	Expires   *int64
	Password  *string
	Posted    int64
	Hits      int64
}

// Clip re-validates every field. The first invalid field aborts the
// conversion and no Clip is returned.
func (s StoredClip) Clip() (*Clip, error) {
	clipID, err := NewClipID(s.ClipID)
	if err != nil {
		return nil, err
	}
	shortCode, err := ParseShortCode(s.ShortCode)
	if err != nil {
		return nil, err
	}
	content, err := NewContent(s.Content)
	if err != nil {
		return nil, err
	}
	expires, err := ExpiresFromUnix(s.Expires)
	if err != nil {
		return nil, err
	}
	password, err := PasswordFromStored(s.Password)
	if err != nil {
		return nil, err
	}
	posted, err := PostedFromUnix(s.Posted)
	if err != nil {
		return nil, err
	}
	hits, err := HitsFromStored(s.Hits)
	if err != nil {
		return nil, err
	}
	return AssembleClip(clipID, shortCode, content, NewTitle(s.Title), expires, password, posted, hits), nil
}

// Store flattens c. It fails with ErrCountRange when the hit count does not
// fit the signed column.
func (c *Clip) Store() (StoredClip, error) {
	hits, err := c.hits.Stored()
	if err != nil {
		return StoredClip{}, err
	}
	return StoredClip{
		ClipID:    c.clipID.IntoInner().String(),
		ShortCode: c.shortCode.String(),
		Content:   c.content.IntoInner(),
		Title:     c.title.IntoInner(),
		Expires:   c.expires.Unix(),
		Password:  c.password.IntoInner(),
		Posted:    c.posted.IntoInner().Unix(),
		Hits:      hits,
	}, nil
}

// Stored converts the count to the signed value storage keeps.
func (h Hits) Stored() (int64, error) {
	if h.n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d", ErrCountRange, h.n)
	}
	return int64(h.n), nil
}
