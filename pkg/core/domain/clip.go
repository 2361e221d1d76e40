package domain

import (
	"encoding/json"
	"time"
)

// Clip is a piece of shared text together with its metadata. A Clip is only
// built from validated fields, so its invariants hold for its whole life.
type Clip struct {
	clipID    ClipID
	shortCode ShortCode
	content   Content
	title     Title
	expires   Expires
	password  Password
	posted    Posted
	hits      Hits
}

// AssembleClip builds a Clip from already validated fields.
func AssembleClip(
	clipID ClipID,
	shortCode ShortCode,
	content Content,
	title Title,
	expires Expires,
	password Password,
	posted Posted,
	hits Hits,
) *Clip {
	return &Clip{
		clipID:    clipID,
		shortCode: shortCode,
		content:   content,
		title:     title,
		expires:   expires,
		password:  password,
		posted:    posted,
		hits:      hits,
	}
}

func (c *Clip) ClipID() ClipID       { return c.clipID }
func (c *Clip) ShortCode() ShortCode { return c.shortCode }
func (c *Clip) Content() Content     { return c.content }
func (c *Clip) Title() Title         { return c.title }
func (c *Clip) Expires() Expires     { return c.expires }
func (c *Clip) Password() Password   { return c.password }
func (c *Clip) Posted() Posted       { return c.posted }
func (c *Clip) Hits() Hits           { return c.hits }

// WithHits returns a copy carrying the count read back after a retrieval.
func (c *Clip) WithHits(h Hits) *Clip {
	cp := *c
	cp.hits = h
	return &cp
}

// Access decides whether the content may be handed out at now. Expiry wins
// over the password check.
func (c *Clip) Access(now time.Time, candidate *string) error {
	if c.expires.IsExpired(now) {
		return ErrExpired
	}
	if !c.password.IsProtected() {
		return nil
	}
	if candidate == nil || *candidate == "" {
		return ErrPasswordRequired
	}
	ok, err := c.password.Verify(*candidate)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongPassword
	}
	return nil
}

type clipJSON struct {
	ClipID    string     `json:"clip_id"`
	ShortCode string     `json:"shortcode"`
	Content   string     `json:"content"`
	Title     *string    `json:"title,omitempty"`
	Expires   *time.Time `json:"expires,omitempty"`
	Protected bool       `json:"protected"`
	Posted    time.Time  `json:"posted"`
	Hits      uint64     `json:"hits"`
}

// MarshalJSON never includes the password hash.
func (c *Clip) MarshalJSON() ([]byte, error) {
	return json.Marshal(clipJSON{
		ClipID:    c.clipID.IntoInner().String(),
		ShortCode: c.shortCode.String(),
		Content:   c.content.IntoInner(),
		Title:     c.title.IntoInner(),
		Expires:   c.expires.IntoInner(),
		Protected: c.password.IsProtected(),
		Posted:    c.posted.IntoInner(),
		Hits:      c.hits.IntoInner(),
	})
}
