package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/wadjakorntonsri/clipstash/pkg/core/dbid"
)

// ClipID is the internal identity of a clip.
type ClipID struct {
	id dbid.DbID
}

// NewClipID parses the string form of a DbID.
func NewClipID(raw string) (ClipID, error) {
	id, err := dbid.Parse(raw)
	if err != nil {
		return ClipID{}, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return ClipID{id: id}, nil
}

// ClipIDFrom wraps an id that is already known to be valid.
func ClipIDFrom(id dbid.DbID) ClipID {
	return ClipID{id: id}
}

func (c ClipID) IntoInner() dbid.DbID { return c.id }

// Content is the non-empty body of a clip.
type Content struct {
	text string
}

// NewContent rejects empty and whitespace-only text. Accepted text is kept
// verbatim.
func NewContent(text string) (Content, error) {
	if strings.TrimSpace(text) == "" {
		return Content{}, ErrEmptyContent
	}
	return Content{text: text}, nil
}

func (c Content) IntoInner() string { return c.text }

// Title is an optional, unconstrained label.
type Title struct {
	title *string
}

func NewTitle(title *string) Title {
	return Title{title: title}
}

func (t Title) IntoInner() *string { return t.title }

// Text returns the title, or "" when none was given.
func (t Title) Text() string {
	if t.title == nil {
		return ""
	}
	return *t.title
}

// Expires is an optional expiry instant. Past values are accepted; expiry is
// evaluated when the clip is read.
type Expires struct {
	at *time.Time
}

func NewExpires(at *time.Time) Expires {
	if at == nil {
		return Expires{}
	}
	v := at.UTC()
	return Expires{at: &v}
}

// ParseExpires reads an RFC3339 timestamp. An empty string means no expiry.
func ParseExpires(raw string) (Expires, error) {
	if raw == "" {
		return Expires{}, nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return Expires{}, fmt.Errorf("%w: expires %q: %v", ErrTimeConversion, raw, err)
	}
	return NewExpires(&at), nil
}

// ExpiresFromUnix converts a stored epoch value.
func ExpiresFromUnix(secs *int64) (Expires, error) {
	if secs == nil {
		return Expires{}, nil
	}
	at, err := timeFromUnix(*secs)
	if err != nil {
		return Expires{}, err
	}
	return Expires{at: &at}, nil
}

func (e Expires) IntoInner() *time.Time { return e.at }

// IsExpired reports whether the expiry instant is strictly before now.
func (e Expires) IsExpired(now time.Time) bool {
	return e.at != nil && e.at.Before(now)
}

// Unix returns the expiry as epoch seconds, or nil when unset.
func (e Expires) Unix() *int64 {
	if e.at == nil {
		return nil
	}
	secs := e.at.Unix()
	return &secs
}

// Posted is the creation time of a clip.
type Posted struct {
	at time.Time
}

func NewPosted(at time.Time) Posted {
	return Posted{at: at.UTC()}
}

// PostedFromUnix converts a stored epoch value.
func PostedFromUnix(secs int64) (Posted, error) {
	at, err := timeFromUnix(secs)
	if err != nil {
		return Posted{}, err
	}
	return Posted{at: at}, nil
}

func (p Posted) IntoInner() time.Time { return p.at }

// Hits counts successful retrievals.
type Hits struct {
	n uint64
}

func NewHits(n uint64) Hits {
	return Hits{n: n}
}

// HitsFromStored converts the signed column value used by storage.
func HitsFromStored(n int64) (Hits, error) {
	if n < 0 {
		return Hits{}, fmt.Errorf("%w: %d", ErrCountRange, n)
	}
	return Hits{n: uint64(n)}, nil
}

func (h Hits) IntoInner() uint64 { return h.n }

// Stored values outside (0, year 9999] are treated as corrupt.
const maxUnix = 253402300799

func timeFromUnix(secs int64) (time.Time, error) {
	if secs <= 0 || secs > maxUnix {
		return time.Time{}, fmt.Errorf("%w: epoch %d out of range", ErrTimeConversion, secs)
	}
	return time.Unix(secs, 0).UTC(), nil
}
