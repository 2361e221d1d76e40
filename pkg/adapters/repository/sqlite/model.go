package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/wadjakorntonsri/clipstash/pkg/core/ask"
	"github.com/wadjakorntonsri/clipstash/pkg/core/dbid"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
)

const clipColumns = `clip_id, shortcode, content, title, expires, password, posted, hits`

// clipRow is a clips row exactly as stored. Nothing in it is trusted until
// toDomain has validated it.
type clipRow struct {
	ClipID    string
	ShortCode string
	Content   string
	Title     sql.NullString
	Expires   sql.NullInt64
	Password  sql.NullString
	Posted    int64
	Hits      int64
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *clipRow) scan(s scanner) error {
	return s.Scan(
		&r.ClipID, &r.ShortCode, &r.Content, &r.Title,
		&r.Expires, &r.Password, &r.Posted, &r.Hits,
	)
}

// toDomain re-validates every column. The first invalid column aborts the
// conversion and no Clip is returned.
func (r clipRow) toDomain() (*domain.Clip, error) {
	return domain.StoredClip{
		ClipID:    r.ClipID,
		ShortCode: r.ShortCode,
		Content:   r.Content,
		Title:     fromNullString(r.Title),
		Expires:   fromNullInt64(r.Expires),
		Password:  fromNullString(r.Password),
		Posted:    r.Posted,
		Hits:      r.Hits,
	}.Clip()
}

// rowFromDomain is the inverse of toDomain, used when restoring exports.
func rowFromDomain(c *domain.Clip) (clipRow, error) {
	s, err := c.Store()
	if err != nil {
		return clipRow{}, err
	}
	return clipRow{
		ClipID:    s.ClipID,
		ShortCode: s.ShortCode,
		Content:   s.Content,
		Title:     toNullString(s.Title),
		Expires:   toNullInt64(s.Expires),
		Password:  toNullString(s.Password),
		Posted:    s.Posted,
		Hits:      s.Hits,
	}, nil
}

// GetClip selects a clip by short code.
type GetClip struct {
	shortcode string
}

func GetClipFromShortCode(sc domain.ShortCode) GetClip {
	return GetClip{shortcode: sc.String()}
}

func GetClipFromString(shortcode string) GetClip {
	return GetClip{shortcode: shortcode}
}

func GetClipFromAsk(req ask.GetClip) GetClip {
	return GetClipFromShortCode(req.ShortCode)
}

// NewClip inserts a clip.
type NewClip struct {
	clipID    string
	shortcode string
	content   string
	title     *string
	expires   *int64
	password  *string
	posted    int64
}

// NewClipFromAsk mints a fresh clip id and short code and stamps the posting
// time when called, so every call yields a distinct command.
func NewClipFromAsk(req ask.NewClip, clock domain.Clock, generate func() domain.ShortCode) NewClip {
	return NewClip{
		clipID:    dbid.New().String(),
		shortcode: generate().String(),
		content:   req.Content.IntoInner(),
		title:     req.Title.IntoInner(),
		expires:   req.Expires.Unix(),
		password:  req.Password.IntoInner(),
		posted:    clock.Now().Unix(),
	}
}

func (c NewClip) String() string {
	return fmt.Sprintf("NewClip{clip_id=%s shortcode=%s}", c.clipID, c.shortcode)
}

// UpdateClip replaces the editable fields of the clip at shortcode. A nil
// password keeps the stored value.
type UpdateClip struct {
	shortcode string
	content   string
	title     *string
	expires   *int64
	password  *string
}

// UpdateClipFromAsk keeps the caller's target short code; links to the clip
// stay valid after an update.
func UpdateClipFromAsk(req ask.UpdateClip) UpdateClip {
	return UpdateClip{
		shortcode: req.ShortCode.String(),
		content:   req.Content.IntoInner(),
		title:     req.Title.IntoInner(),
		expires:   req.Expires.Unix(),
		password:  req.Password.IntoInner(),
	}
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func toNullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func fromNullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
