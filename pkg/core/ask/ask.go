// Package ask holds the requests the service layer accepts. Every field is
// already validated, so building one is where caller input gets rejected.
package ask

import (
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
)

// GetClip asks for a clip by short code. Password is the caller's candidate,
// nil when none was supplied.
type GetClip struct {
	ShortCode domain.ShortCode
	Password  *string
}

// NewClip asks for a clip to be created. Identity and posting time are
// assigned by storage, never by the caller.
type NewClip struct {
	Content  domain.Content
	Title    domain.Title
	Expires  domain.Expires
	Password domain.Password
}

// UpdateClip asks for the editable fields of the clip at ShortCode to be
// replaced. An absent Password keeps the stored one.
type UpdateClip struct {
	ShortCode domain.ShortCode
	Content   domain.Content
	Title     domain.Title
	Expires   domain.Expires
	Password  domain.Password
}

// Fields is the raw, untrusted shape of a create or update submission.
// Nil pointers mean the field was not supplied.
type Fields struct {
	Content  string
	Title    *string
	Expires  string
	Password *string
}

// ParseGetClip validates a retrieval request.
func ParseGetClip(shortCode string, password *string) (GetClip, error) {
	sc, err := domain.ParseShortCode(shortCode)
	if err != nil {
		return GetClip{}, err
	}
	return GetClip{ShortCode: sc, Password: password}, nil
}

// ParseNewClip validates a creation request.
func ParseNewClip(f Fields) (NewClip, error) {
	content, title, expires, password, err := f.parse()
	if err != nil {
		return NewClip{}, err
	}
	return NewClip{Content: content, Title: title, Expires: expires, Password: password}, nil
}

// ParseUpdateClip validates an update of the clip at shortCode.
func ParseUpdateClip(shortCode string, f Fields) (UpdateClip, error) {
	sc, err := domain.ParseShortCode(shortCode)
	if err != nil {
		return UpdateClip{}, err
	}
	content, title, expires, password, err := f.parse()
	if err != nil {
		return UpdateClip{}, err
	}
	return UpdateClip{
		ShortCode: sc,
		Content:   content,
		Title:     title,
		Expires:   expires,
		Password:  password,
	}, nil
}

func (f Fields) parse() (domain.Content, domain.Title, domain.Expires, domain.Password, error) {
	content, err := domain.NewContent(f.Content)
	if err != nil {
		return domain.Content{}, domain.Title{}, domain.Expires{}, domain.Password{}, err
	}
	expires, err := domain.ParseExpires(f.Expires)
	if err != nil {
		return domain.Content{}, domain.Title{}, domain.Expires{}, domain.Password{}, err
	}
	password := domain.NoPassword()
	if f.Password != nil {
		password, err = domain.NewPassword(*f.Password)
		if err != nil {
			return domain.Content{}, domain.Title{}, domain.Expires{}, domain.Password{}, err
		}
	}
	return content, domain.NewTitle(f.Title), expires, password, nil
}
