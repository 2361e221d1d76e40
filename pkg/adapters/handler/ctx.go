package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageContext describes one renderable page: the template that fills in the
// content block, the layout it extends, and the page title.
type PageContext interface {
	Title() string
	TemplatePath() string
	Parent() string
}

type Home struct{}

func (Home) Title() string        { return "Stash Your Clipboard!" }
func (Home) TemplatePath() string { return "home" }
func (Home) Parent() string       { return "base" }

// ViewClip requires a clip that already passed the access policy.
type ViewClip struct {
	Clip *domain.Clip
}

func (ViewClip) Title() string        { return "View Clip" }
func (ViewClip) TemplatePath() string { return "clip" }
func (ViewClip) Parent() string       { return "base" }

// PasswordRequired carries only the short code; content is withheld until
// the password is verified.
type PasswordRequired struct {
	ShortCode domain.ShortCode
}

func (PasswordRequired) Title() string        { return "Password required" }
func (PasswordRequired) TemplatePath() string { return "clip_need_password" }
func (PasswordRequired) Parent() string       { return "base" }

// Renderer executes page contexts against the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []PageContext{Home{}, ViewClip{}, PasswordRequired{}} {
		tmpl, err := template.ParseFS(templateFS,
			"templates/"+page.Parent()+".html",
			"templates/"+page.TemplatePath()+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page.TemplatePath(), err)
		}
		r.pages[page.TemplatePath()] = tmpl
	}
	return r, nil
}

type pageData struct {
	Title string
	Page  PageContext
}

func (r *Renderer) Render(w io.Writer, page PageContext) error {
	tmpl, ok := r.pages[page.TemplatePath()]
	if !ok {
		return fmt.Errorf("unknown template %q", page.TemplatePath())
	}
	return tmpl.ExecuteTemplate(w, page.Parent(), pageData{Title: page.Title(), Page: page})
}
