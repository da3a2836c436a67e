package meta

import (
	"fmt"
	"strings"

	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/textutil"
)

// CustomTitle returns the explicitly stored title for a post, with the
// homepage settings title winning over the post's own meta. Empty
// means "no custom title".
func (g *Generator) CustomTitle(p *content.Post) string {
	if g.IsHomepage(p) && g.cfg.Homepage.Title != "" {
		return g.cfg.Homepage.Title
	}
	return strings.TrimSpace(p.Meta.Title)
}

// GeneratedTitle derives a title from the post itself: the post title
// with a protection prefix where applicable. It may be empty; callers
// decide how to degrade.
func (g *Generator) GeneratedTitle(p *content.Post) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return ""
	}
	return g.protectionPrefix(p, title)
}

// protectionPrefix marks password-protected and private content the
// way the front end renders it.
func (g *Generator) protectionPrefix(p *content.Post, title string) string {
	switch p.Visibility {
	case content.VisibilityProtected:
		return fmt.Sprintf("Protected: %s", title)
	case content.VisibilityPrivate:
		return fmt.Sprintf("Private: %s", title)
	}
	return title
}

// Title returns the final displayed title for a post: custom or
// generated (falling back to the untitled placeholder), branded.
func (g *Generator) Title(p *content.Post) string {
	title := g.CustomTitle(p)
	if title == "" {
		title = g.GeneratedTitle(p)
	}
	if title == "" {
		title = UntitledPlaceholder
	}
	return g.Branded(title)
}

// TermCustomTitle returns the term's stored custom title, or empty.
func (g *Generator) TermCustomTitle(t *content.Term) string {
	return strings.TrimSpace(t.Meta.Title)
}

// TermGeneratedTitle derives a title from the term name. May be empty.
func (g *Generator) TermGeneratedTitle(t *content.Term) string {
	return strings.TrimSpace(t.Name)
}

// HomeTitle returns the homepage title from settings, falling back to
// the site name with its tagline.
func (g *Generator) HomeTitle() string {
	if g.cfg.Homepage.Title != "" {
		return g.cfg.Homepage.Title
	}
	name := g.cfg.Site.Name
	if name == "" {
		return UntitledPlaceholder
	}
	if g.cfg.Site.Tagline != "" {
		return name + " " + g.cfg.Meta.TitleSeparator + " " + g.cfg.Site.Tagline
	}
	return name
}

// Branded adds the site name to a title according to the branding
// settings. Titles that already carry the brand are returned
// unchanged, which lets callers distinguish manual from automatic
// branding by comparing input and output.
func (g *Generator) Branded(title string) string {
	brand := g.cfg.Site.Name
	if brand == "" || !g.cfg.Meta.AutoBrandingEnabled() {
		return title
	}
	if textutil.CountSubstring(title, brand) > 0 {
		return title
	}

	sep := g.cfg.Meta.TitleSeparator
	if g.cfg.Meta.BrandPosition == config.BrandLeft {
		return brand + " " + sep + " " + title
	}
	return title + " " + sep + " " + brand
}
