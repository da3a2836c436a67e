// Package meta generates SEO metadata — titles and descriptions — for
// content items, following the site's branding and generation settings.
package meta

import (
	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
)

// UntitledPlaceholder substitutes for an empty title in displayed
// output. The SEO Bar flags titles that resolve to it.
const UntitledPlaceholder = "Untitled"

// MaxGeneratedDescription caps autogenerated descriptions, in
// characters. Custom descriptions are never trimmed.
const MaxGeneratedDescription = 300

// Generator produces titles and descriptions for posts and terms.
type Generator struct {
	cfg  *config.Config
	conv *md.Converter
}

// NewGenerator creates a Generator bound to the given configuration.
func NewGenerator(cfg *config.Config) *Generator {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	return &Generator{cfg: cfg, conv: conv}
}

// Untitled returns the placeholder used for empty titles.
func (g *Generator) Untitled() string { return UntitledPlaceholder }

// IsHomepage reports whether the post is the configured static homepage.
func (g *Generator) IsHomepage(p *content.Post) bool {
	return g.cfg.Homepage.PostID != 0 && p.ID == g.cfg.Homepage.PostID
}
