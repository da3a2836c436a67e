package meta

import (
	"regexp"
	"strings"

	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/textutil"
)

// DescriptionOrigin says where a description came from, or why no
// description could be produced.
type DescriptionOrigin int

const (
	// OriginNone: nothing produced and no specific cause.
	OriginNone DescriptionOrigin = iota
	// OriginCustom: the item's stored meta description.
	OriginCustom
	// OriginHomepage: the homepage settings description.
	OriginHomepage
	// OriginExcerpt: generated from the post excerpt.
	OriginExcerpt
	// OriginContent: generated from the post body.
	OriginContent
	// OriginBuilder: empty because page-builder content is unusable.
	OriginBuilder
	// OriginProtected: empty because the content is access-restricted.
	OriginProtected
)

// Markdown residue left by the HTML conversion that must not leak into
// a meta description.
var (
	mdImageRe   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLinkRe    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdMarkersRe = regexp.MustCompile("[#*_`>|]+")
)

// CustomDescription returns the explicitly stored description for a
// post, with the homepage settings description winning on the
// homepage. The origin distinguishes the two sources.
func (g *Generator) CustomDescription(p *content.Post) (string, DescriptionOrigin) {
	if g.IsHomepage(p) && g.cfg.Homepage.Description != "" {
		return g.cfg.Homepage.Description, OriginHomepage
	}
	if desc := strings.TrimSpace(p.Meta.Description); desc != "" {
		return desc, OriginCustom
	}
	return "", OriginNone
}

// GenerateDescription produces a description from the post content.
// An empty result carries an origin explaining why: page-builder
// content, protected content, or genuinely nothing to work with.
func (g *Generator) GenerateDescription(p *content.Post) (string, DescriptionOrigin) {
	if p.UsesBuilder {
		return "", OriginBuilder
	}
	if p.IsProtected() {
		return "", OriginProtected
	}

	if excerpt := strings.TrimSpace(p.Excerpt); excerpt != "" {
		return TrimTo(g.PlainText(excerpt), MaxGeneratedDescription), OriginExcerpt
	}
	if body := strings.TrimSpace(p.Content); body != "" {
		if text := TrimTo(g.PlainText(body), MaxGeneratedDescription); text != "" {
			return text, OriginContent
		}
	}
	return "", OriginNone
}

// TermDescription returns the term's stored custom description, or
// one generated from the term's archive intro text.
func (g *Generator) TermDescription(t *content.Term) (string, DescriptionOrigin) {
	if desc := strings.TrimSpace(t.Meta.Description); desc != "" {
		return desc, OriginCustom
	}
	if intro := strings.TrimSpace(t.Description); intro != "" {
		return TrimTo(g.PlainText(intro), MaxGeneratedDescription), OriginContent
	}
	return "", OriginNone
}

// PlainText reduces HTML or markdown-ish content to plain prose.
func (g *Generator) PlainText(s string) string {
	if strings.Contains(s, "<") {
		if converted, err := g.conv.ConvertString(s); err == nil {
			s = converted
		}
	}
	s = mdImageRe.ReplaceAllString(s, "")
	s = mdLinkRe.ReplaceAllString(s, "$1")
	s = mdMarkersRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// TrimTo shortens text to at most max characters, preferring a
// sentence boundary and falling back to a word boundary with an
// ellipsis. Character counts follow textutil.CharCount.
func TrimTo(s string, max int) string {
	if textutil.CharCount(s) <= max {
		return s
	}

	runes := []rune(s)
	if len(runes) > max {
		runes = runes[:max]
	}
	cut := string(runes)

	// Prefer ending on a full sentence.
	if idx := strings.LastIndexAny(cut, ".!?"); idx > len(cut)/2 {
		return strings.TrimSpace(cut[:idx+1])
	}
	// Otherwise break on the last word.
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}
