// Package robots resolves the effective robots directives for a
// content item from site-wide policy, post-type and taxonomy settings,
// homepage settings, and per-item overrides.
package robots

import (
	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
)

// Resolver computes effective robots meta.
type Resolver struct {
	cfg *config.Config
}

// NewResolver creates a Resolver bound to the given configuration.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// ForPost resolves the effective directives for a post. Resolution
// order: site-wide flags, post-type flags, homepage flags, the item's
// tri-state override, then hard forces for unpublished or private
// content that an override cannot lift.
func (r *Resolver) ForPost(p *content.Post) content.RobotsMeta {
	m := merge(content.RobotsMeta{}, r.cfg.Robots.Site)
	m = merge(m, r.cfg.Robots.ForPostType(p.Type))

	if r.cfg.Homepage.PostID != 0 && p.ID == r.cfg.Homepage.PostID {
		m.NoIndex = m.NoIndex || r.cfg.Homepage.NoIndex
		m.NoFollow = m.NoFollow || r.cfg.Homepage.NoFollow
		m.NoArchive = m.NoArchive || r.cfg.Homepage.NoArchive
	}

	m = applyOverrides(m, p.Meta)

	// Unpublished and private content never reaches a crawler.
	if p.IsDraft() || p.Visibility == content.VisibilityPrivate {
		m.NoIndex = true
	}

	return m
}

// ForTerm resolves the effective directives for a term archive.
// Beyond site-wide and taxonomy flags, a term inherits each directive
// that every post type bound to its taxonomy agrees on, and is
// noindexed when it holds no published posts.
func (r *Resolver) ForTerm(t *content.Term, postTypes []string) content.RobotsMeta {
	m := merge(content.RobotsMeta{}, r.cfg.Robots.Site)
	m = merge(m, r.cfg.Robots.ForTaxonomy(t.Taxonomy))

	if len(postTypes) > 0 {
		m = merge(m, r.allPostTypesDirectives(postTypes))
	}

	m = applyOverrides(m, t.Meta)

	if t.IsEmpty() {
		m.NoIndex = true
	}

	return m
}

// allPostTypesDirectives intersects the directives of the bound post
// types: an axis holds only when every post type sets it.
func (r *Resolver) allPostTypesDirectives(postTypes []string) config.Directives {
	all := config.Directives{NoIndex: true, NoFollow: true, NoArchive: true}
	for _, pt := range postTypes {
		d := r.cfg.Robots.ForPostType(pt)
		all.NoIndex = all.NoIndex && d.NoIndex
		all.NoFollow = all.NoFollow && d.NoFollow
		all.NoArchive = all.NoArchive && d.NoArchive
	}
	return all
}

func merge(m content.RobotsMeta, d config.Directives) content.RobotsMeta {
	m.NoIndex = m.NoIndex || d.NoIndex
	m.NoFollow = m.NoFollow || d.NoFollow
	m.NoArchive = m.NoArchive || d.NoArchive
	return m
}

func applyOverrides(m content.RobotsMeta, meta content.Meta) content.RobotsMeta {
	m.NoIndex = meta.NoIndex.Enabled(m.NoIndex)
	m.NoFollow = meta.NoFollow.Enabled(m.NoFollow)
	m.NoArchive = meta.NoArchive.Enabled(m.NoArchive)
	return m
}
