package seobar

import (
	"fmt"
	"slices"

	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/meta"
	"github.com/sybrew/the-seo-framework/textutil"
)

// termSubject is the per-item query context for taxonomy archives.
type termSubject struct {
	query     Query
	term      *content.Term
	postTypes []string
	robots    content.RobotsMeta
}

func (*termSubject) isSubject() {}

// TermBuilder evaluates taxonomy archives (categories, tags, custom
// taxonomies).
type TermBuilder struct {
	deps Deps
}

// NewTermBuilder creates a TermBuilder. Deps.Terms is required on top
// of the common dependencies.
func NewTermBuilder(deps Deps) (*TermBuilder, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Terms == nil {
		return nil, fmt.Errorf("seobar: Deps.Terms is required")
	}
	return &TermBuilder{deps: deps}, nil
}

// Tests returns the registered test names in canonical order.
func (b *TermBuilder) Tests() []string { return slices.Clone(canonicalTests) }

func (b *TermBuilder) prime(q Query) (subject, error) {
	if q.Taxonomy == "" {
		return nil, fmt.Errorf("term builder requires a taxonomy")
	}
	t, err := b.deps.Terms.Term(q.Taxonomy, q.ID)
	if err != nil {
		return nil, err
	}
	postTypes := b.deps.Terms.PostTypes(q.Taxonomy)
	return &termSubject{
		query:     q,
		term:      t,
		postTypes: postTypes,
		robots:    b.deps.Robots.ForTerm(t, postTypes),
	}, nil
}

func (b *TermBuilder) evaluate(test string, s subject) Verdict {
	ts := s.(*termSubject)
	switch test {
	case TestTitle:
		return b.testTitle(ts)
	case TestDescription:
		return b.testDescription(ts)
	case TestIndexing:
		return b.testIndexing(ts)
	case TestFollowing:
		return b.testFollowing(ts)
	case TestArchiving:
		return b.testArchiving(ts)
	case TestRedirect:
		return b.testRedirect(ts)
	}
	return Verdict{}
}

func (b *TermBuilder) titleDefaults() *titleDefaults {
	return memo(b.deps.Cache, keyTermTitleDefaults, func() *titleDefaults {
		return &titleDefaults{
			customBase:    "Obtained from the term SEO settings.",
			generatedBase: "Generated from the term name.",
			syntaxMsg:     "The title contains shortcode or template syntax that was not processed.",
			emptyMsg:      "No title could be generated; the term has no name.",
			untitledTmpl:  "The generated title matches the %q placeholder.",
			brandAutoMsg:  "The site brand is automatically added to the title.",
			brandOwnMsg:   "The site brand is manually added to the title.",
			notBrandedMsg: "The site brand is missing from the title; branded titles are better recognizable.",
			dupeBrandTmpl: "The site brand was found %d times in the title.",
			lengths: lengthMessages{
				farTooShort: "Measured %d characters, far below the recommended minimum.",
				tooShort:    "Measured %d characters, slightly below the recommended minimum.",
				good:        "Measured %d characters, within the recommended range.",
				tooLong:     "Measured %d characters, slightly above the recommended maximum.",
				farTooLong:  "Measured %d characters, far above the recommended maximum.",
			},
		}
	})
}

func (b *TermBuilder) testTitle(s *termSubject) Verdict {
	d := b.titleDefaults()
	site := b.deps.siteState()

	v := Verdict{
		Symbol: symbolTitleGenerated,
		Title:  labelTitle,
		Status: StatusGood,
		Reason: ReasonTitleGenerated,
		Assess: NewAssess(),
	}

	var title string
	if custom := b.deps.Meta.TermCustomTitle(s.term); custom != "" {
		v.Symbol = symbolTitleCustom
		v.Reason = ReasonTitleCustom
		v.Assess.Set(assessBase, d.customBase)
		if textutil.HasUnprocessedSyntax(custom) {
			v.Status = StatusBad
			v.Reason = ReasonTitleSyntax
			v.Assess.Set(assessSyntax, d.syntaxMsg)
			return v
		}
		title = custom
	} else {
		v.Assess.Set(assessBase, d.generatedBase)

		title = b.deps.Meta.TermGeneratedTitle(s.term)
		if title == "" {
			v.Status = StatusBad
			v.Reason = ReasonTitleIncomplete
			v.Assess.Set(assessEmpty, d.emptyMsg)
			return v
		}
		untitled := b.deps.Meta.Untitled()
		if textutil.NormalizeForCompare(title) == textutil.NormalizeForCompare(untitled) {
			v.Status = StatusBad
			v.Reason = ReasonTitleUntitled
			v.Assess.Set(assessUntitled, fmt.Sprintf(d.untitledTmpl, untitled))
			return v
		}
	}

	branded := b.deps.Meta.Branded(title)
	switch {
	case branded != title:
		v.Assess.Set(assessBranding, d.brandAutoMsg)
	case site.brand != "" && textutil.CountSubstring(title, site.brand) > 0:
		v.Assess.Set(assessBranding, d.brandOwnMsg)
	}

	switch n := textutil.CountSubstring(branded, site.brand); {
	case n == 0:
		v.Status = StatusUnknown
		v.Reason = ReasonTitleNotBranded
		v.Assess.Set(assessNotBranded, d.notBrandedMsg)
	case n > 1:
		v.Status = StatusBad
		v.Reason = ReasonTitleBrandDuplicated
		v.Assess.Set(assessDuplicated, fmt.Sprintf(d.dupeBrandTmpl, n))
		return v
	}

	guides := GuidelinesFor(b.deps.Cache, site.locale)
	n := textutil.CharCount(textutil.NormalizeForCompare(branded))
	applyLengthGrade(&v, n, guides.Title, d.lengths, titleLengthReasons)
	return v
}

func (b *TermBuilder) descriptionDefaults() *descriptionDefaults {
	return memo(b.deps.Cache, keyTermDescriptionDefaults, func() *descriptionDefaults {
		return &descriptionDefaults{
			customBase:    "Obtained from the term SEO settings.",
			generatedBase: "Generated from the term description.",
			noAutoBase:    "No custom description is set, and automatic generation is disabled.",
			syntaxMsg:     "The description contains shortcode or template syntax that was not processed.",
			emptyMsg:      "The term has no description to generate a meta description from.",
			dupeTmpl:      "The word %q is used %d times; consider rephrasing.",
			manyDupeTmpl:  "Found %d words that repeat too often.",
			lengths: lengthMessages{
				farTooShort: "Measured %d characters, far below the recommended minimum.",
				tooShort:    "Measured %d characters, slightly below the recommended minimum.",
				good:        "Measured %d characters, within the recommended range.",
				tooLong:     "Measured %d characters, slightly above the recommended maximum.",
				farTooLong:  "Measured %d characters, far above the recommended maximum.",
			},
		}
	})
}

func (b *TermBuilder) testDescription(s *termSubject) Verdict {
	d := b.descriptionDefaults()
	site := b.deps.siteState()

	v := Verdict{
		Symbol: symbolDescriptionGenerated,
		Title:  labelDescription,
		Status: StatusGood,
		Reason: ReasonDescriptionGenerated,
		Assess: NewAssess(),
	}

	desc, origin := b.deps.Meta.TermDescription(s.term)
	switch {
	case origin == meta.OriginCustom:
		v.Symbol = symbolDescriptionCustom
		v.Reason = ReasonDescriptionCustom
		v.Assess.Set(assessBase, d.customBase)
		if textutil.HasUnprocessedSyntax(desc) {
			v.Status = StatusBad
			v.Reason = ReasonDescriptionSyntax
			v.Assess.Set(assessSyntax, d.syntaxMsg)
			return v
		}
	case !b.deps.Config.Meta.AutoDescriptionEnabled():
		v.Status = StatusUnknown
		v.Reason = ReasonDescriptionEmptyNoAuto
		v.Assess.Set(assessBase, d.noAutoBase)
		return v
	case desc == "":
		v.Status = StatusUnknown
		v.Reason = ReasonDescriptionEmpty
		v.Assess.Set(assessBase, d.generatedBase)
		v.Assess.Set(assessEmpty, d.emptyMsg)
		return v
	default:
		v.Assess.Set(assessBase, d.generatedBase)
	}

	if repeats := textutil.RepeatedWords(desc, site.minWordLen); len(repeats) > 0 {
		if textutil.MaxRepeat(repeats) > 3 || len(repeats) > 1 {
			v.Status = StatusBad
			v.Reason = ReasonDescriptionFoundManyDupe
			v.Assess.Set(assessDupe, fmt.Sprintf(d.manyDupeTmpl, len(repeats)))
			return v
		}
		v.Status = StatusOkay
		v.Reason = ReasonDescriptionFoundDupe
		v.Assess.Set(assessDupe, fmt.Sprintf(d.dupeTmpl, repeats[0].Word, repeats[0].Count))
	}

	guides := GuidelinesFor(b.deps.Cache, site.locale)
	n := textutil.CharCount(textutil.NormalizeForCompare(desc))
	applyLengthGrade(&v, n, guides.Description, d.lengths, descriptionLengthReasons)
	return v
}

func (b *TermBuilder) indexDefaults() *robotsDefaults {
	return memo(b.deps.Cache, keyTermIndexDefaults, func() *robotsDefaults {
		return &robotsDefaults{
			notPublicMsg:   "The site blocks all search engines via its visibility settings.",
			allowedBase:    "The term archive may be indexed by search engines.",
			blockedBase:    "The term archive will likely not be indexed.",
			siteMsg:        "Indexing is discouraged for the whole site.",
			taxonomyTmpl:   "Indexing is discouraged for all %q archives.",
			postTypeTmpl:   "Every post type bound to this taxonomy discourages indexing.",
			overrideOnMsg:  "The term is explicitly set not to be indexed.",
			overrideOffMsg: "The term is explicitly set to be indexed.",
			canonicalMsg:   "The canonical URL points to another page; search engines may index that page instead.",
			emptyMsg:       "The term has no published posts; empty archives are kept out of the index.",
			emptyOverride:  "The term has no published posts, yet indexing is requested; search engines dislike empty archives.",
		}
	})
}

func (b *TermBuilder) testIndexing(s *termSubject) Verdict {
	d := b.indexDefaults()
	site := b.deps.siteState()

	v := Verdict{Symbol: symbolIndexing, Title: labelIndexing, Assess: NewAssess()}

	if !site.public {
		v.Symbol = symbolUrgent
		v.Status = StatusBad
		v.Reason = ReasonNotPublic
		v.Assess.Set(assessNotPublic, d.notPublicMsg)
		return v
	}

	if s.robots.NoIndex {
		v.Status = StatusUnknown
		v.Reason = ReasonIndexBlocked
		v.Assess.Set(assessBase, d.blockedBase)
	} else {
		v.Status = StatusGood
		v.Reason = ReasonIndexAllowed
		v.Assess.Set(assessBase, d.allowedBase)
	}

	if site.site.NoIndex {
		v.Assess.Set(assessSite, d.siteMsg)
	}
	if b.deps.Config.Robots.ForTaxonomy(s.term.Taxonomy).NoIndex {
		v.Assess.Set(assessTaxonomy, fmt.Sprintf(d.taxonomyTmpl, s.term.Taxonomy))
	}
	if b.allPostTypesDiscourage(s, func(dir config.Directives) bool { return dir.NoIndex }) {
		v.Assess.Set(assessPostType, d.postTypeTmpl)
	}

	// An explicit per-term override supersedes the generic signals.
	if s.term.Meta.NoIndex.Set() {
		v.Assess.Delete(assessPostType, assessTaxonomy, assessSite)
		if s.term.Meta.NoIndex == content.QubitOn {
			v.Assess.Set(assessOverride, d.overrideOnMsg)
		} else {
			v.Assess.Set(assessOverride, d.overrideOffMsg)
		}
	}

	if s.term.IsEmpty() {
		// An explicit request to index an empty archive is worse than
		// the automatic exclusion: crawlers are invited to a dead end.
		if s.term.Meta.NoIndex == content.QubitOff {
			v.Status = StatusBad
			v.Reason = ReasonTermEmptyOverride
			v.Assess.Set(assessEmptyOverride, d.emptyOverride)
		} else {
			v.Status = StatusUnknown
			v.Reason = ReasonTermEmpty
			v.Assess.Set(assessEmpty, d.emptyMsg)
		}
		return v
	}

	if c := s.term.Meta.Canonical; c != "" && c != s.term.URL {
		v.Status = StatusUnknown
		v.Reason = ReasonCanonicalURL
		v.Assess.Set(assessCanonical, d.canonicalMsg)
	}

	return v
}

func (b *TermBuilder) followDefaults() *robotsDefaults {
	return memo(b.deps.Cache, keyTermFollowDefaults, func() *robotsDefaults {
		return &robotsDefaults{
			notPublicMsg:   "The site blocks all search engines via its visibility settings.",
			allowedBase:    "Links on the term archive may be followed by crawlers.",
			blockedBase:    "Links on the term archive will likely not be followed.",
			siteMsg:        "Following links is discouraged for the whole site.",
			taxonomyTmpl:   "Following links is discouraged for all %q archives.",
			postTypeTmpl:   "Every post type bound to this taxonomy discourages following links.",
			overrideOnMsg:  "The term is explicitly set not to have its links followed.",
			overrideOffMsg: "The term is explicitly set to have its links followed.",
			noIndexHintMsg: "The term archive is not indexed; crawlers may also skip its links.",
			robotsTxtMsg:   "A custom robots.txt file exists; it may overrule these directives.",
		}
	})
}

func (b *TermBuilder) testFollowing(s *termSubject) Verdict {
	d := b.followDefaults()
	site := b.deps.siteState()

	v := Verdict{Symbol: symbolFollowing, Title: labelFollowing, Assess: NewAssess()}

	if !site.public {
		v.Symbol = symbolUrgent
		v.Status = StatusBad
		v.Reason = ReasonNotPublic
		v.Assess.Set(assessNotPublic, d.notPublicMsg)
		return v
	}

	if s.robots.NoFollow {
		v.Status = StatusUnknown
		v.Reason = ReasonFollowBlocked
		v.Assess.Set(assessBase, d.blockedBase)
	} else {
		v.Status = StatusGood
		v.Reason = ReasonFollowAllowed
		v.Assess.Set(assessBase, d.allowedBase)
	}

	if site.site.NoFollow {
		v.Assess.Set(assessSite, d.siteMsg)
	}
	if b.deps.Config.Robots.ForTaxonomy(s.term.Taxonomy).NoFollow {
		v.Assess.Set(assessTaxonomy, fmt.Sprintf(d.taxonomyTmpl, s.term.Taxonomy))
	}
	if b.allPostTypesDiscourage(s, func(dir config.Directives) bool { return dir.NoFollow }) {
		v.Assess.Set(assessPostType, d.postTypeTmpl)
	}

	if s.term.Meta.NoFollow.Set() {
		v.Assess.Delete(assessPostType, assessTaxonomy, assessSite)
		if s.term.Meta.NoFollow == content.QubitOn {
			v.Assess.Set(assessOverride, d.overrideOnMsg)
		} else {
			v.Assess.Set(assessOverride, d.overrideOffMsg)
		}
	}

	if !s.robots.NoFollow {
		if s.robots.NoIndex {
			v.Assess.Set(assessNoIndexHint, d.noIndexHintMsg)
		}
		if site.hasRobotsTxt {
			v.Assess.Set(assessRobotsTxt, d.robotsTxtMsg)
		}
	}

	return v
}

func (b *TermBuilder) archiveDefaults() *robotsDefaults {
	return memo(b.deps.Cache, keyTermArchiveDefaults, func() *robotsDefaults {
		return &robotsDefaults{
			notPublicMsg:   "The site blocks all search engines via its visibility settings.",
			allowedBase:    "Search engines may store a cached copy of the term archive.",
			blockedBase:    "Search engines will likely not store a cached copy.",
			siteMsg:        "Archiving is discouraged for the whole site.",
			taxonomyTmpl:   "Archiving is discouraged for all %q archives.",
			postTypeTmpl:   "Every post type bound to this taxonomy discourages archiving.",
			overrideOnMsg:  "The term is explicitly set not to be archived.",
			overrideOffMsg: "The term is explicitly set to be archived.",
			noIndexHintMsg: "The term archive is not indexed; crawlers may also skip archiving it.",
			robotsTxtMsg:   "A custom robots.txt file exists; it may overrule these directives.",
		}
	})
}

func (b *TermBuilder) testArchiving(s *termSubject) Verdict {
	d := b.archiveDefaults()
	site := b.deps.siteState()

	v := Verdict{Symbol: symbolArchiving, Title: labelArchiving, Assess: NewAssess()}

	if !site.public {
		v.Symbol = symbolUrgent
		v.Status = StatusBad
		v.Reason = ReasonNotPublic
		v.Assess.Set(assessNotPublic, d.notPublicMsg)
		return v
	}

	if s.robots.NoArchive {
		v.Status = StatusUnknown
		v.Reason = ReasonArchiveBlocked
		v.Assess.Set(assessBase, d.blockedBase)
	} else {
		v.Status = StatusGood
		v.Reason = ReasonArchiveAllowed
		v.Assess.Set(assessBase, d.allowedBase)
	}

	if site.site.NoArchive {
		v.Assess.Set(assessSite, d.siteMsg)
	}
	if b.deps.Config.Robots.ForTaxonomy(s.term.Taxonomy).NoArchive {
		v.Assess.Set(assessTaxonomy, fmt.Sprintf(d.taxonomyTmpl, s.term.Taxonomy))
	}
	if b.allPostTypesDiscourage(s, func(dir config.Directives) bool { return dir.NoArchive }) {
		v.Assess.Set(assessPostType, d.postTypeTmpl)
	}

	if s.term.Meta.NoArchive.Set() {
		v.Assess.Delete(assessPostType, assessTaxonomy, assessSite)
		if s.term.Meta.NoArchive == content.QubitOn {
			v.Assess.Set(assessOverride, d.overrideOnMsg)
		} else {
			v.Assess.Set(assessOverride, d.overrideOffMsg)
		}
	}

	if !s.robots.NoArchive {
		if s.robots.NoIndex {
			v.Assess.Set(assessNoIndexHint, d.noIndexHintMsg)
		}
		if site.hasRobotsTxt {
			v.Assess.Set(assessRobotsTxt, d.robotsTxtMsg)
		}
	}

	return v
}

func (b *TermBuilder) redirectDefaults() *redirectDefaults {
	return memo(b.deps.Cache, keyTermRedirectDefaults, func() *redirectDefaults {
		return &redirectDefaults{
			noneMsg:    "The term archive does not redirect visitors, so search engines may index it.",
			targetTmpl: "All visitors and crawlers are sent to %s; other SEO signals do not apply.",
		}
	})
}

func (b *TermBuilder) testRedirect(s *termSubject) Verdict {
	d := b.redirectDefaults()

	v := Verdict{Symbol: symbolRedirect, Title: labelRedirect, Assess: NewAssess()}

	target := s.term.Meta.Redirect
	if target == "" {
		v.Status = StatusGood
		v.Reason = ReasonNoRedirect
		v.Assess.Set(assessRedirect, d.noneMsg)
		return v
	}

	v.Status = StatusUnknown
	v.Reason = ReasonRedirects
	v.Assess.Set(assessRedirect, fmt.Sprintf(d.targetTmpl, target))
	v.Blocking = true
	return v
}

// allPostTypesDiscourage reports whether every post type bound to the
// term's taxonomy carries the selected directive; the indexing,
// following, and archiving tests each pass their own axis. With no
// bound post types there is nothing to discourage.
func (b *TermBuilder) allPostTypesDiscourage(s *termSubject, flag func(config.Directives) bool) bool {
	if len(s.postTypes) == 0 {
		return false
	}
	for _, pt := range s.postTypes {
		if !flag(b.deps.Config.Robots.ForPostType(pt)) {
			return false
		}
	}
	return true
}
