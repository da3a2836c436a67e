package seobar

import (
	"fmt"
	"slices"

	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/meta"
	"github.com/sybrew/the-seo-framework/textutil"
)

// pageSubject is the per-item query context for singular content.
type pageSubject struct {
	query  Query
	post   *content.Post
	robots content.RobotsMeta
	isHome bool
}

func (*pageSubject) isSubject() {}

// PageBuilder evaluates singular content (posts, pages, custom types).
type PageBuilder struct {
	deps Deps
}

// NewPageBuilder creates a PageBuilder. Deps.Posts is required on top
// of the common dependencies.
func NewPageBuilder(deps Deps) (*PageBuilder, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Posts == nil {
		return nil, fmt.Errorf("seobar: Deps.Posts is required")
	}
	return &PageBuilder{deps: deps}, nil
}

// Tests returns the registered test names in canonical order.
func (b *PageBuilder) Tests() []string { return slices.Clone(canonicalTests) }

func (b *PageBuilder) prime(q Query) (subject, error) {
	if q.Taxonomy != "" {
		return nil, fmt.Errorf("page builder cannot evaluate taxonomy %q", q.Taxonomy)
	}
	p, err := b.deps.Posts.Post(q.ID)
	if err != nil {
		return nil, err
	}
	return &pageSubject{
		query:  q,
		post:   p,
		robots: b.deps.Robots.ForPost(p),
		isHome: b.deps.Meta.IsHomepage(p),
	}, nil
}

func (b *PageBuilder) evaluate(test string, s subject) Verdict {
	ps := s.(*pageSubject)
	switch test {
	case TestTitle:
		return b.testTitle(ps)
	case TestDescription:
		return b.testDescription(ps)
	case TestIndexing:
		return b.testIndexing(ps)
	case TestFollowing:
		return b.testFollowing(ps)
	case TestArchiving:
		return b.testArchiving(ps)
	case TestRedirect:
		return b.testRedirect(ps)
	}
	// The runner filters unknown names before dispatch.
	return Verdict{}
}

// ---------------------------------------------------------------------------
// Title
// ---------------------------------------------------------------------------

type titleDefaults struct {
	customBase    string
	generatedBase string
	homepageMsg   string
	syntaxMsg     string
	emptyMsg      string
	untitledTmpl  string
	protectedMsg  string
	brandAutoMsg  string
	brandOwnMsg   string
	notBrandedMsg string
	dupeBrandTmpl string
	lengths       lengthMessages
}

var titleLengthReasons = lengthReasons{
	farTooShort: ReasonTitleFarTooShort,
	tooShort:    ReasonTitleTooShort,
	tooLong:     ReasonTitleTooLong,
	farTooLong:  ReasonTitleFarTooLong,
}

func (b *PageBuilder) titleDefaults() *titleDefaults {
	return memo(b.deps.Cache, keyPageTitleDefaults, func() *titleDefaults {
		return &titleDefaults{
			customBase:    "Obtained from the page SEO settings.",
			generatedBase: "Generated from the page title.",
			homepageMsg:   "The homepage title is set via the homepage SEO settings.",
			syntaxMsg:     "The title contains shortcode or template syntax that was not processed.",
			emptyMsg:      "No title could be generated; the page has no title.",
			untitledTmpl:  "The generated title matches the %q placeholder.",
			protectedMsg:  "A protection state label is prefixed to the title.",
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

func (b *PageBuilder) testTitle(s *pageSubject) Verdict {
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
	if custom := b.deps.Meta.CustomTitle(s.post); custom != "" {
		v.Symbol = symbolTitleCustom
		v.Reason = ReasonTitleCustom
		v.Assess.Set(assessBase, d.customBase)
		if s.isHome && b.deps.Config.Homepage.Title != "" {
			v.Assess.Set(assessHomepage, d.homepageMsg)
		}
		if textutil.HasUnprocessedSyntax(custom) {
			v.Status = StatusBad
			v.Reason = ReasonTitleSyntax
			v.Assess.Set(assessSyntax, d.syntaxMsg)
			return v
		}
		title = custom
	} else {
		v.Assess.Set(assessBase, d.generatedBase)

		title = b.deps.Meta.GeneratedTitle(s.post)
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
		if s.post.IsProtected() {
			v.Assess.Set(assessProtected, d.protectedMsg)
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
		// Includes the no-brand-configured case. Not an early return:
		// the length check still runs.
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

// ---------------------------------------------------------------------------
// Description
// ---------------------------------------------------------------------------

type descriptionDefaults struct {
	customBase        string
	generatedBase     string
	noAutoBase        string
	homepageMsg       string
	syntaxMsg         string
	emptyMsg          string
	emptyBuilderMsg   string
	emptyProtectedMsg string
	excerptMsg        string
	dupeTmpl          string
	manyDupeTmpl      string
	lengths           lengthMessages
}

var descriptionLengthReasons = lengthReasons{
	farTooShort: ReasonDescriptionFarTooShort,
	tooShort:    ReasonDescriptionTooShort,
	tooLong:     ReasonDescriptionTooLong,
	farTooLong:  ReasonDescriptionFarTooLong,
}

func (b *PageBuilder) descriptionDefaults() *descriptionDefaults {
	return memo(b.deps.Cache, keyPageDescriptionDefaults, func() *descriptionDefaults {
		return &descriptionDefaults{
			customBase:        "Obtained from the page SEO settings.",
			generatedBase:     "Generated from the page content.",
			noAutoBase:        "No custom description is set, and automatic generation is disabled.",
			homepageMsg:       "The homepage description is set via the homepage SEO settings.",
			syntaxMsg:         "The description contains shortcode or template syntax that was not processed.",
			emptyMsg:          "The page has no content to generate a description from.",
			emptyBuilderMsg:   "The page is built with a page builder; its content cannot be used.",
			emptyProtectedMsg: "The page content is protected; it will not be used.",
			excerptMsg:        "The description is sourced from the page excerpt.",
			dupeTmpl:          "The word %q is used %d times; consider rephrasing.",
			manyDupeTmpl:      "Found %d words that repeat too often.",
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

func (b *PageBuilder) testDescription(s *pageSubject) Verdict {
	d := b.descriptionDefaults()
	site := b.deps.siteState()

	v := Verdict{
		Symbol: symbolDescriptionGenerated,
		Title:  labelDescription,
		Status: StatusGood,
		Reason: ReasonDescriptionGenerated,
		Assess: NewAssess(),
	}

	desc, origin := b.deps.Meta.CustomDescription(s.post)
	if desc != "" {
		v.Symbol = symbolDescriptionCustom
		v.Reason = ReasonDescriptionCustom
		v.Assess.Set(assessBase, d.customBase)
		if origin == meta.OriginHomepage {
			v.Assess.Set(assessHomepage, d.homepageMsg)
		}
		if textutil.HasUnprocessedSyntax(desc) {
			v.Status = StatusBad
			v.Reason = ReasonDescriptionSyntax
			v.Assess.Set(assessSyntax, d.syntaxMsg)
			return v
		}
	} else {
		if !b.deps.Config.Meta.AutoDescriptionEnabled() {
			v.Status = StatusUnknown
			v.Reason = ReasonDescriptionEmptyNoAuto
			v.Assess.Set(assessBase, d.noAutoBase)
			return v
		}

		v.Assess.Set(assessBase, d.generatedBase)

		generated, genOrigin := b.deps.Meta.GenerateDescription(s.post)
		if generated == "" {
			v.Status = StatusUnknown
			v.Reason = ReasonDescriptionEmpty
			switch genOrigin {
			case meta.OriginBuilder:
				v.Assess.Set(assessEmpty, d.emptyBuilderMsg)
			case meta.OriginProtected:
				v.Assess.Set(assessEmpty, d.emptyProtectedMsg)
			default:
				v.Assess.Set(assessEmpty, d.emptyMsg)
			}
			return v
		}
		if genOrigin == meta.OriginExcerpt {
			v.Assess.Set(assessSource, d.excerptMsg)
		}
		desc = generated
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

// ---------------------------------------------------------------------------
// Indexing
// ---------------------------------------------------------------------------

type robotsDefaults struct {
	notPublicMsg   string
	allowedBase    string
	blockedBase    string
	draftMsg       string
	protectedMsg   string
	siteMsg        string
	homepageMsg    string
	postTypeTmpl   string
	taxonomyTmpl   string
	overrideOnMsg  string
	overrideOffMsg string
	canonicalMsg   string
	noIndexHintMsg string
	robotsTxtMsg   string
	emptyMsg       string
	emptyOverride  string
}

func (b *PageBuilder) indexDefaults() *robotsDefaults {
	return memo(b.deps.Cache, keyPageIndexDefaults, func() *robotsDefaults {
		return &robotsDefaults{
			notPublicMsg:   "The site blocks all search engines via its visibility settings.",
			allowedBase:    "The page may be indexed by search engines.",
			blockedBase:    "The page will likely not be indexed.",
			draftMsg:       "The page is a draft; search engines cannot reach it.",
			protectedMsg:   "The page is protected, so it is kept out of the index.",
			siteMsg:        "Indexing is discouraged for the whole site.",
			homepageMsg:    "Indexing is discouraged via the homepage SEO settings.",
			postTypeTmpl:   "Indexing is discouraged for all content of type %q.",
			overrideOnMsg:  "The page is explicitly set not to be indexed.",
			overrideOffMsg: "The page is explicitly set to be indexed.",
			canonicalMsg:   "The canonical URL points to another page; search engines may index that page instead.",
		}
	})
}

func (b *PageBuilder) testIndexing(s *pageSubject) Verdict {
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

	if s.post.IsDraft() {
		v.Status = StatusUnknown
		v.Reason = ReasonIndexDraft
		v.Assess.Set(assessDraft, d.draftMsg)
		return v
	}

	if s.robots.NoIndex && s.post.IsProtected() {
		v.Status = StatusUnknown
		v.Reason = ReasonIndexProtected
		v.Assess.Set(assessProtected, d.protectedMsg)
		return v
	}

	if site.site.NoIndex {
		v.Assess.Set(assessSite, d.siteMsg)
	}
	if s.isHome && b.deps.Config.Homepage.NoIndex {
		v.Assess.Set(assessHomepage, d.homepageMsg)
	}
	if b.deps.Config.Robots.ForPostType(s.post.Type).NoIndex {
		v.Assess.Set(assessPostType, fmt.Sprintf(d.postTypeTmpl, s.post.Type))
	}

	// An explicit per-page override supersedes the generic signals.
	if s.post.Meta.NoIndex.Set() {
		v.Assess.Delete(assessPostType, assessHomepage, assessSite)
		if s.post.Meta.NoIndex == content.QubitOn {
			v.Assess.Set(assessOverride, d.overrideOnMsg)
		} else {
			v.Assess.Set(assessOverride, d.overrideOffMsg)
		}
	}

	if c := s.post.Meta.Canonical; c != "" && c != s.post.URL {
		v.Status = StatusUnknown
		v.Reason = ReasonCanonicalURL
		v.Assess.Set(assessCanonical, d.canonicalMsg)
	}

	return v
}

// ---------------------------------------------------------------------------
// Following
// ---------------------------------------------------------------------------

func (b *PageBuilder) followDefaults() *robotsDefaults {
	return memo(b.deps.Cache, keyPageFollowDefaults, func() *robotsDefaults {
		return &robotsDefaults{
			notPublicMsg:   "The site blocks all search engines via its visibility settings.",
			allowedBase:    "Links on the page may be followed by crawlers.",
			blockedBase:    "Links on the page will likely not be followed.",
			siteMsg:        "Following links is discouraged for the whole site.",
			homepageMsg:    "Following links is discouraged via the homepage SEO settings.",
			postTypeTmpl:   "Following links is discouraged for all content of type %q.",
			overrideOnMsg:  "The page is explicitly set not to have its links followed.",
			overrideOffMsg: "The page is explicitly set to have its links followed.",
			noIndexHintMsg: "The page is not indexed; crawlers may also skip its links.",
			robotsTxtMsg:   "A custom robots.txt file exists; it may overrule these directives.",
		}
	})
}

func (b *PageBuilder) testFollowing(s *pageSubject) Verdict {
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
	if s.isHome && b.deps.Config.Homepage.NoFollow {
		v.Assess.Set(assessHomepage, d.homepageMsg)
	}
	if b.deps.Config.Robots.ForPostType(s.post.Type).NoFollow {
		v.Assess.Set(assessPostType, fmt.Sprintf(d.postTypeTmpl, s.post.Type))
	}

	if s.post.Meta.NoFollow.Set() {
		v.Assess.Delete(assessPostType, assessHomepage, assessSite)
		if s.post.Meta.NoFollow == content.QubitOn {
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

// ---------------------------------------------------------------------------
// Archiving
// ---------------------------------------------------------------------------

func (b *PageBuilder) archiveDefaults() *robotsDefaults {
	return memo(b.deps.Cache, keyPageArchiveDefaults, func() *robotsDefaults {
		return &robotsDefaults{
			notPublicMsg:   "The site blocks all search engines via its visibility settings.",
			allowedBase:    "Search engines may store a cached copy of the page.",
			blockedBase:    "Search engines will likely not store a cached copy.",
			siteMsg:        "Archiving is discouraged for the whole site.",
			homepageMsg:    "Archiving is discouraged via the homepage SEO settings.",
			postTypeTmpl:   "Archiving is discouraged for all content of type %q.",
			overrideOnMsg:  "The page is explicitly set not to be archived.",
			overrideOffMsg: "The page is explicitly set to be archived.",
			noIndexHintMsg: "The page is not indexed; crawlers may also skip archiving it.",
			robotsTxtMsg:   "A custom robots.txt file exists; it may overrule these directives.",
		}
	})
}

func (b *PageBuilder) testArchiving(s *pageSubject) Verdict {
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
	if s.isHome && b.deps.Config.Homepage.NoArchive {
		v.Assess.Set(assessHomepage, d.homepageMsg)
	}
	if b.deps.Config.Robots.ForPostType(s.post.Type).NoArchive {
		v.Assess.Set(assessPostType, fmt.Sprintf(d.postTypeTmpl, s.post.Type))
	}

	if s.post.Meta.NoArchive.Set() {
		v.Assess.Delete(assessPostType, assessHomepage, assessSite)
		if s.post.Meta.NoArchive == content.QubitOn {
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

// ---------------------------------------------------------------------------
// Redirect
// ---------------------------------------------------------------------------

type redirectDefaults struct {
	noneMsg      string
	noneDraftMsg string
	targetTmpl   string
}

func (b *PageBuilder) redirectDefaults() *redirectDefaults {
	return memo(b.deps.Cache, keyPageRedirectDefaults, func() *redirectDefaults {
		return &redirectDefaults{
			noneMsg:      "The page does not redirect visitors, so search engines may index it.",
			noneDraftMsg: "The page does not redirect visitors; note that it is not published yet.",
			targetTmpl:   "All visitors and crawlers are sent to %s; other SEO signals do not apply.",
		}
	})
}

func (b *PageBuilder) testRedirect(s *pageSubject) Verdict {
	d := b.redirectDefaults()

	v := Verdict{Symbol: symbolRedirect, Title: labelRedirect, Assess: NewAssess()}

	target := s.post.Meta.Redirect
	if target == "" {
		v.Status = StatusGood
		v.Reason = ReasonNoRedirect
		if s.post.IsDraft() {
			v.Assess.Set(assessRedirect, d.noneDraftMsg)
		} else {
			v.Assess.Set(assessRedirect, d.noneMsg)
		}
		return v
	}

	v.Status = StatusUnknown
	v.Reason = ReasonRedirects
	v.Assess.Set(assessRedirect, fmt.Sprintf(d.targetTmpl, target))
	v.Blocking = true
	return v
}
