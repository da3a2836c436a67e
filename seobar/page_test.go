package seobar_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/seobar"
)

// goodPost returns a publish-state post whose title and description
// both land in the recommended length bands.
func goodPost(id int64) *content.Post {
	return &content.Post{
		ID:     id,
		Type:   "post",
		Title:  "Ignored",
		URL:    "https://acme.example/p/1",
		Status: content.StatusPublish,
		Meta: content.Meta{
			// 48 characters after normalization, brand included once.
			Title: "Acme " + strings.Repeat("x", 43),
			// 100 characters, no repeated words.
			Description: strings.Repeat("d", 100),
		},
	}
}

func TestPageTitle(t *testing.T) {
	t.Run("custom title in range", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestTitle)
		v := out[seobar.TestTitle]

		assert.Equal(t, "T", v.Symbol)
		assert.Equal(t, seobar.StatusGood, v.Status)
		assert.Equal(t, seobar.ReasonTitleCustom, v.Reason)
		assert.True(t, v.Assess.Has("base"))
		assert.True(t, v.Assess.Has("length"))
	})

	t.Run("unprocessed syntax fails fast", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Title = "Acme launch [gallery id=3] overview"
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestTitle)
		v := out[seobar.TestTitle]

		assert.Equal(t, seobar.StatusBad, v.Status)
		assert.Equal(t, seobar.ReasonTitleSyntax, v.Reason)
		assert.True(t, v.Assess.Has("syntax"))
		assert.False(t, v.Assess.Has("length"))
	})

	t.Run("nothing to generate from", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Title = ""
		p.Meta.Title = ""
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestTitle)
		v := out[seobar.TestTitle]

		assert.Equal(t, "TG", v.Symbol)
		assert.Equal(t, seobar.StatusBad, v.Status)
		assert.Equal(t, seobar.ReasonTitleIncomplete, v.Reason)
		assert.True(t, v.Assess.Has("empty"))
		assert.False(t, v.Assess.Has("length"))
	})

	t.Run("placeholder title", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Title = "untitled"
		p.Meta.Title = ""
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestTitle)
		v := out[seobar.TestTitle]

		assert.Equal(t, seobar.StatusBad, v.Status)
		assert.Equal(t, seobar.ReasonTitleUntitled, v.Reason)
		assert.True(t, v.Assess.Has("untitled"))
	})

	t.Run("protection prefix is noted", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Title = "Internal migration playbook"
		p.Meta.Title = ""
		p.Visibility = content.VisibilityProtected
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestTitle)
		v := out[seobar.TestTitle]

		assert.Equal(t, "TG", v.Symbol)
		assert.True(t, v.Assess.Has("protected"))
		assert.True(t, v.Assess.Has("branding"))
	})

	t.Run("missing brand downgrades to unknown", func(t *testing.T) {
		h := newHarness()
		h.cfg.Meta.AutoBranding = boolPtr(false)
		p := goodPost(1)
		p.Meta.Title = strings.Repeat("z", 40)
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestTitle)
		v := out[seobar.TestTitle]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonTitleNotBranded, v.Reason)
		assert.True(t, v.Assess.Has("notbranded"))
		// The length measurement still runs on unbranded titles.
		assert.True(t, v.Assess.Has("length"))
	})

	t.Run("duplicated brand fails fast", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Title = "Acme tools built by Acme for builders"
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestTitle)
		v := out[seobar.TestTitle]

		assert.Equal(t, seobar.StatusBad, v.Status)
		assert.Equal(t, seobar.ReasonTitleBrandDuplicated, v.Reason)
		assert.True(t, v.Assess.Has("duplicated"))
		assert.False(t, v.Assess.Has("length"))
	})

	t.Run("automatic branding is noted", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Title = "A fairly descriptive article headline here"
		p.Meta.Title = ""
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestTitle)
		v := out[seobar.TestTitle]

		assert.True(t, v.Assess.Has("branding"))
		assert.NotEqual(t, seobar.ReasonTitleNotBranded, v.Reason)
	})
}

func TestPageTitleLengthBoundaries(t *testing.T) {
	// Titles are "Acme " plus filler, measuring exactly n characters
	// after normalization. Base thresholds: 25 / 35 / 65 / 75.
	cases := []struct {
		n      int
		status seobar.Status
		reason string
	}{
		{24, seobar.StatusBad, seobar.ReasonTitleFarTooShort},
		{25, seobar.StatusOkay, seobar.ReasonTitleTooShort},
		{34, seobar.StatusOkay, seobar.ReasonTitleTooShort},
		{35, seobar.StatusGood, seobar.ReasonTitleCustom},
		{65, seobar.StatusGood, seobar.ReasonTitleCustom},
		{66, seobar.StatusOkay, seobar.ReasonTitleTooLong},
		{75, seobar.StatusOkay, seobar.ReasonTitleTooLong},
		{76, seobar.StatusBad, seobar.ReasonTitleFarTooLong},
	}
	for _, tc := range cases {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Title = "Acme " + strings.Repeat("x", tc.n-5)
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestTitle)
		v := out[seobar.TestTitle]

		assert.Equal(t, tc.status, v.Status, "n=%d", tc.n)
		assert.Equal(t, tc.reason, v.Reason, "n=%d", tc.n)
	}
}

func TestPageDescription(t *testing.T) {
	t.Run("custom description in range", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, "D", v.Symbol)
		assert.Equal(t, seobar.StatusGood, v.Status)
		assert.Equal(t, seobar.ReasonDescriptionCustom, v.Reason)
		assert.True(t, v.Assess.Has("length"))
	})

	t.Run("generation disabled", func(t *testing.T) {
		h := newHarness()
		h.cfg.Meta.AutoDescription = boolPtr(false)
		p := goodPost(1)
		p.Meta.Description = ""
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonDescriptionEmptyNoAuto, v.Reason)
	})

	t.Run("page builder content is unusable", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Description = ""
		p.UsesBuilder = true
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonDescriptionEmpty, v.Reason)
		msg, ok := v.Assess.Get("empty")
		require.True(t, ok)
		assert.Contains(t, msg, "page builder")
	})

	t.Run("protected content is skipped", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Description = ""
		p.Content = "<p>Members only.</p>"
		p.Visibility = content.VisibilityProtected
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonDescriptionEmpty, v.Reason)
		msg, ok := v.Assess.Get("empty")
		require.True(t, ok)
		assert.Contains(t, msg, "protected")
	})

	t.Run("excerpt source is noted", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Description = ""
		p.Excerpt = "A hands-on walkthrough of the Acme runtime without repeating any single notable phrase twice anywhere."
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, "DG", v.Symbol)
		assert.True(t, v.Assess.Has("source"))
	})

	t.Run("single repeated word is tolerated", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Description = "Our coffee explainer walks beginners through grinding, brewing coffee, and tasting, with simple tips for better mornings at home."
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, seobar.StatusOkay, v.Status)
		assert.Equal(t, seobar.ReasonDescriptionFoundDupe, v.Reason)
		assert.True(t, v.Assess.Has("dupe"))
		assert.True(t, v.Assess.Has("length"))
	})

	t.Run("several repeated words fail fast", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Description = "Great coffee tips and more great coffee tips for everyone."
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, seobar.StatusBad, v.Status)
		assert.Equal(t, seobar.ReasonDescriptionFoundManyDupe, v.Reason)
		assert.False(t, v.Assess.Has("length"))
	})

	t.Run("excessive single-word repetition fails fast", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Description = "Coffee, coffee, coffee, and then some coffee for good measure."
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, seobar.StatusBad, v.Status)
		assert.Equal(t, seobar.ReasonDescriptionFoundManyDupe, v.Reason)
	})

	t.Run("homepage description wins", func(t *testing.T) {
		h := newHarness()
		h.cfg.Homepage.PostID = 1
		h.cfg.Homepage.Description = strings.Repeat("h", 100)
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, "D", v.Symbol)
		assert.True(t, v.Assess.Has("homepage"))
	})
}

func TestPageDescriptionLengthBoundaries(t *testing.T) {
	// Base thresholds: 45 / 80 / 160 / 320.
	cases := []struct {
		n      int
		status seobar.Status
		reason string
	}{
		{44, seobar.StatusBad, seobar.ReasonDescriptionFarTooShort},
		{45, seobar.StatusOkay, seobar.ReasonDescriptionTooShort},
		{80, seobar.StatusGood, seobar.ReasonDescriptionCustom},
		{160, seobar.StatusGood, seobar.ReasonDescriptionCustom},
		{161, seobar.StatusOkay, seobar.ReasonDescriptionTooLong},
		{321, seobar.StatusBad, seobar.ReasonDescriptionFarTooLong},
	}
	for _, tc := range cases {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Description = strings.Repeat("d", tc.n)
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestDescription)
		v := out[seobar.TestDescription]

		assert.Equal(t, tc.status, v.Status, "n=%d", tc.n)
		assert.Equal(t, tc.reason, v.Reason, "n=%d", tc.n)
	}
}

func TestPageIndexing(t *testing.T) {
	t.Run("indexable post", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestIndexing)
		v := out[seobar.TestIndexing]

		assert.Equal(t, "I", v.Symbol)
		assert.Equal(t, seobar.StatusGood, v.Status)
		assert.Equal(t, seobar.ReasonIndexAllowed, v.Reason)
	})

	t.Run("site not public", func(t *testing.T) {
		h := newHarness()
		h.cfg.Site.Public = boolPtr(false)
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestIndexing)
		v := out[seobar.TestIndexing]

		assert.Equal(t, "!!!", v.Symbol)
		assert.Equal(t, seobar.StatusBad, v.Status)
		assert.Equal(t, seobar.ReasonNotPublic, v.Reason)
		assert.False(t, v.Assess.Has("base"))
	})

	t.Run("draft", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Status = content.StatusDraft
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestIndexing)
		v := out[seobar.TestIndexing]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonIndexDraft, v.Reason)
		assert.True(t, v.Assess.Has("draft"))
	})

	t.Run("private post", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Visibility = content.VisibilityPrivate
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestIndexing)
		v := out[seobar.TestIndexing]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonIndexProtected, v.Reason)
	})

	t.Run("post type policy is noted", func(t *testing.T) {
		h := newHarness()
		h.cfg.Robots.PostTypes = map[string]config.Directives{
			"post": {NoIndex: true},
		}
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestIndexing)
		v := out[seobar.TestIndexing]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonIndexBlocked, v.Reason)
		assert.True(t, v.Assess.Has("posttype"))
	})

	t.Run("explicit override supersedes generic signals", func(t *testing.T) {
		h := newHarness()
		h.cfg.Robots.Site.NoIndex = true
		h.cfg.Robots.PostTypes = map[string]config.Directives{
			"post": {NoIndex: true},
		}
		p := goodPost(1)
		p.Meta.NoIndex = content.QubitOff
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestIndexing)
		v := out[seobar.TestIndexing]

		assert.Equal(t, seobar.StatusGood, v.Status)
		assert.True(t, v.Assess.Has("override"))
		assert.False(t, v.Assess.Has("posttype"))
		assert.False(t, v.Assess.Has("site"))
		assert.False(t, v.Assess.Has("homepage"))
	})

	t.Run("homepage policy is noted", func(t *testing.T) {
		h := newHarness()
		h.cfg.Homepage.PostID = 1
		h.cfg.Homepage.NoIndex = true
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestIndexing)
		v := out[seobar.TestIndexing]

		assert.True(t, v.Assess.Has("homepage"))
	})

	t.Run("foreign canonical URL", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Canonical = "https://elsewhere.example/canonical"
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestIndexing)
		v := out[seobar.TestIndexing]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonCanonicalURL, v.Reason)
		assert.True(t, v.Assess.Has("canonicalurl"))
	})
}

func TestPageFollowingAndArchiving(t *testing.T) {
	t.Run("defaults are good", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestFollowing, seobar.TestArchiving)

		assert.Equal(t, seobar.ReasonFollowAllowed, out[seobar.TestFollowing].Reason)
		assert.Equal(t, seobar.ReasonArchiveAllowed, out[seobar.TestArchiving].Reason)
	})

	t.Run("site not public", func(t *testing.T) {
		h := newHarness()
		h.cfg.Site.Public = boolPtr(false)
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestFollowing, seobar.TestArchiving)

		for _, name := range []string{seobar.TestFollowing, seobar.TestArchiving} {
			v := out[name]
			assert.Equal(t, "!!!", v.Symbol, name)
			assert.Equal(t, seobar.StatusBad, v.Status, name)
			assert.Equal(t, seobar.ReasonNotPublic, v.Reason, name)
			assert.False(t, v.Assess.Has("base"), name)
		}
	})

	t.Run("robots txt hint", func(t *testing.T) {
		h := newHarness()
		h.cfg.Site.HasRobotsTxt = true
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestFollowing, seobar.TestArchiving)

		assert.True(t, out[seobar.TestFollowing].Assess.Has("robotstxt"))
		assert.True(t, out[seobar.TestArchiving].Assess.Has("robotstxt"))
	})

	t.Run("noindex hint on followable page", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.NoIndex = content.QubitOn
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestFollowing)
		v := out[seobar.TestFollowing]

		assert.Equal(t, seobar.StatusGood, v.Status)
		assert.True(t, v.Assess.Has("noindex"))
	})

	t.Run("explicit nofollow", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.NoFollow = content.QubitOn
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestFollowing)
		v := out[seobar.TestFollowing]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonFollowBlocked, v.Reason)
		assert.True(t, v.Assess.Has("override"))
		assert.False(t, v.Assess.Has("noindex"))
	})

	t.Run("explicit noarchive", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.NoArchive = content.QubitOn
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestArchiving)
		v := out[seobar.TestArchiving]

		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonArchiveBlocked, v.Reason)
		assert.True(t, v.Assess.Has("override"))
	})
}

func TestPageRedirect(t *testing.T) {
	t.Run("no redirect", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, _ := h.runPage(t, 1, seobar.TestRedirect)
		v := out[seobar.TestRedirect]

		assert.Equal(t, "R", v.Symbol)
		assert.Equal(t, seobar.StatusGood, v.Status)
		assert.Equal(t, seobar.ReasonNoRedirect, v.Reason)
		assert.False(t, v.Blocking)
	})

	t.Run("no redirect on a draft", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Status = content.StatusDraft
		require.NoError(t, h.store.PutPost(p))

		out, _ := h.runPage(t, 1, seobar.TestRedirect)
		msg, ok := out[seobar.TestRedirect].Assess.Get("redirect")
		require.True(t, ok)
		assert.Contains(t, msg, "not published")
	})

	t.Run("redirect blocks every other test", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Redirect = "https://acme.example/moved"
		require.NoError(t, h.store.PutPost(p))

		out, order := h.runPage(t, 1)

		require.Equal(t, []string{seobar.TestRedirect}, order)
		v := out[seobar.TestRedirect]
		assert.Equal(t, seobar.StatusUnknown, v.Status)
		assert.Equal(t, seobar.ReasonRedirects, v.Reason)
		assert.True(t, v.Blocking)
	})

	t.Run("redirect not requested does not block", func(t *testing.T) {
		h := newHarness()
		p := goodPost(1)
		p.Meta.Redirect = "https://acme.example/moved"
		require.NoError(t, h.store.PutPost(p))

		_, order := h.runPage(t, 1, seobar.TestTitle, seobar.TestIndexing)

		assert.Equal(t, []string{seobar.TestTitle, seobar.TestIndexing}, order)
	})
}
