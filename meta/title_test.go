package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
)

func testConfig(mutate func(*config.Config)) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Site.Name = "My Site"
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

func TestCustomTitle(t *testing.T) {
	g := NewGenerator(testConfig(func(c *config.Config) {
		c.Homepage.PostID = 9
		c.Homepage.Title = "Welcome Home"
	}))

	assert.Equal(t, "Stored", g.CustomTitle(&content.Post{ID: 1, Meta: content.Meta{Title: "  Stored "}}))
	assert.Equal(t, "", g.CustomTitle(&content.Post{ID: 1}))
	// Homepage settings title wins over post meta on the homepage.
	assert.Equal(t, "Welcome Home", g.CustomTitle(&content.Post{ID: 9, Meta: content.Meta{Title: "Ignored"}}))
}

func TestGeneratedTitle(t *testing.T) {
	g := NewGenerator(testConfig(nil))

	assert.Equal(t, "Hello World", g.GeneratedTitle(&content.Post{Title: "Hello World"}))
	assert.Equal(t, "", g.GeneratedTitle(&content.Post{Title: "   "}))
	assert.Equal(t, "Protected: Secrets",
		g.GeneratedTitle(&content.Post{Title: "Secrets", Visibility: content.VisibilityProtected}))
	assert.Equal(t, "Private: Notes",
		g.GeneratedTitle(&content.Post{Title: "Notes", Visibility: content.VisibilityPrivate}))
}

func TestBranded(t *testing.T) {
	t.Run("adds brand on the right", func(t *testing.T) {
		g := NewGenerator(testConfig(nil))
		assert.Equal(t, "Hello – My Site", g.Branded("Hello"))
	})

	t.Run("adds brand on the left", func(t *testing.T) {
		g := NewGenerator(testConfig(func(c *config.Config) {
			c.Meta.BrandPosition = config.BrandLeft
		}))
		assert.Equal(t, "My Site – Hello", g.Branded("Hello"))
	})

	t.Run("already branded stays unchanged", func(t *testing.T) {
		g := NewGenerator(testConfig(nil))
		assert.Equal(t, "Hello from My Site", g.Branded("Hello from My Site"))
		// Case and punctuation variance still counts as branded.
		assert.Equal(t, "hello from my-site!", g.Branded("hello from my-site!"))
	})

	t.Run("disabled branding", func(t *testing.T) {
		off := false
		g := NewGenerator(testConfig(func(c *config.Config) {
			c.Meta.AutoBranding = &off
		}))
		assert.Equal(t, "Hello", g.Branded("Hello"))
	})

	t.Run("no brand configured", func(t *testing.T) {
		g := NewGenerator(testConfig(func(c *config.Config) {
			c.Site.Name = ""
		}))
		assert.Equal(t, "Hello", g.Branded("Hello"))
	})
}

func TestTitleFallbacks(t *testing.T) {
	g := NewGenerator(testConfig(nil))

	assert.Equal(t, "Untitled – My Site", g.Title(&content.Post{ID: 1}))
	assert.Equal(t, "Post – My Site", g.Title(&content.Post{ID: 1, Title: "Post"}))
	assert.Equal(t, "Custom – My Site", g.Title(&content.Post{ID: 1, Title: "Post", Meta: content.Meta{Title: "Custom"}}))
}

func TestHomeTitle(t *testing.T) {
	t.Run("explicit settings title", func(t *testing.T) {
		g := NewGenerator(testConfig(func(c *config.Config) {
			c.Homepage.Title = "Front Page"
		}))
		assert.Equal(t, "Front Page", g.HomeTitle())
	})

	t.Run("name with tagline", func(t *testing.T) {
		g := NewGenerator(testConfig(func(c *config.Config) {
			c.Site.Tagline = "All the news"
		}))
		assert.Equal(t, "My Site – All the news", g.HomeTitle())
	})

	t.Run("bare name", func(t *testing.T) {
		g := NewGenerator(testConfig(nil))
		assert.Equal(t, "My Site", g.HomeTitle())
	})
}

func TestTermTitles(t *testing.T) {
	g := NewGenerator(testConfig(nil))

	term := &content.Term{ID: 1, Taxonomy: "category", Name: "News"}
	assert.Equal(t, "", g.TermCustomTitle(term))
	assert.Equal(t, "News", g.TermGeneratedTitle(term))

	term.Meta.Title = "All News"
	assert.Equal(t, "All News", g.TermCustomTitle(term))
}
