// Package config provides configuration loading and management for the
// SEO toolkit: site identity, robots policy, metadata generation
// settings, and audit/service wiring.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete toolkit configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Homepage HomepageConfig `yaml:"homepage"`
	Robots   RobotsConfig   `yaml:"robots"`
	Meta     MetaConfig     `yaml:"meta"`
	Audit    AuditConfig    `yaml:"audit"`
	NATS     NATSConfig     `yaml:"nats"`
}

// SiteConfig describes the audited site.
type SiteConfig struct {
	// Name is the site brand name used for title branding and
	// duplicate-brand detection.
	Name string `yaml:"name"`
	// Tagline is appended to the homepage title.
	Tagline string `yaml:"tagline"`
	// URL is the site root URL.
	URL string `yaml:"url"`
	// Locale is the site locale, e.g. "en_US" or "ja_JP".
	Locale string `yaml:"locale"`
	// Public reports whether the site asks to be indexed at all.
	// nil means true.
	Public *bool `yaml:"public"`
	// HasRobotsTxt marks a nonstandard robots.txt at the site root,
	// which may override the directives this toolkit emits.
	HasRobotsTxt bool `yaml:"has_robots_txt"`
}

// IsPublic resolves the Public flag, defaulting to true.
func (s SiteConfig) IsPublic() bool {
	return s.Public == nil || *s.Public
}

// HomepageConfig holds homepage-specific metadata settings. These win
// over the homepage post's own meta.
type HomepageConfig struct {
	// PostID identifies which post is the static homepage (0 = none).
	PostID int64 `yaml:"post_id"`
	// Title overrides the homepage title when set.
	Title string `yaml:"title"`
	// Description overrides the homepage description when set.
	Description string `yaml:"description"`
	NoIndex     bool   `yaml:"noindex"`
	NoFollow    bool   `yaml:"nofollow"`
	NoArchive   bool   `yaml:"noarchive"`
}

// Directives is one noindex/nofollow/noarchive flag set.
type Directives struct {
	NoIndex   bool `yaml:"noindex"`
	NoFollow  bool `yaml:"nofollow"`
	NoArchive bool `yaml:"noarchive"`
}

// RobotsConfig holds the site-wide robots policy.
type RobotsConfig struct {
	// Site applies to every item on the site.
	Site Directives `yaml:"site"`
	// PostTypes applies per post type, keyed by type name.
	PostTypes map[string]Directives `yaml:"post_types"`
	// Taxonomies applies per taxonomy, keyed by taxonomy name.
	Taxonomies map[string]Directives `yaml:"taxonomies"`
}

// ForPostType returns the directives configured for a post type.
func (r RobotsConfig) ForPostType(name string) Directives {
	return r.PostTypes[name]
}

// ForTaxonomy returns the directives configured for a taxonomy.
func (r RobotsConfig) ForTaxonomy(name string) Directives {
	return r.Taxonomies[name]
}

// BrandPosition is where automatic branding attaches to a title.
type BrandPosition string

const (
	BrandLeft  BrandPosition = "left"
	BrandRight BrandPosition = "right"
)

// MetaConfig configures metadata generation.
type MetaConfig struct {
	// TitleSeparator sits between the title and the brand name.
	TitleSeparator string `yaml:"title_separator"`
	// BrandPosition selects which side the brand is added on.
	BrandPosition BrandPosition `yaml:"brand_position"`
	// AutoBranding adds the site name to generated titles. nil means true.
	AutoBranding *bool `yaml:"auto_branding"`
	// AutoDescription generates descriptions from content when no
	// custom description is set. nil means true.
	AutoDescription *bool `yaml:"auto_description"`
	// MinWordLength is the shortest word counted by the repeated-word
	// check (0 = default).
	MinWordLength int `yaml:"min_word_length"`
}

// AutoBrandingEnabled resolves the AutoBranding flag, defaulting to true.
func (m MetaConfig) AutoBrandingEnabled() bool {
	return m.AutoBranding == nil || *m.AutoBranding
}

// AutoDescriptionEnabled resolves the AutoDescription flag, defaulting
// to true.
func (m MetaConfig) AutoDescriptionEnabled() bool {
	return m.AutoDescription == nil || *m.AutoDescription
}

// AuditConfig configures the audit CLI.
type AuditConfig struct {
	// ContentDir is the directory holding content fixtures.
	ContentDir string `yaml:"content_dir"`
	// Include lists doublestar glob patterns selecting fixture files.
	Include []string `yaml:"include"`
	// Exclude lists doublestar glob patterns to skip.
	Exclude []string `yaml:"exclude"`
	// Tests restricts which SEO Bar tests run (empty = all).
	Tests []string `yaml:"tests"`
}

// NATSConfig configures the NATS connection for the assessor service.
type NATSConfig struct {
	// URL is the NATS server URL (empty = use embedded server).
	URL string `yaml:"url"`
	// Embedded indicates whether to run an embedded NATS server.
	Embedded bool `yaml:"embedded"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Name:   "",
			Locale: "en_US",
		},
		Meta: MetaConfig{
			TitleSeparator: "–",
			BrandPosition:  BrandRight,
			MinWordLength:  3,
		},
		Audit: AuditConfig{
			ContentDir: "content",
			Include:    []string{"**/*.yaml", "**/*.yml"},
			Exclude:    []string{"**/.*/**"},
		},
		NATS: NATSConfig{
			URL:      "",
			Embedded: true,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Site.Locale == "" {
		return fmt.Errorf("site.locale is required")
	}
	if c.Meta.TitleSeparator == "" {
		return fmt.Errorf("meta.title_separator is required")
	}
	switch c.Meta.BrandPosition {
	case BrandLeft, BrandRight:
	default:
		return fmt.Errorf("meta.brand_position must be %q or %q", BrandLeft, BrandRight)
	}
	if c.Meta.MinWordLength < 0 {
		return fmt.Errorf("meta.min_word_length must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence
// for set values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Site
	if other.Site.Name != "" {
		c.Site.Name = other.Site.Name
	}
	if other.Site.Tagline != "" {
		c.Site.Tagline = other.Site.Tagline
	}
	if other.Site.URL != "" {
		c.Site.URL = other.Site.URL
	}
	if other.Site.Locale != "" {
		c.Site.Locale = other.Site.Locale
	}
	if other.Site.Public != nil {
		c.Site.Public = other.Site.Public
	}
	if other.Site.HasRobotsTxt {
		c.Site.HasRobotsTxt = true
	}

	// Homepage
	if other.Homepage.PostID != 0 {
		c.Homepage.PostID = other.Homepage.PostID
	}
	if other.Homepage.Title != "" {
		c.Homepage.Title = other.Homepage.Title
	}
	if other.Homepage.Description != "" {
		c.Homepage.Description = other.Homepage.Description
	}
	if other.Homepage.NoIndex {
		c.Homepage.NoIndex = true
	}
	if other.Homepage.NoFollow {
		c.Homepage.NoFollow = true
	}
	if other.Homepage.NoArchive {
		c.Homepage.NoArchive = true
	}

	// Robots
	if other.Robots.Site != (Directives{}) {
		c.Robots.Site = other.Robots.Site
	}
	if len(other.Robots.PostTypes) > 0 {
		c.Robots.PostTypes = other.Robots.PostTypes
	}
	if len(other.Robots.Taxonomies) > 0 {
		c.Robots.Taxonomies = other.Robots.Taxonomies
	}

	// Meta
	if other.Meta.TitleSeparator != "" {
		c.Meta.TitleSeparator = other.Meta.TitleSeparator
	}
	if other.Meta.BrandPosition != "" {
		c.Meta.BrandPosition = other.Meta.BrandPosition
	}
	if other.Meta.AutoBranding != nil {
		c.Meta.AutoBranding = other.Meta.AutoBranding
	}
	if other.Meta.AutoDescription != nil {
		c.Meta.AutoDescription = other.Meta.AutoDescription
	}
	if other.Meta.MinWordLength != 0 {
		c.Meta.MinWordLength = other.Meta.MinWordLength
	}

	// Audit
	if other.Audit.ContentDir != "" {
		c.Audit.ContentDir = other.Audit.ContentDir
	}
	if len(other.Audit.Include) > 0 {
		c.Audit.Include = other.Audit.Include
	}
	if len(other.Audit.Exclude) > 0 {
		c.Audit.Exclude = other.Audit.Exclude
	}
	if len(other.Audit.Tests) > 0 {
		c.Audit.Tests = other.Audit.Tests
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
		c.NATS.Embedded = false
	}
}
