// Package content defines the content data model the SEO toolkit
// operates on: posts, taxonomy terms, their stored SEO meta, and the
// tri-state override type used by robots directives.
package content

// Qubit is a tri-state override value as stored in item meta:
// 0 inherits the site-wide setting, -1 forces the behavior off,
// 1 forces it on.
type Qubit int8

const (
	// QubitInherit leaves the decision to site-wide settings.
	QubitInherit Qubit = 0
	// QubitOff explicitly disables the behavior for this item.
	QubitOff Qubit = -1
	// QubitOn explicitly enables the behavior for this item.
	QubitOn Qubit = 1
)

// Set reports whether the qubit was explicitly set in either direction.
func (q Qubit) Set() bool { return q != QubitInherit }

// Enabled resolves the qubit against an inherited default.
func (q Qubit) Enabled(inherited bool) bool {
	switch q {
	case QubitOn:
		return true
	case QubitOff:
		return false
	default:
		return inherited
	}
}

// RobotsMeta holds the resolved, effective robots directives for one
// item after all site-wide and per-item logic has been applied.
type RobotsMeta struct {
	NoIndex   bool `json:"noindex"`
	NoFollow  bool `json:"nofollow"`
	NoArchive bool `json:"noarchive"`
}

// Meta holds the SEO fields stored on a post or term. Empty strings
// mean "no custom value"; the generators take over.
type Meta struct {
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Canonical   string `yaml:"canonical,omitempty" json:"canonical,omitempty"`
	Redirect    string `yaml:"redirect,omitempty" json:"redirect,omitempty"`
	NoIndex     Qubit  `yaml:"noindex,omitempty" json:"noindex,omitempty"`
	NoFollow    Qubit  `yaml:"nofollow,omitempty" json:"nofollow,omitempty"`
	NoArchive   Qubit  `yaml:"noarchive,omitempty" json:"noarchive,omitempty"`
}

// Status is the publication status of a post.
type Status string

const (
	StatusPublish Status = "publish"
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusFuture  Status = "future"
)

// Visibility is the read-access level of a published post.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// Post is a singular content item (post, page, or custom type).
type Post struct {
	ID         int64      `yaml:"id" json:"id"`
	Type       string     `yaml:"type" json:"type"`
	Title      string     `yaml:"title" json:"title"`
	Excerpt    string     `yaml:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content    string     `yaml:"content,omitempty" json:"content,omitempty"`
	URL        string     `yaml:"url,omitempty" json:"url,omitempty"`
	Status     Status     `yaml:"status" json:"status"`
	Visibility Visibility `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	// UsesBuilder marks content assembled by a page builder; its body
	// is not usable as a description source.
	UsesBuilder bool `yaml:"uses_builder,omitempty" json:"uses_builder,omitempty"`
	Meta        Meta `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// IsDraft reports whether the post is unpublished in any form.
func (p *Post) IsDraft() bool {
	switch p.Status {
	case StatusDraft, StatusPending, StatusFuture:
		return true
	}
	return false
}

// IsProtected reports whether the post requires a password or login
// to read.
func (p *Post) IsProtected() bool {
	return p.Visibility == VisibilityProtected || p.Visibility == VisibilityPrivate
}

// Term is a taxonomy archive (category, tag, or custom taxonomy).
type Term struct {
	ID          int64  `yaml:"id" json:"id"`
	Taxonomy    string `yaml:"taxonomy" json:"taxonomy"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string `yaml:"url,omitempty" json:"url,omitempty"`
	// Count is the number of published posts assigned to the term.
	Count int  `yaml:"count" json:"count"`
	Meta  Meta `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// IsEmpty reports whether no published posts populate the term.
func (t *Term) IsEmpty() bool { return t.Count == 0 }
