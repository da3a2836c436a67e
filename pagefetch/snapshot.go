package pagefetch

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/sybrew/the-seo-framework/content"
)

// PageSnapshot is the SEO-relevant head state of a fetched page.
type PageSnapshot struct {
	URL             string   `json:"url"`
	TitleTag        string   `json:"title_tag"`
	MetaDescription string   `json:"meta_description"`
	Canonical       string   `json:"canonical"`
	RobotsTokens    []string `json:"robots_tokens"`
}

// Snapshot parses the page head: the title tag, the description meta,
// the robots meta tokens, and the canonical link.
func Snapshot(pageURL string, body []byte) (*PageSnapshot, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	snap := &PageSnapshot{URL: pageURL}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if snap.TitleTag == "" && n.FirstChild != nil {
					snap.TitleTag = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name := strings.ToLower(attr(n, "name"))
				switch name {
				case "description":
					snap.MetaDescription = strings.TrimSpace(attr(n, "content"))
				case "robots":
					for _, tok := range strings.Split(attr(n, "content"), ",") {
						if tok = strings.ToLower(strings.TrimSpace(tok)); tok != "" {
							snap.RobotsTokens = append(snap.RobotsTokens, tok)
						}
					}
				}
			case "link":
				if strings.EqualFold(attr(n, "rel"), "canonical") {
					snap.Canonical = strings.TrimSpace(attr(n, "href"))
				}
			case "body":
				// Head parsing only; the body is readability's job.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return snap, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// Robots maps the robots meta tokens onto explicit directives. A token
// that is present maps to a forced-on qubit; absent tokens inherit.
func (s *PageSnapshot) Robots() (noindex, nofollow, noarchive content.Qubit) {
	for _, tok := range s.RobotsTokens {
		switch tok {
		case "noindex", "none":
			noindex = content.QubitOn
		case "nofollow":
			nofollow = content.QubitOn
		case "noarchive":
			noarchive = content.QubitOn
		}
		if tok == "none" {
			nofollow = content.QubitOn
		}
	}
	return noindex, nofollow, noarchive
}

// BuildPost assembles an auditable post from a fetched page. Requested
// and final URL differing means the page redirects, which the redirect
// test then reports.
func BuildPost(id int64, requestedURL string, res *FetchResult) (*content.Post, error) {
	snap, err := Snapshot(requestedURL, res.Body)
	if err != nil {
		return nil, err
	}

	p := &content.Post{
		ID:     id,
		Type:   "page",
		Title:  snap.TitleTag,
		URL:    requestedURL,
		Status: content.StatusPublish,
		Meta: content.Meta{
			Title:       snap.TitleTag,
			Description: snap.MetaDescription,
			Canonical:   snap.Canonical,
		},
	}
	p.Meta.NoIndex, p.Meta.NoFollow, p.Meta.NoArchive = snap.Robots()

	if res.FinalURL != "" && !sameURL(res.FinalURL, requestedURL) {
		p.Meta.Redirect = res.FinalURL
	}

	if parsed, err := url.Parse(requestedURL); err == nil {
		if article, err := readability.FromReader(bytes.NewReader(res.Body), parsed); err == nil {
			p.Excerpt = strings.TrimSpace(article.Excerpt)
			p.Content = article.Content
		}
	}

	return p, nil
}

// sameURL compares URLs ignoring a trailing slash difference.
func sameURL(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}
