package textutil

import "regexp"

// Pre-compiled patterns for unprocessed third-party syntax. Text that
// still carries these markers was handed to us before its shortcode or
// template engine ran, and must not be graded as final output.
var (
	// shortcodeRe matches WordPress-style bracket shortcodes, e.g.
	// [gallery id="1"] or [/caption].
	shortcodeRe = regexp.MustCompile(`\[/?[a-zA-Z][a-zA-Z0-9_-]*(?:\s[^\]\n]*)?\]`)
	// templateRe matches mustache/Twig-style placeholders, e.g. {{ title }}.
	templateRe = regexp.MustCompile(`\{\{[^{}\n]+\}\}|\{%[^{}\n]+%\}`)
	// htmlTagRe matches raw HTML tags that survived into meta text.
	htmlTagRe = regexp.MustCompile(`</?[a-zA-Z][^<>\n]*>`)
)

// HasUnprocessedSyntax reports whether s still contains shortcode,
// template, or raw HTML markers.
func HasUnprocessedSyntax(s string) bool {
	return shortcodeRe.MatchString(s) ||
		templateRe.MatchString(s) ||
		htmlTagRe.MatchString(s)
}
