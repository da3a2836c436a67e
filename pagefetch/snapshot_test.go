package pagefetch

import (
	"testing"

	"github.com/sybrew/the-seo-framework/content"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title> Sample Article – Acme </title>
  <meta name="Description" content=" A short but serviceable description. ">
  <meta name="robots" content="NOINDEX, nofollow , noarchive">
  <link rel="canonical" href="https://acme.example/sample">
</head>
<body>
  <title>decoy body title</title>
  <h1>Sample Article</h1>
  <p>Body text that head parsing must ignore.</p>
</body>
</html>`

func TestSnapshot(t *testing.T) {
	snap, err := Snapshot("https://acme.example/sample", []byte(samplePage))
	if err != nil {
		t.Fatal(err)
	}

	if snap.TitleTag != "Sample Article – Acme" {
		t.Errorf("title = %q", snap.TitleTag)
	}
	if snap.MetaDescription != "A short but serviceable description." {
		t.Errorf("description = %q", snap.MetaDescription)
	}
	if snap.Canonical != "https://acme.example/sample" {
		t.Errorf("canonical = %q", snap.Canonical)
	}
	want := []string{"noindex", "nofollow", "noarchive"}
	if len(snap.RobotsTokens) != len(want) {
		t.Fatalf("robots tokens = %v, want %v", snap.RobotsTokens, want)
	}
	for i, tok := range want {
		if snap.RobotsTokens[i] != tok {
			t.Errorf("token[%d] = %q, want %q", i, snap.RobotsTokens[i], tok)
		}
	}
}

func TestSnapshotRobotsMapping(t *testing.T) {
	snap := &PageSnapshot{RobotsTokens: []string{"noindex"}}
	noindex, nofollow, noarchive := snap.Robots()
	if noindex != content.QubitOn || nofollow != content.QubitInherit || noarchive != content.QubitInherit {
		t.Fatalf("robots = %v/%v/%v", noindex, nofollow, noarchive)
	}

	// "none" implies both noindex and nofollow.
	snap = &PageSnapshot{RobotsTokens: []string{"none"}}
	noindex, nofollow, _ = snap.Robots()
	if noindex != content.QubitOn || nofollow != content.QubitOn {
		t.Fatalf("none mapped to %v/%v", noindex, nofollow)
	}
}

func TestBuildPost(t *testing.T) {
	res := &FetchResult{
		Body:     []byte(samplePage),
		FinalURL: "https://acme.example/sample",
	}
	p, err := BuildPost(1, "https://acme.example/sample", res)
	if err != nil {
		t.Fatal(err)
	}

	if p.Meta.Title != "Sample Article – Acme" {
		t.Errorf("meta title = %q", p.Meta.Title)
	}
	if p.Meta.NoIndex != content.QubitOn {
		t.Errorf("noindex = %v", p.Meta.NoIndex)
	}
	if p.Meta.Redirect != "" {
		t.Errorf("unexpected redirect %q", p.Meta.Redirect)
	}
	if p.Status != content.StatusPublish {
		t.Errorf("status = %q", p.Status)
	}
}

func TestBuildPostDetectsRedirect(t *testing.T) {
	res := &FetchResult{
		Body:     []byte(samplePage),
		FinalURL: "https://acme.example/moved-here",
	}
	p, err := BuildPost(1, "https://acme.example/sample", res)
	if err != nil {
		t.Fatal(err)
	}
	if p.Meta.Redirect != "https://acme.example/moved-here" {
		t.Errorf("redirect = %q", p.Meta.Redirect)
	}
}

func TestSameURL(t *testing.T) {
	if !sameURL("https://a.example/x/", "https://a.example/x") {
		t.Error("trailing slash should not count as a redirect")
	}
	if sameURL("https://a.example/x", "https://a.example/y") {
		t.Error("different paths must differ")
	}
}
