// Package seobar implements the SEO Bar rule-assessment engine: a
// deterministic evaluator that runs a fixed battery of named tests
// (title, description, indexing, following, archiving, redirect)
// against a post or term and yields one structured verdict per test.
package seobar

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Status is the severity of a verdict, as power-of-two flags.
type Status uint8

const (
	// StatusUndefined marks a verdict that was never graded.
	StatusUndefined Status = 0
	// StatusUnknown means the outcome depends on external factors.
	StatusUnknown Status = 1 << (iota - 1)
	// StatusBad flags an issue that needs fixing.
	StatusBad
	// StatusOkay flags a minor issue.
	StatusOkay
	// StatusGood means no issue was found.
	StatusGood
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusBad:
		return "bad"
	case StatusOkay:
		return "okay"
	case StatusGood:
		return "good"
	default:
		return "undefined"
	}
}

// MarshalJSON encodes the status as its name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "unknown":
		*s = StatusUnknown
	case "bad":
		*s = StatusBad
	case "okay":
		*s = StatusOkay
	case "good":
		*s = StatusGood
	case "undefined":
		*s = StatusUndefined
	default:
		return fmt.Errorf("unknown status %q", name)
	}
	return nil
}

// Verdict is the outcome of one test for one item.
type Verdict struct {
	// Symbol is the short display code, e.g. "T" or "!!!".
	Symbol string `json:"symbol"`
	// Title is the human label of the test category.
	Title string `json:"title"`
	// Status is the graded severity.
	Status Status `json:"status"`
	// Reason is the single terminal explanation; later, more specific
	// branches overwrite it (last write wins).
	Reason string `json:"reason"`
	// Assess collects independent observations in insertion order.
	Assess *AssessMap `json:"assess"`
	// Blocking is set by the redirect test when the item redirects;
	// the runner then discards every other requested test.
	Blocking bool `json:"blocking,omitempty"`
}

// AssessMap is an insertion-ordered map of assessment key to
// explanation message. Entries accumulate; a later branch may remove
// superseded entries by key.
type AssessMap struct {
	keys  []string
	items map[string]string
}

// NewAssess creates an empty assessment map.
func NewAssess() *AssessMap {
	return &AssessMap{items: make(map[string]string)}
}

// Set inserts or updates an entry. An update keeps the original
// position.
func (a *AssessMap) Set(key, msg string) {
	if _, ok := a.items[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.items[key] = msg
}

// Delete removes entries by key. Missing keys are ignored.
func (a *AssessMap) Delete(keys ...string) {
	for _, key := range keys {
		if _, ok := a.items[key]; !ok {
			continue
		}
		delete(a.items, key)
		for i, k := range a.keys {
			if k == key {
				a.keys = append(a.keys[:i], a.keys[i+1:]...)
				break
			}
		}
	}
}

// Get returns the message for a key.
func (a *AssessMap) Get(key string) (string, bool) {
	msg, ok := a.items[key]
	return msg, ok
}

// Has reports whether the key is present.
func (a *AssessMap) Has(key string) bool {
	_, ok := a.items[key]
	return ok
}

// Len returns the number of entries.
func (a *AssessMap) Len() int { return len(a.keys) }

// Keys returns the keys in insertion order.
func (a *AssessMap) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Messages returns the messages in insertion order.
func (a *AssessMap) Messages() []string {
	out := make([]string, 0, len(a.keys))
	for _, k := range a.keys {
		out = append(out, a.items[k])
	}
	return out
}

// Clone returns an independent copy.
func (a *AssessMap) Clone() *AssessMap {
	c := NewAssess()
	for _, k := range a.keys {
		c.Set(k, a.items[k])
	}
	return c
}

// MarshalJSON encodes the map as a JSON object preserving insertion
// order.
func (a *AssessMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object. Key order follows the document
// order of the object.
func (a *AssessMap) UnmarshalJSON(data []byte) error {
	a.keys = nil
	a.items = make(map[string]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("assess: expected object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("assess: expected string key")
		}
		var msg string
		if err := dec.Decode(&msg); err != nil {
			return err
		}
		a.Set(key, msg)
	}
	_, err = dec.Token() // closing brace
	return err
}
