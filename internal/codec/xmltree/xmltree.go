// Package xmltree provides tolerant traversal helpers over etree documents.
//
// Third-party invoice XML is inconsistent about namespace prefixes
// (rsm:ExchangedDocument vs ExchangedDocument) and about whether elements
// repeat. Both decoders navigate exclusively through these helpers so the
// tolerance lives in one place instead of per-field branching.
package xmltree

import (
	"strings"
	"time"

	"github.com/beevik/etree"
)

var dateFormats = []string{
	"2006-01-02",
	"20060102",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Epoch is the fallback for unparseable dates.
var Epoch = time.Unix(0, 0).UTC()

// ParseDate parses invoice dates: ISO 8601 and the compact YYYYMMDD used by
// CII format 102. Unparseable input yields Epoch, never an error.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return Epoch
}

// Parse parses XML bytes into a document root. Returns nil for empty or
// malformed input; callers treat a nil root as "no structured data".
func Parse(data []byte) *etree.Element {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil
	}
	return doc.Root()
}

// First returns the first child element matching any of the candidate tag
// names, in candidate order. Matching ignores namespace prefixes.
func First(parent *etree.Element, names ...string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, name := range names {
		if el := parent.SelectElement(name); el != nil {
			return el
		}
	}
	return nil
}

// All returns every child element with the given tag name, regardless of
// namespace prefix. Returns nil for a nil parent.
func All(parent *etree.Element, name string) []*etree.Element {
	if parent == nil {
		return nil
	}
	return parent.SelectElements(name)
}

// Walk descends a dotted path (e.g. "SpecifiedTradeProduct.Name"), taking
// the first match at each step. Returns nil as soon as a step is missing.
func Walk(parent *etree.Element, path string) *etree.Element {
	el := parent
	for _, step := range strings.Split(path, ".") {
		if el == nil {
			return nil
		}
		el = el.SelectElement(step)
	}
	return el
}

// Text returns the trimmed character data at a dotted path, or "" when any
// step of the path is absent.
func Text(parent *etree.Element, path string) string {
	el := Walk(parent, path)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// FirstText returns the first non-empty Text result among candidate paths.
func FirstText(parent *etree.Element, paths ...string) string {
	for _, path := range paths {
		if s := Text(parent, path); s != "" {
			return s
		}
	}
	return ""
}

// Attr returns the trimmed value of an attribute at a dotted path, ignoring
// the attribute's namespace prefix.
func Attr(parent *etree.Element, path, key string) string {
	el := Walk(parent, path)
	if el == nil {
		return ""
	}
	for _, a := range el.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}
