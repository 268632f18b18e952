package model

import "strings"

// LanguageKind is the closed set of inputs the dispatcher knows about.
type LanguageKind int

const (
	// PassthroughText covers formats with no defined checks (JSON, Markdown,
	// plain text, unknown tags).
	PassthroughText LanguageKind = iota
	Shell
	Python
	Perl
	Java
	Ruby
	HTML
	// JavaScript is routed to the script engine, never to heuristics.
	JavaScript
)

var kindNames = map[LanguageKind]string{
	PassthroughText: "text",
	Shell:           "shell",
	Python:          "python",
	Perl:            "perl",
	Java:            "java",
	Ruby:            "ruby",
	HTML:            "html",
	JavaScript:      "javascript",
}

var kindTags = map[string]LanguageKind{
	"sh":   Shell,
	"py":   Python,
	"pl":   Perl,
	"java": Java,
	"rb":   Ruby,
	"rbw":  Ruby,
	"html": HTML,
	"js":   JavaScript,
	"json": PassthroughText,
	"md":   PassthroughText,
	"txt":  PassthroughText,
}

func (k LanguageKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// KindFromTag maps an extension-style tag ("py", ".rb", "HTML") to a kind.
// Unrecognized tags are pass-through.
func KindFromTag(tag string) LanguageKind {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "."))
	if kind, ok := kindTags[normalized]; ok {
		return kind
	}

	return PassthroughText
}

// KnownTag reports whether tag is one of the recognized kind tags.
func KnownTag(tag string) bool {
	_, ok := kindTags[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "."))]
	return ok
}

// KindFromName is the inverse of LanguageKind.String. Unknown names are
// pass-through.
func KindFromName(name string) LanguageKind {
	for kind, n := range kindNames {
		if n == name {
			return kind
		}
	}

	return PassthroughText
}
