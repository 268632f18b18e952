// Package model defines the data structures shared by the validators and the batch driver.
package model

import "strings"

// Path represents a file system path.
type Path string

// SourceLine is one line of input text. Number is 1-based.
type SourceLine struct {
	Number int
	Text   string
}

// File identifies a single input handed to the batch driver.
type File struct {
	// Name is the logical identifier supplied by the caller.
	Name string
	// Path is where the content was resolved on disk (empty until loaded).
	Path Path
	// KindTag is the extension-style tag used to pick a rule set.
	KindTag string
	Hash    string
}

// SplitLines splits content on \n, \r\n and lone \r, numbering lines from 1.
// Empty content yields a single empty line so line-oriented checks still run.
func SplitLines(content string) []SourceLine {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	raw := strings.Split(normalized, "\n")
	lines := make([]SourceLine, 0, len(raw))

	for i, text := range raw {
		lines = append(lines, SourceLine{Number: i + 1, Text: text})
	}

	return lines
}
