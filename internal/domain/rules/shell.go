package rules

import (
	"strings"
	"unicode"

	"precheck.dev/pkg/precheck/internal/domain/scan"
	m "precheck.dev/pkg/precheck/internal/model"
)

// Shell checks double-quote parity per line, that every 'if' has a 'then'
// on the same or the next line, and that 'if' and 'fi' counts agree. The
// counts are aggregate: nesting order is not verified.
func Shell(content string) []m.Diagnostic {
	var (
		diags    []m.Diagnostic
		ifCount  int
		fiCount  int
		lastIf   int
		lastFi   int
		segments = shellSegments(content)
	)

	for i, line := range segments {
		if len(line.parts) == 0 {
			continue
		}

		if scan.QuoteCount(line.code, '"')%2 != 0 {
			diags = append(diags, m.NewError(line.number, m.UnterminatedLiteral, "unmatched double quote"))
		}

		for j, part := range line.parts {
			switch {
			case scan.StartsWithKeyword(part, "if"):
				ifCount++
				lastIf = line.number

				if !hasThen(line.parts[j:]) && !nextStartsWithThen(segments[i+1:]) {
					diags = append(diags, m.NewError(line.number, m.MalformedInputStructure,
						"'if' without 'then' on the same or the next line"))
				}
			case part == "fi":
				fiCount++
				lastFi = line.number
			}
		}
	}

	switch {
	case ifCount > fiCount:
		diags = append(diags, m.NewError(m.FileLevel, m.UnclosedBlock,
			"%d 'if' but only %d 'fi' (last 'if' on line %d)", ifCount, fiCount, lastIf))
	case fiCount > ifCount:
		diags = append(diags, m.NewError(m.FileLevel, m.UnexpectedClosingBlock,
			"%d 'fi' but only %d 'if' (last 'fi' on line %d)", fiCount, ifCount, lastFi))
	}

	return diags
}

type shellLine struct {
	number int
	// code is the line up to its comment.
	code string
	// parts are the ';'-separated statements of the line with literals
	// blanked, trimmed, empty ones dropped.
	parts []string
}

func shellSegments(content string) []shellLine {
	lines := m.SplitLines(content)
	out := make([]shellLine, 0, len(lines))

	for _, line := range lines {
		code, blanked := shellCode(line.Text)

		var parts []string

		for _, p := range strings.Split(blanked, ";") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}

		out = append(out, shellLine{number: line.Number, code: code, parts: parts})
	}

	return out
}

// shellCode cuts text at its comment and returns the code both as written
// and with quoted literals blanked. A '#' opens a comment only at the start
// of a word, so ${#var} and $# are kept.
func shellCode(text string) (string, string) {
	var (
		q       scan.QuoteTracker
		blanked strings.Builder
		prev    = ' '
	)

	for i, r := range text {
		if q.Step(r) {
			blanked.WriteByte(' ')
		} else if r == '#' && unicode.IsSpace(prev) {
			return text[:i], blanked.String()
		} else {
			blanked.WriteRune(r)
		}

		prev = r
	}

	return text, blanked.String()
}

func hasThen(parts []string) bool {
	for _, p := range parts {
		if scan.StartsWithKeyword(p, "then") || strings.HasSuffix(p, " then") {
			return true
		}
	}

	return false
}

func nextStartsWithThen(rest []shellLine) bool {
	for _, line := range rest {
		if len(line.parts) == 0 {
			continue
		}

		return scan.StartsWithKeyword(line.parts[0], "then")
	}

	return false
}
