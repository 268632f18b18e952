package scan

import (
	"fmt"
	"strings"

	m "precheck.dev/pkg/precheck/internal/model"
)

const tabWidth = 8

var closerFor = map[rune]rune{'(': ')', '[': ']', '{': '}'}

type bracketEntry struct {
	char rune
	line int
}

type header struct {
	keyword string
	line    int
}

// indentScanner holds the state of one CheckIndentation call.
type indentScanner struct {
	keywords map[string]bool
	comment  string

	levels       []int
	expectBlock  bool
	requireBlock bool
	expectLine   int
	pending      *header
	continued    bool

	quotes   QuoteTracker
	brackets []bracketEntry

	diags []m.Diagnostic
}

// CheckIndentation validates block-by-indentation structure: a line that
// starts with one of controlKeywords must end with ':' and be followed by a
// deeper-indented block; dedents must land on a previously used level.
// Brackets are tracked across the whole text, ignoring those inside quoted
// literals and '#' comments. Lines that continue an open literal, an open
// bracket or a backslash-continued line are not checked for indentation.
func CheckIndentation(lines []m.SourceLine, controlKeywords []string) []m.Diagnostic {
	s := &indentScanner{
		keywords: make(map[string]bool, len(controlKeywords)),
		comment:  "#",
	}

	for _, kw := range controlKeywords {
		s.keywords[kw] = true
	}

	for _, line := range lines {
		s.line(line)
	}

	s.finish()

	return s.diags
}

func (s *indentScanner) line(line m.SourceLine) {
	continuation := s.quotes.InLiteral() || len(s.brackets) > 0 || s.continued
	code := s.scanCode(line)
	s.continued = strings.HasSuffix(strings.TrimRight(code, " \t"), "\\")

	if continuation {
		s.finishHeaderIfComplete(code)
		return
	}

	trimmed := strings.TrimSpace(line.Text)
	if trimmed == "" || strings.HasPrefix(trimmed, s.comment) {
		return
	}

	s.checkIndent(line.Number, indentWidth(line.Text))

	word := LeadingWord(trimmed)
	if !s.keywords[word] {
		s.expectBlock = false
		return
	}

	s.expectBlock = false
	s.pending = &header{keyword: word, line: line.Number}
	s.finishHeaderIfComplete(code)
}

// scanCode advances the quote and bracket state over the line and returns
// its code portion (comment removed, literals kept).
func (s *indentScanner) scanCode(line m.SourceLine) string {
	var code strings.Builder

	for i, r := range line.Text {
		if s.quotes.StepAt(r, line.Number) {
			code.WriteRune(r)
			continue
		}

		if strings.HasPrefix(line.Text[i:], s.comment) {
			break
		}

		code.WriteRune(r)

		switch r {
		case '(', '[', '{':
			s.brackets = append(s.brackets, bracketEntry{char: r, line: line.Number})
		case ')', ']', '}':
			s.closeBracket(r, line.Number)
		}
	}

	return code.String()
}

func (s *indentScanner) closeBracket(r rune, lineNumber int) {
	if len(s.brackets) == 0 {
		s.diags = append(s.diags, m.NewError(lineNumber, m.UnbalancedDelimiter,
			"closing '%c' without a matching opening bracket", r))

		return
	}

	top := s.brackets[len(s.brackets)-1]
	if closerFor[top.char] != r {
		s.diags = append(s.diags, m.NewError(lineNumber, m.UnbalancedDelimiter,
			"closing '%c' does not match '%c' opened on line %d", r, top.char, top.line))

		return
	}

	s.brackets = s.brackets[:len(s.brackets)-1]
}

func (s *indentScanner) checkIndent(lineNumber, indent int) {
	if len(s.levels) == 0 {
		s.levels = append(s.levels, indent)
		s.checkExpectedBlock(lineNumber, false)

		return
	}

	top := s.levels[len(s.levels)-1]

	switch {
	case indent > top:
		if !s.expectBlock {
			s.diags = append(s.diags, m.NewError(lineNumber, m.InvalidIndentation, "unexpected indentation"))
		}

		s.levels = append(s.levels, indent)
	case indent == top:
		s.checkExpectedBlock(lineNumber, false)
	default:
		s.checkExpectedBlock(lineNumber, false)

		for len(s.levels) > 0 && s.levels[len(s.levels)-1] > indent {
			s.levels = s.levels[:len(s.levels)-1]
		}

		if len(s.levels) == 0 || s.levels[len(s.levels)-1] != indent {
			s.diags = append(s.diags, m.NewError(lineNumber, m.InvalidIndentation, "inconsistent indentation"))
			s.levels = append(s.levels, indent)
		}
	}
}

// checkExpectedBlock reports a header whose body is not indented deeper.
func (s *indentScanner) checkExpectedBlock(lineNumber int, atEOF bool) {
	if !s.expectBlock {
		return
	}

	s.expectBlock = false

	if !s.requireBlock {
		return
	}

	where := fmt.Sprintf("line %d", lineNumber)
	if atEOF {
		where = "end of file"
	}

	s.diags = append(s.diags, m.NewError(lineNumber, m.InvalidIndentation,
		"expected an indented block after line %d, found %s", s.expectLine, where))
}

// finishHeaderIfComplete checks the trailing ':' of a pending control line
// once its logical line is over.
func (s *indentScanner) finishHeaderIfComplete(code string) {
	if s.pending == nil || s.quotes.InLiteral() || len(s.brackets) > 0 || s.continued {
		return
	}

	h := s.pending
	s.pending = nil

	hasColon := strings.HasSuffix(strings.TrimSpace(code), ":")
	if !hasColon {
		s.diags = append(s.diags, m.NewError(h.line, m.MissingBlockColon,
			"'%s' statement must end with ':'", h.keyword))
	}

	s.expectBlock = true
	s.requireBlock = hasColon
	s.expectLine = h.line
}

func (s *indentScanner) finish() {
	if s.pending != nil {
		s.diags = append(s.diags, m.NewError(s.pending.line, m.MissingBlockColon,
			"'%s' statement must end with ':'", s.pending.keyword))
	}

	if s.expectBlock {
		s.checkExpectedBlock(s.expectLine, true)
	}

	if len(s.brackets) > 0 {
		open := make([]string, 0, len(s.brackets))
		for _, b := range s.brackets {
			open = append(open, fmt.Sprintf("'%c' (line %d)", b.char, b.line))
		}

		s.diags = append(s.diags, m.NewError(m.FileLevel, m.UnbalancedDelimiter,
			"unclosed brackets at end of file: %s", strings.Join(open, ", ")))
	}

	if s.quotes.InLiteral() {
		s.diags = append(s.diags, m.NewError(s.quotes.OpenedAt(), m.UnterminatedLiteral,
			"string literal opened with %c is never closed", s.quotes.Quote()))
	}
}

// indentWidth counts leading whitespace; a tab advances to the next
// multiple of eight columns.
func indentWidth(text string) int {
	width := 0

	for _, r := range text {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		default:
			return width
		}
	}

	return width
}
