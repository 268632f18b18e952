package rules

import (
	"regexp"
	"strings"

	"precheck.dev/pkg/precheck/internal/domain/scan"
	m "precheck.dev/pkg/precheck/internal/model"
)

var (
	javaClassPattern    = regexp.MustCompile(`\bclass\s+[a-zA-Z_][a-zA-Z0-9_]*`)
	javaControlKeywords = []string{"if", "while", "for", "switch"}
	javaTypeKeywords    = map[string]bool{"class": true, "interface": true, "enum": true}
	javaModifiers       = map[string]bool{
		"public": true, "protected": true, "private": true, "abstract": true,
		"static": true, "final": true, "sealed": true, "non-sealed": true, "strictfp": true,
	}
)

// Java bundles independent line heuristics with whole-file balance and
// literal checks. Wrapped statements are reported as missing a terminator;
// that false positive is accepted.
func Java(content string) []m.Diagnostic {
	var diags []m.Diagnostic

	opens, closes := strings.Count(content, "/*"), strings.Count(content, "*/")
	if opens != closes {
		diags = append(diags, m.NewError(m.FileLevel, m.UnterminatedLiteral,
			"unbalanced block comments: %d '/*' and %d '*/'", opens, closes))
	}

	withLiterals := scan.StripComments(scan.BlankSpans(content, "/*", "*/"), "//")
	code := scan.Strip(scan.BlankSpans(content, "/*", "*/"), "//")

	diags = append(diags, scan.BalanceDiagnostics(code)...)
	diags = append(diags, scan.QuoteParity(withLiterals, '"', "string literal")...)
	diags = append(diags, scan.QuoteParity(withLiterals, '\'', "character literal")...)

	for _, line := range m.SplitLines(code) {
		diags = append(diags, javaLine(line.Number, strings.TrimSpace(line.Text))...)
	}

	if !javaClassPattern.MatchString(code) {
		diags = append(diags, m.NewError(m.FileLevel, m.InvalidIdentifier, "no class declaration found"))
	}

	return diags
}

func javaLine(number int, trimmed string) []m.Diagnostic {
	if trimmed == "" || strings.HasPrefix(trimmed, "*") {
		return nil
	}

	var diags []m.Diagnostic

	switch {
	case scan.StartsWithKeyword(trimmed, "import") && !strings.HasSuffix(trimmed, ";"):
		diags = append(diags, m.NewError(number, m.MissingStatementTerminator, "import must end with ';'"))
	case !terminated(trimmed):
		diags = append(diags, m.NewError(number, m.MissingStatementTerminator,
			"statement does not end with ';', '{' or '}'"))
	}

	for _, kw := range javaControlKeywords {
		if scan.StartsWithKeyword(trimmed, kw) && !strings.HasPrefix(strings.TrimSpace(trimmed[len(kw):]), "(") {
			diags = append(diags, m.NewError(number, m.MalformedInputStructure,
				"'%s' must be followed by a parenthesized condition", kw))
		}
	}

	if strings.Contains(trimmed, ";;") {
		diags = append(diags, m.NewError(number, m.MalformedInputStructure, "double semicolon"))
	}

	diags = append(diags, javaTypeDeclaration(number, trimmed)...)
	diags = append(diags, javaMethod(number, trimmed)...)

	return diags
}

// terminated reports whether a line ends a statement or a block, or is an
// annotation. Switch labels and wrapped statements are reported.
func terminated(trimmed string) bool {
	switch {
	case strings.HasSuffix(trimmed, ";"), strings.HasSuffix(trimmed, "{"), strings.HasSuffix(trimmed, "}"):
		return true
	case strings.HasPrefix(trimmed, "@"):
		return true
	}

	return false
}

func javaTypeDeclaration(number int, trimmed string) []m.Diagnostic {
	fields := strings.Fields(trimmed)

	i := 0
	for i < len(fields) && javaModifiers[fields[i]] {
		i++
	}

	if i == len(fields) || !javaTypeKeywords[fields[i]] {
		return nil
	}

	if i+1 == len(fields) {
		return []m.Diagnostic{m.NewError(number, m.InvalidIdentifier, "incomplete %s declaration", fields[i])}
	}

	name := fields[i+1]
	if cut := strings.IndexAny(name, "<{"); cut > 0 {
		name = name[:cut]
	}

	if !isIdentifier(name) {
		return []m.Diagnostic{m.NewError(number, m.InvalidIdentifier, "invalid %s name %q", fields[i], name)}
	}

	return nil
}

// javaMethod checks the name in front of the parameter list of a line
// that looks like a method header.
func javaMethod(number int, trimmed string) []m.Diagnostic {
	if !strings.Contains(trimmed, "(") || !strings.Contains(trimmed, ")") || !strings.HasSuffix(trimmed, "{") {
		return nil
	}

	head := strings.TrimSpace(trimmed[:strings.Index(trimmed, "(")])
	if head == "" || strings.HasSuffix(head, "=") || strings.Contains(trimmed, "->") {
		return nil
	}

	tokens := strings.Fields(head)
	qualified := strings.Split(tokens[len(tokens)-1], ".")
	name := qualified[len(qualified)-1]

	if cut := strings.Index(name, "<"); cut > 0 {
		name = name[:cut]
	}

	if !isIdentifier(name) {
		return []m.Diagnostic{m.NewError(number, m.InvalidIdentifier, "invalid method name %q", name)}
	}

	return nil
}
