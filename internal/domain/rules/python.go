package rules

import (
	"precheck.dev/pkg/precheck/internal/domain/scan"
	m "precheck.dev/pkg/precheck/internal/model"
)

var pythonControlKeywords = []string{
	"if", "elif", "else", "for", "while", "def", "class",
	"try", "except", "finally", "with", "async",
}

// Python validates block-by-indentation structure and bracket nesting.
func Python(content string) []m.Diagnostic {
	return scan.CheckIndentation(m.SplitLines(content), pythonControlKeywords)
}
