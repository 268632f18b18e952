package rules

import (
	"precheck.dev/pkg/precheck/internal/domain/scan"
	m "precheck.dev/pkg/precheck/internal/model"
)

var htmlVoidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// HTML checks element nesting. Comments and the bodies of script and style
// elements are skipped.
func HTML(content string) []m.Diagnostic {
	text := scan.BlankSpans(content, "<!--", "-->")
	text = scan.BlankSpans(text, "<script", "</script>")
	text = scan.BlankSpans(text, "<style", "</style>")

	return scan.CheckTags(m.SplitLines(text), htmlVoidElements)
}
