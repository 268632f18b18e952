package scan

import (
	"regexp"
	"strings"

	m "precheck.dev/pkg/precheck/internal/model"
)

var (
	tagPattern       = regexp.MustCompile(`<\s*(/?)([a-zA-Z0-9][a-zA-Z0-9-]*)([^<>]*?)\s*(/?)>`)
	tagNamePattern   = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	attributePattern = regexp.MustCompile(`(\w+)(\s*=\s*(".*?"|'.*?'|[^'"\s>]+))?`)
)

type openTag struct {
	name string
	line int
}

// CheckTags validates element nesting line by line. Void elements and
// self-closing tags never touch the stack; a closing tag must match the
// innermost open element.
func CheckTags(lines []m.SourceLine, voidElements map[string]bool) []m.Diagnostic {
	var (
		stack []openTag
		diags []m.Diagnostic
	)

	for _, line := range lines {
		for _, match := range tagPattern.FindAllStringSubmatch(line.Text, -1) {
			closing := match[1] == "/"
			name := strings.ToLower(match[2])
			attrs := strings.TrimSpace(match[3])
			selfClosing := match[4] == "/"

			if !tagNamePattern.MatchString(name) {
				diags = append(diags, m.NewError(line.Number, m.MalformedTag,
					"invalid tag name <%s%s>", match[1], name))

				continue
			}

			if attrs != "" && !attributePattern.MatchString(attrs) {
				diags = append(diags, m.NewError(line.Number, m.MalformedTag,
					"malformed attributes in <%s>: %s", name, attrs))
			}

			if voidElements[name] || selfClosing {
				continue
			}

			if !closing {
				stack = append(stack, openTag{name: name, line: line.Number})
				continue
			}

			if len(stack) > 0 && stack[len(stack)-1].name == name {
				stack = stack[:len(stack)-1]
				continue
			}

			if len(stack) == 0 {
				diags = append(diags, m.NewError(line.Number, m.UnexpectedClosingBlock,
					"unexpected closing tag </%s>: no element is open", name))
			} else {
				top := stack[len(stack)-1]
				diags = append(diags, m.NewError(line.Number, m.UnexpectedClosingBlock,
					"unexpected closing tag </%s>: <%s> opened on line %d is still open", name, top.name, top.line))
			}
		}
	}

	for _, tag := range stack {
		diags = append(diags, m.NewError(tag.line, m.UnclosedBlock, "unclosed tag <%s>", tag.name))
	}

	return diags
}
