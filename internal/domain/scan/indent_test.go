package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "precheck.dev/pkg/precheck/internal/model"
)

var testControlKeywords = []string{"if", "elif", "else", "for", "while", "def", "class", "try", "except", "finally", "with"}

func TestCheckIndentation(t *testing.T) {
	type want struct {
		line int
		kind m.ErrorKind
	}

	tests := []struct {
		name string
		text string
		want []want
	}{
		{"valid block", "if x:\n    pass", nil},
		{"if else", "if x:\n    a\nelse:\n    b", nil},
		{"missing colon", "if x\n    pass", []want{{1, m.MissingBlockColon}}},
		{"missing body", "if x:\npass", []want{{2, m.InvalidIndentation}}},
		{"missing body at end of file", "x = 1\nif x:", []want{{2, m.InvalidIndentation}}},
		{"unexpected indent", "x = 1\n    y = 2", []want{{2, m.InvalidIndentation}}},
		{"dedent to unknown level", "if x:\n        a\n    b", []want{{3, m.InvalidIndentation}}},
		{"trailing comment after colon", "if x:  # note\n    pass", nil},
		{"multi-line header", "if (a and\n        b):\n    pass", nil},
		{"multi-line header without colon", "if (a and\n        b)\n    pass", []want{{1, m.MissingBlockColon}}},
		{"backslash continuation", "x = 1 + \\\n        2\ny = 3", nil},
		{"tab equals eight spaces", "if x:\n\tpass\n        pass", nil},
		{"keyword prefix is not a keyword", "iffy = 1\nformat = 2", nil},
		{"comment lines are ignored", "if x:\n# note\n    pass", nil},
		{"hash inside literal", "s = \"#\"\nif s:\n    pass", nil},
		{"unmatched closer", "x = 1)", []want{{1, m.UnbalancedDelimiter}}},
		{"unclosed bracket", "x = (1,", []want{{m.FileLevel, m.UnbalancedDelimiter}}},
		{"mismatched closer", "x = (1]", []want{{1, m.UnbalancedDelimiter}, {m.FileLevel, m.UnbalancedDelimiter}}},
		{"unterminated literal reported once", "s = \"abc\nt = 1\nu = 2", []want{{1, m.UnterminatedLiteral}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := CheckIndentation(m.SplitLines(tt.text), testControlKeywords)

			require.Len(t, diags, len(tt.want), "%v", diags)

			for i, d := range diags {
				assert.Equal(t, tt.want[i].line, d.Line)
				assert.Equal(t, tt.want[i].kind, d.Kind)
			}
		})
	}
}

func TestCheckIndentation_MissingBodyMessage(t *testing.T) {
	diags := CheckIndentation(m.SplitLines("if x:\npass"), testControlKeywords)

	require.Len(t, diags, 1)
	assert.Equal(t, "expected an indented block after line 1, found line 2", diags[0].Message)
}

func TestIndentWidth(t *testing.T) {
	assert.Equal(t, 0, indentWidth("x"))
	assert.Equal(t, 4, indentWidth("    x"))
	assert.Equal(t, 8, indentWidth("\tx"))
	assert.Equal(t, 8, indentWidth("  \tx"))
	assert.Equal(t, 10, indentWidth("\t  x"))
	assert.Equal(t, 3, indentWidth("   "))
}
