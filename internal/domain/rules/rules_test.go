package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "precheck.dev/pkg/precheck/internal/model"
)

type ruleCase struct {
	name    string
	content string
	// kinds lists the expected diagnostic kinds in report order.
	kinds []m.ErrorKind
}

func runRuleCases(t *testing.T, rs RuleSet, tests []ruleCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := m.NewReport(rs(tt.content))

			kinds := make([]m.ErrorKind, 0, len(report.Diagnostics))
			for _, d := range report.Diagnostics {
				kinds = append(kinds, d.Kind)
			}

			if len(tt.kinds) == 0 {
				assert.Empty(t, kinds, "%v", report.Diagnostics)
				return
			}

			assert.Equal(t, tt.kinds, kinds, "%v", report.Diagnostics)
		})
	}
}

func TestRuleSets_CarriageReturnLineBreaks(t *testing.T) {
	tests := []struct {
		name    string
		rs      RuleSet
		content string
	}{
		{"ruby", Ruby, "# c\nif a\n"},
		{"ruby embedded doc", Ruby, "=begin\nx\n=end\ndef f\n"},
		{"perl", Perl, "# c\nsub f {\n"},
		{"perl pod", Perl, "=pod\n{\n=cut\nsub f {\n"},
		{"java", Java, "// c\nclass A {\n  int x = 1\n}\n"},
		{"shell", Shell, "# c\nif [ x ]; then\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.rs(tt.content)
			require.NotEmpty(t, want)

			for _, lineBreak := range []string{"\r", "\r\n"} {
				got := tt.rs(strings.ReplaceAll(tt.content, "\n", lineBreak))
				assert.Equal(t, want, got, "line break %q", lineBreak)
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, isIdentifier("main"))
	assert.True(t, isIdentifier("_x1"))
	assert.False(t, isIdentifier("1x"))
	assert.False(t, isIdentifier(""))
	assert.False(t, isIdentifier("a-b"))
}

func TestRuleSets_NeverPanicOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"\x00\x01\x02",
		"\"",
		"'",
		"{[(",
		")]}",
		"<",
		"</",
		"=begin",
		"=pod",
		"if",
		"\t\t\tif x:",
		"/*",
	}

	ruleSets := map[string]RuleSet{
		"shell": Shell, "python": Python, "perl": Perl,
		"java": Java, "ruby": Ruby, "html": HTML,
	}

	for name, rs := range ruleSets {
		for _, input := range inputs {
			require.NotPanics(t, func() { rs(input) }, "%s on %q", name, input)
		}
	}
}
