package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "precheck.dev/pkg/precheck/internal/model"
)

func TestValidate_PassThrough(t *testing.T) {
	for _, tag := range []string{"json", "md", "txt", "", "exe", "js"} {
		t.Run(tag, func(t *testing.T) {
			report := Validate("{ not [ balanced", m.KindFromTag(tag))

			assert.True(t, report.Valid)
			assert.NotNil(t, report.Diagnostics)
			assert.Empty(t, report.Diagnostics)
		})
	}
}

func TestValidate_Dispatch(t *testing.T) {
	tests := []struct {
		tag     string
		valid   string
		invalid string
	}{
		{"sh", "if true\nthen\necho hi\nfi", "if true\necho hi\nfi"},
		{"py", "if x:\n    y = 1", "if x:\ny = 1"},
		{"pl", "sub f {\n  1;\n}", "sub f {\n"},
		{"java", "class A {\n  int x = 1;\n}", "class A {\n  int x = 1\n}"},
		{"rb", "if a\nelsif b\nend", "elsif b\nend"},
		{"RBW", "def f\nend", "def f\n"},
		{"html", "<br>", "<div><span></div>"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.True(t, Validate(tt.valid, m.KindFromTag(tt.tag)).Valid, "valid %q", tt.valid)
			assert.False(t, Validate(tt.invalid, m.KindFromTag(tt.tag)).Valid, "invalid %q", tt.invalid)
		})
	}
}

func TestValidate_Idempotent(t *testing.T) {
	inputs := map[m.LanguageKind]string{
		m.Python: "def f():\n  pass\n pass\nx = (1,",
		m.Ruby:   "elsif b\nputs 'a\ndef f; end",
		m.Java:   "import x\nclass 1A {\n  if x {\n",
		m.HTML:   "<div><1a><span></div>",
		m.Perl:   "=pod\n}\n$1x",
		m.Shell:  "if x\n\"\nfi\nfi",
	}

	for kind, content := range inputs {
		first := Validate(content, kind)
		second := Validate(content, kind)

		assert.Equal(t, first, second, kind.String())
	}
}

func TestValidate_OrdersByLineWithFileLevelFirst(t *testing.T) {
	report := Validate("class A {\n  int x = 1\n  int y = 2\n", m.Java)

	require.NotEmpty(t, report.Diagnostics)
	assert.True(t, report.Diagnostics[0].IsFileLevel())

	for i := 1; i < len(report.Diagnostics); i++ {
		assert.LessOrEqual(t, report.Diagnostics[i-1].Line, report.Diagnostics[i].Line)
	}
}

func TestValidate_SingleUnmatchedCloser(t *testing.T) {
	body := strings.Repeat("int a = f(x[0], {1});\n", 40)

	for _, closer := range []string{"}", ")", "]"} {
		for _, at := range []int{0, len(body) / 2, len(body)} {
			content := "class A {\n" + body[:at] + closer + body[at:] + "}\n"

			report := Validate(content, m.Java)

			assert.Len(t, report.OfKind(m.UnbalancedDelimiter), 1, "closer %s at %d", closer, at)
		}
	}
}

func TestValidate_BinaryContent(t *testing.T) {
	report := Validate("\x00\xff\xfe", m.Python)

	assert.False(t, report.Valid)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, m.MalformedInputStructure, report.Diagnostics[0].Kind)
	assert.True(t, Validate("\x00\xff", m.PassthroughText).Valid)
}

func TestValidate_WarningsKeepReportValid(t *testing.T) {
	report := Validate("puts 1; puts 2", m.Ruby)

	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.Warnings())
	assert.Equal(t, 0, report.Errors())
}

func TestHasRuleSet(t *testing.T) {
	assert.True(t, HasRuleSet(m.Python))
	assert.False(t, HasRuleSet(m.JavaScript))
	assert.False(t, HasRuleSet(m.PassthroughText))
}
