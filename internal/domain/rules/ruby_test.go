package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "precheck.dev/pkg/precheck/internal/model"
)

func TestRuby(t *testing.T) {
	runRuleCases(t, Ruby, []ruleCase{
		{name: "if elsif", content: "if a\nelsif b\nend"},
		{
			name:    "class with branches",
			content: "class A\n  def f(x)\n    if x\n      1\n    elsif y\n      2\n    else\n      3\n    end\n  end\nend",
		},
		{name: "block with params", content: "[1].each do |i|\n  puts \"#{i}\"\nend"},
		{name: "case when else", content: "case x\nwhen 1\n  a\nelse\n  b\nend"},
		{name: "embedded doc", content: "=begin\nif\n=end\nputs 1"},
		{name: "keywords in literals", content: "puts 'end'\nputs \"if\" # end"},
		{
			name:    "same-line end",
			content: "module M; end",
			kinds:   []m.ErrorKind{m.StyleWarning},
		},
		{
			name:    "elsif without if",
			content: "elsif b\nend",
			kinds:   []m.ErrorKind{m.UnexpectedClosingBlock, m.UnexpectedClosingBlock},
		},
		{
			name:    "elsif checks the innermost block",
			content: "if a\n  [1].each do |i|\n  elsif b\n  end\nend",
			kinds:   []m.ErrorKind{m.UnexpectedClosingBlock},
		},
		{
			name:    "when outside case",
			content: "when 1",
			kinds:   []m.ErrorKind{m.UnexpectedClosingBlock},
		},
		{
			name:    "unclosed def",
			content: "def f\n  1\n",
			kinds:   []m.ErrorKind{m.UnclosedBlock},
		},
		{
			name:    "stray end",
			content: "end",
			kinds:   []m.ErrorKind{m.UnexpectedClosingBlock},
		},
		{
			name:    "unclosed embedded doc",
			content: "=begin\nx",
			kinds:   []m.ErrorKind{m.UnterminatedLiteral},
		},
		{
			name:    "odd single quotes",
			content: "puts 'a",
			kinds:   []m.ErrorKind{m.UnterminatedLiteral},
		},
	})
}

func TestRuby_ElsifLineIsReported(t *testing.T) {
	report := m.NewReport(Ruby("elsif b\nend"))

	require.NotEmpty(t, report.Diagnostics)
	assert.Equal(t, 1, report.Diagnostics[0].Line)
	assert.Contains(t, report.Diagnostics[0].Message, "elsif")
}

func TestRuby_Warnings(t *testing.T) {
	report := m.NewReport(Ruby("puts 1; puts 2\ndef\nend"))

	assert.True(t, report.Valid)
	assert.Equal(t, 2, report.Warnings())
	assert.Len(t, report.OfKind(m.StyleWarning), 2)
}
