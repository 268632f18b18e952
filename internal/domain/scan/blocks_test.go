package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "precheck.dev/pkg/precheck/internal/model"
)

var testBlocks = BlockConfig{
	Openers:       []string{"def", "if", "while"},
	Closer:        "end",
	SuffixOpeners: []string{"do"},
	SameLineClose: true,
}

func TestCheckBlocks(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantKinds []m.ErrorKind
		wantLines []int
	}{
		{"empty", "", nil, nil},
		{"nested", "def f\n  if x\n  end\nend", nil, nil},
		{"closer without opener", "end", []m.ErrorKind{m.UnexpectedClosingBlock}, []int{1}},
		{"unclosed reports opening line", "x\ndef f\n  if y\n  end", []m.ErrorKind{m.UnclosedBlock}, []int{2}},
		{"suffix opener", "items.each do |i|\n  p i\nend", nil, nil},
		{"same line close", "def f; end", nil, nil},
		{"identifier prefixed by keyword is not an opener", "ifdef = 1\nend", []m.ErrorKind{m.UnexpectedClosingBlock}, []int{2}},
		{"closer followed by call", "if x\nend.tap {}", nil, nil},
		{"scan continues after error", "end\nif x\nend\nend", []m.ErrorKind{m.UnexpectedClosingBlock, m.UnexpectedClosingBlock}, []int{1, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := CheckBlocks(m.SplitLines(tt.text), testBlocks, nil)

			require.Len(t, diags, len(tt.wantKinds))

			for i, d := range diags {
				assert.Equal(t, tt.wantKinds[i], d.Kind)
				assert.Equal(t, tt.wantLines[i], d.Line)
			}
		})
	}
}

func TestCheckBlocks_HookSeesUpdatedStack(t *testing.T) {
	var seen [][]string

	hook := func(_ m.SourceLine, _ string, stack []BlockEntry) []m.Diagnostic {
		kws := make([]string, 0, len(stack))
		for _, e := range stack {
			kws = append(kws, e.Keyword)
		}

		seen = append(seen, kws)

		return nil
	}

	CheckBlocks(m.SplitLines("def f\n\nif x\nend\nend"), testBlocks, hook)

	require.Len(t, seen, 4)
	assert.Equal(t, []string{"def"}, seen[0])
	assert.Equal(t, []string{"def", "if"}, seen[1])
	assert.Equal(t, []string{"def"}, seen[2])
	assert.Equal(t, []string{}, seen[3])
}

func TestStackTop(t *testing.T) {
	stack := []BlockEntry{{Keyword: "case", Line: 1}, {Keyword: "def", Line: 2}}

	top, ok := StackTop(stack)
	require.True(t, ok)
	assert.Equal(t, "def", top.Keyword)

	_, ok = StackTop(nil)
	assert.False(t, ok)
}
