package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"precheck.dev/pkg/precheck/internal/domain"
	domainmocks "precheck.dev/pkg/precheck/internal/domain/mocks"
)

func TestListCmd(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		match func(domain.ListArgs) bool
	}{
		{
			name: "no names",
			args: []string{"list"},
			match: func(args domain.ListArgs) bool {
				return len(args.Names) == 0 && !args.Recursive
			},
		},
		{
			name: "names and selection flags",
			args: []string{"list", "-r", "-k", "py", "-x", "tmp", "scripts", "tools"},
			match: func(args domain.ListArgs) bool {
				return assert.ObjectsAreEqual([]string{"scripts", "tools"}, args.Names) &&
					args.Recursive &&
					args.KindTag == "py" &&
					assert.ObjectsAreEqual([]string{"tmp"}, args.Exclude)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWorkflow := domainmocks.NewMockWorkflow(t)

			originalWorkflow := workflow
			workflow = mockWorkflow
			defer func() { workflow = originalWorkflow }()

			cmd := newRootCmd()
			cmd.AddCommand(newListCmd())
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			mockWorkflow.EXPECT().List(mock.Anything, mock.MatchedBy(tt.match)).Return(nil)

			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
		})
	}
}
