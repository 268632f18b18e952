package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"precheck.dev/pkg/precheck/internal/domain"
	m "precheck.dev/pkg/precheck/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previously saved check reports",
		Long:  "View the reports saved by a previous check from a reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.View(commandContext(cmd), domain.ViewArgs{
				Reports:     m.Path(viper.GetString(outputFlagName)),
				ShowContent: viper.GetBool(showContentFlagName),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
