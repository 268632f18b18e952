package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"precheck.dev/pkg/precheck/internal/domain"
	m "precheck.dev/pkg/precheck/internal/model"
)

var parallelFlag int
var scriptTimeoutFlag int64

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [names...]",
		Short: "Check files for structural faults",
		Long:  checkLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Check(commandContext(cmd), domain.CheckArgs{
				ListArgs:    listArgs(args),
				Threads:     viper.GetInt(parallelConfigKey),
				Reports:     m.Path(viper.GetString(outputFlagName)),
				ShowContent: viper.GetBool(showContentFlagName),
			})
		},
	}

	configureCheckFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func configureCheckFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel workers")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().Int64Var(&scriptTimeoutFlag, scriptTimeoutFlagName, viper.GetInt64(scriptTimeoutConfigKey), "seconds a JavaScript file may run (0 disables the limit)")
	bindFlagToConfig(cmd.Flags().Lookup(scriptTimeoutFlagName), scriptTimeoutConfigKey)
}

// commandContext falls back to a background context for commands executed
// without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
