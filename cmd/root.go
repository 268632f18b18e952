// Package cmd provides the root command and CLI setup for precheck.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"precheck.dev/pkg/precheck/internal/adapter"
	"precheck.dev/pkg/precheck/internal/controller"
	"precheck.dev/pkg/precheck/internal/domain"
	m "precheck.dev/pkg/precheck/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var scriptEngine adapter.ScriptEngine
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

// Root-level flags shared by the batch commands.
var (
	rootDirFlag          string
	reportsOutputDirFlag string
	kindFlag             string
	excludePatterns      []string
	recursiveFlag        bool
	showContentFlag      bool
	plainFlag            bool
	verboseFlag          bool
)

const namesHelp = `Names are files or directories relative to --root. Directories are
expanded to the files with a known extension (sh, py, pl, java, rb, rbw,
html, js, json, md, txt), descending into sub-directories with --recursive.
A name without an extension gets ".<kind>" appended when --kind is set.`

const rootLongDescription = `Precheck is a fast, heuristic pre-execution check for scripts and
markup. It flags unbalanced delimiters, unterminated literals, unclosed
blocks, indentation faults and malformed structure in Shell, Python, Perl,
Java, Ruby and HTML files without running them. JavaScript files are
executed in an embedded engine instead.

` + namesHelp

const checkLongDescription = `Check the given files and directories (default: the root directory).

The command exits with a non-zero status when at least one file is invalid,
could not be read, or raised a script exception.

` + namesHelp

const listLongDescription = `List the files a check with the same arguments would cover.

` + namesHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func init() {
	// Shared dependencies are wired lazily so flags and config can shape them.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	reportStore = adapter.NewReportStore()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "precheck",
		Short:        "Heuristic pre-execution checker for scripts and markup",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
			wireDependencies(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&rootDirFlag, rootFlagName, viper.GetString(rootFlagName), "directory names are resolved against")
	bindFlagToConfig(flags.Lookup(rootFlagName), rootFlagName)

	flags.StringVarP(&reportsOutputDirFlag, outputFlagName, "o", viper.GetString(outputFlagName), "directory for saved reports (empty disables saving)")
	bindFlagToConfig(flags.Lookup(outputFlagName), outputFlagName)

	flags.StringVarP(&kindFlag, kindFlagName, "k", viper.GetString(kindConfigKey), "kind tag applied to every name (e.g. py, rb, html)")
	bindFlagToConfig(flags.Lookup(kindFlagName), kindConfigKey)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.BoolVarP(&recursiveFlag, recursiveFlagName, "r", viper.GetBool(recursiveConfigKey), "descend into sub-directories")
	bindFlagToConfig(flags.Lookup(recursiveFlagName), recursiveConfigKey)

	flags.BoolVar(&showContentFlag, showContentFlagName, viper.GetBool(showContentFlagName), "echo the content of pass-through files")
	bindFlagToConfig(flags.Lookup(showContentFlagName), showContentFlagName)

	flags.BoolVar(&plainFlag, plainFlagName, viper.GetBool(plainConfigKey), "plain output even on a terminal")
	bindFlagToConfig(flags.Lookup(plainFlagName), plainConfigKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "debug logging")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)
}

// wireDependencies builds the workflow from the resolved configuration
// unless one was injected already.
func wireDependencies(cmd *cobra.Command) {
	if workflow != nil {
		return
	}

	if viper.GetBool(plainConfigKey) {
		ui = controller.NewUI(cmd, false)
	} else {
		ui = controller.NewUI(cmd, controller.IsTTY(os.Stdout))
	}

	fsAdapter = adapter.NewLocalSourceFSAdapter(m.Path(viper.GetString(rootFlagName)))
	scriptEngine = adapter.NewGojaScriptEngine(scriptTimeout())
	reportStore = adapter.NewReportStore()
	workflow = domain.NewWorkflow(fsAdapter, scriptEngine, reportStore, ui)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Interrupts cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

// listArgs collects the shared selection flags.
func listArgs(names []string) domain.ListArgs {
	return domain.ListArgs{
		Names:     names,
		KindTag:   viper.GetString(kindConfigKey),
		Exclude:   viper.GetStringSlice(excludeConfigKey),
		Recursive: viper.GetBool(recursiveConfigKey),
	}
}
