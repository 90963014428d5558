// Package cmd provides the root command and CLI setup for bundlekit.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bundlekit.dev/pkg/bundlekit/internal/adapter"
	"bundlekit.dev/pkg/bundlekit/internal/controller"
	"bundlekit.dev/pkg/bundlekit/internal/domain"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var catalogAdapter adapter.CatalogAdapter
var reportStore adapter.ReportStore
var watcher adapter.Watcher
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// noCacheFlag disables incremental caching when set.
var noCacheFlag bool

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var extensionsFlag []string
var catalogFlag string
var rootDirFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	catalogAdapter = adapter.NewYAMLCatalogAdapter()
	reportStore = adapter.NewReportStore()
	watcher = adapter.NewFSNotifyWatcher()
	workflow = domain.NewWorkflow(
		fsAdapter,
		catalogAdapter,
		reportStore,
		watcher,
		ui,
	)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan the project root
  - ./src/...      recursively scan the src directory
  - ./src ./lib    scan multiple directories (non-recursive)`

const rootLongDescription = `Bundlekit is a build-time helper for front-end bundles. It rewrites icon
class tokens in source files from an ordered rule catalog and generates
stable, hash-suffixed CSS scoping names.

` + pathPatternsHelp

const rewriteLongDescription = `Rewrite icon class tokens in the given paths (default: the whole project)
using the rule catalog. Every rule whose include/exclude globs match a file
applies in catalog order to the output of the previous one.

` + pathPatternsHelp

const listLongDescription = `List source files and the number of replacements a rewrite would make.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bundlekit",
		Short: "Icon token rewriting and CSS scoping names for bundles",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

// newRootCmd returns a fresh root command with the persistent flags bound.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for run reports and the incremental cache",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "disable cached incremental runs (re-process everything)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringSliceVar(&extensionsFlag, extensionsFlagName, viper.GetStringSlice(extensionsConfigKey), "file extensions to process")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(extensionsFlagName), extensionsConfigKey)

	cmd.PersistentFlags().StringVarP(&catalogFlag, catalogFlagName, "c", viper.GetString(catalogConfigKey), "rule catalog file, relative to the project root")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(catalogFlagName), catalogConfigKey)

	cmd.PersistentFlags().StringVar(&rootDirFlag, rootFlagName, viper.GetString(rootConfigKey), "project root used for paths, globs and scoping names")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rootFlagName), rootConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
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
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// estimateArgs collects the file selection shared by rewrite, list and check.
func estimateArgs(args []string) domain.EstimateArgs {
	return domain.EstimateArgs{
		Root:       m.Path(viper.GetString(rootConfigKey)),
		Paths:      parsePaths(args),
		Exclude:    viper.GetStringSlice(excludeConfigKey),
		Extensions: viper.GetStringSlice(extensionsConfigKey),
		Catalog:    m.Path(viper.GetString(catalogConfigKey)),
		UseCache:   !viper.GetBool(noCacheFlagName),
		Reports:    m.Path(viper.GetString(outputFlagName)),
	}
}
