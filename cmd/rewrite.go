package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bundlekit.dev/pkg/bundlekit/internal/domain"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

var rewriteParallelFlag int
var rewriteDryRunFlag bool
var rewriteOutFlag string
var rewriteWatchFlag bool
var rewriteDebounceFlag string

// rewriteCmd represents the rewrite command.
var rewriteCmd = newRewriteCmd()

func newRewriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite [paths...]",
		Short: "Rewrite icon class tokens using the rule catalog",
		Long:  rewriteLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext(cmd)
			defer stop()

			return workflow.Rewrite(ctx, domain.RewriteArgs{
				EstimateArgs: estimateArgs(args),
				Threads:      viper.GetInt(rewriteParallelConfigKey),
				DryRun:       rewriteDryRunFlag,
				OutputDir:    m.Path(viper.GetString(rewriteOutConfigKey)),
				Watch:        rewriteWatchFlag,
				Debounce:     viper.GetDuration(rewriteDebounceConfigKey),
			})
		},
	}

	configureRewriteFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(rewriteCmd)
}

func configureRewriteFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&rewriteParallelFlag, rewriteParallelFlagName, "p", viper.GetInt(rewriteParallelConfigKey), "number of files processed in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(rewriteParallelFlagName), rewriteParallelConfigKey)

	cmd.Flags().StringVar(&rewriteOutFlag, rewriteOutFlagName, viper.GetString(rewriteOutConfigKey), "write rewritten files below this directory instead of in place")
	bindFlagToConfig(cmd.Flags().Lookup(rewriteOutFlagName), rewriteOutConfigKey)

	cmd.Flags().StringVar(&rewriteDebounceFlag, rewriteDebounceFlagName, viper.GetString(rewriteDebounceConfigKey), "quiet period before watch mode re-runs")
	bindFlagToConfig(cmd.Flags().Lookup(rewriteDebounceFlagName), rewriteDebounceConfigKey)

	cmd.Flags().BoolVarP(&rewriteDryRunFlag, rewriteDryRunFlagName, "n", false, "show diffs without writing files")
	cmd.Flags().BoolVarP(&rewriteWatchFlag, rewriteWatchFlagName, "w", false, "keep running and rewrite files as they change")
}
