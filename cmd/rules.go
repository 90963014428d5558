package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bundlekit.dev/pkg/bundlekit/internal/domain"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

var rulesCheckStrictFlag bool

// rulesCmd represents the rules command.
var rulesCmd = newRulesCmd()

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the rule catalog",
		Long:  "Show the rules of the catalog in the order they are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRulesList(cmd)
		},
	}

	cmd.AddCommand(newRulesListCmd(), newRulesCheckCmd())

	return cmd
}

func newRulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRulesList(cmd)
		},
	}
}

func runRulesList(cmd *cobra.Command) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	return workflow.Rules(ctx, domain.RulesArgs{
		Root:    m.Path(viper.GetString(rootConfigKey)),
		Catalog: m.Path(viper.GetString(catalogConfigKey)),
	})
}

func newRulesCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Find files where two rules rewrite the same token",
		Long: `Evaluate every rule against the selected files and report tokens that
more than one matching rule would rewrite. Rules meant to partition files by
their include/exclude globs should never overlap.

` + pathPatternsHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext(cmd)
			defer stop()

			return workflow.Check(ctx, domain.CheckArgs{
				EstimateArgs: estimateArgs(args),
				Strict:       rulesCheckStrictFlag,
			})
		},
	}

	cmd.Flags().BoolVar(&rulesCheckStrictFlag, "strict", false, "exit with an error when overlaps are found")

	return cmd
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
