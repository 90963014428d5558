package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bundlekit.dev/pkg/bundlekit/internal/domain"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previous rewrite run reports",
		Long:  "View previous rewrite run reports from a reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := commandContext(cmd)
			defer stop()

			reportsPath := m.Path(viper.GetString(outputFlagName))

			return workflow.View(ctx, domain.ViewArgs{
				Root:    m.Path(viper.GetString(rootConfigKey)),
				Reports: reportsPath,
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
