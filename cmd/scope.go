package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bundlekit.dev/pkg/bundlekit/internal/domain"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

var scopeDiscoverFlag bool

// scopeCmd represents the scope command.
var scopeCmd = newScopeCmd()

func newScopeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope <module> [class names...]",
		Short: "Generate scoped CSS class names for a style module",
		Long: `Generate the scoped class names a style module's local classes compile to.
Names are stable across builds: they depend only on the module path relative
to the project root and the local class name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !scopeDiscoverFlag {
				return errors.New("no class names given; pass names or --discover")
			}

			ctx, stop := commandContext(cmd)
			defer stop()

			return workflow.Scope(ctx, domain.ScopeArgs{
				Root:     m.Path(viper.GetString(rootConfigKey)),
				Module:   m.Path(args[0]),
				Names:    args[1:],
				Discover: scopeDiscoverFlag,
			})
		},
	}

	cmd.Flags().BoolVarP(&scopeDiscoverFlag, "discover", "d", false, "scope every class selector found in the module")

	return cmd
}

func init() {
	rootCmd.AddCommand(scopeCmd)
}
