package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"bundlekit.dev/pkg/bundlekit/pkg/shortid"
)

var hashSeedFlag uint32
var hashDecodeFlag bool

// hashCmd represents the hash command.
var hashCmd = newHashCmd()

func newHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <input...>",
		Short: "Print short identifier hashes",
		Long: `Print the 53-bit hash of each input and its base62 form. With --decode the
inputs are base62 strings converted back to integers.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tableBuffer bytes.Buffer

			table := tablewriter.NewWriter(&tableBuffer)
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetAutoFormatHeaders(false)

			if hashDecodeFlag {
				table.SetHeader([]string{"Base62", "Value"})

				for _, arg := range args {
					n, err := shortid.DecodeBase62(arg)
					if err != nil {
						return fmt.Errorf("decode %q: %w", arg, err)
					}

					table.Append([]string{arg, fmt.Sprintf("%d", n)})
				}
			} else {
				table.SetHeader([]string{"Input", "Hash", "Base62"})

				for _, arg := range args {
					n := shortid.HashWithSeed(arg, hashSeedFlag)
					table.Append([]string{arg, fmt.Sprintf("%d", n), shortid.Base62(n)})
				}
			}

			table.Render()
			cmd.Print(tableBuffer.String())

			return nil
		},
	}

	cmd.Flags().Uint32Var(&hashSeedFlag, "seed", 0, "hash seed")
	cmd.Flags().BoolVar(&hashDecodeFlag, "decode", false, "decode base62 inputs")

	return cmd
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
