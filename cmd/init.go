package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const starterCatalog = `version: 1
rules:
  # Rules apply in order; every rule whose globs match a file rewrites the
  # output of the previous one.
  - name: icons
    values:
      "ti ti-heart": "ph-heart ph-bold ph-lg"
      "ti ti-x": "ph-x ph-bold ph-lg"
  - name: warning
    values:
      "ti ti-alert-triangle": "ph-warning ph-bold ph-lg"
    exclude:
      - "**/components/MkAnnouncementDialog.*"
  - name: warning-circle
    values:
      "ti ti-alert-triangle": "ph-warning-circle ph-bold ph-lg"
    include:
      - "**/components/MkAnnouncementDialog.*"
`

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default bundlekit.yaml configuration file",
		Long: `Create a bundlekit.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually. A starter rule catalog is
written next to it unless the configured catalog already exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			catalogPath := filepath.Join(viper.GetString(rootConfigKey), viper.GetString(catalogConfigKey))

			written, err := writeStarterCatalog(catalogPath)
			if err != nil {
				return fmt.Errorf("failed to write rule catalog: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)

			if written {
				cmd.Printf("Wrote %s\n", catalogPath)
			}

			return nil
		},
	}
}

func writeStarterCatalog(path string) (bool, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if _, err := file.WriteString(starterCatalog); err != nil {
		_ = file.Close()
		return false, err
	}

	return true, file.Close()
}

func init() {
	rootCmd.AddCommand(initCmd)
}
