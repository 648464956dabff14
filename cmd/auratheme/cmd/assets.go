package cmd

import (
	"fmt"
	"io/fs"

	"github.com/jmylchreest/auratheme/internal/assets"
	"github.com/jmylchreest/auratheme/internal/storage"
	"github.com/spf13/cobra"
)

var assetsOverwrite bool

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Manage the device web page",
}

var assetsExportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write the built-in web page to a directory",
	Long: `Write the built-in web page to a directory so it can be customised
and served with --web-dir (storage.web_dir). Existing files are kept unless
--overwrite is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssetsExport,
}

func init() {
	assetsExportCmd.Flags().BoolVar(&assetsOverwrite, "overwrite", false, "replace files that already exist")
	assetsCmd.AddCommand(assetsExportCmd)
	rootCmd.AddCommand(assetsCmd)
}

func runAssetsExport(cmd *cobra.Command, args []string) error {
	sandbox, err := storage.NewSandbox(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}

	n, err := exportAssets(sandbox, assetsOverwrite)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d file(s) to %s\n", n, sandbox.BaseDir())
	return nil
}

// exportAssets copies every embedded asset into sandbox and returns how many
// files were written.
func exportAssets(sandbox *storage.Sandbox, overwrite bool) (int, error) {
	names, err := assets.ListAssets()
	if err != nil {
		return 0, fmt.Errorf("listing assets: %w", err)
	}
	staticFS, err := assets.GetStaticFS()
	if err != nil {
		return 0, fmt.Errorf("opening assets: %w", err)
	}

	written := 0
	for _, name := range names {
		if !overwrite {
			exists, err := sandbox.Exists(name)
			if err != nil {
				return written, err
			}
			if exists {
				continue
			}
		}

		data, err := fs.ReadFile(staticFS, name)
		if err != nil {
			return written, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := sandbox.AtomicWrite(name, data); err != nil {
			return written, fmt.Errorf("writing %s: %w", name, err)
		}
		written++
	}
	return written, nil
}
