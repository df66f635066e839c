package command

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hoardpkg/hoard/cmd/hoard/cmdutils"
	"github.com/hoardpkg/hoard/internal/install"
)

// NewRunCmd wires up:
//
//	hoard run <package> [args...]
func NewRunCmd(f *cmdutils.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <package> [args...]",
		Short: "Run a package without installing it",
		Long: `Downloads the package into the cache when needed and executes it with
the given arguments. Packages missing from every index are fetched from a
repository's base URL by naming convention.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := f.State(cmd.Context())
			if err != nil {
				return err
			}

			runner := install.NewRunner(st.Storage, st.Config.Repositories, st.Downloader,
				filepath.Join(st.Config.CacheDir, "run"))
			return runner.Run(cmd.Context(), args)
		},
	}

	// Flags after the package name belong to the executed binary.
	cmd.Flags().SetInterspersed(false)

	return cmd
}
