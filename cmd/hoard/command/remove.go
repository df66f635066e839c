package command

import (
	"github.com/spf13/cobra"

	"github.com/hoardpkg/hoard/cmd/hoard/cmdutils"
	"github.com/hoardpkg/hoard/internal/install"
)

// NewRemoveCmd wires up:
//
//	hoard remove <packages...>
func NewRemoveCmd(f *cmdutils.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <packages...>",
		Aliases: []string{"rm", "uninstall"},
		Short:   "Remove installed packages",
		Long: `Removes the binaries of the named packages. Names that do not resolve
are skipped with a warning.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := f.State(cmd.Context())
			if err != nil {
				return err
			}

			installer := install.NewInstaller(st.Downloader, st.Installed, st.Config.BinDir)
			orch := install.NewOrchestrator(st.Storage, installer, false, 0)
			return orch.RemovePackages(args)
		},
	}

	return cmd
}
