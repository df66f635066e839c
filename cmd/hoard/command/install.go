package command

import (
	"github.com/spf13/cobra"

	"github.com/hoardpkg/hoard/cmd/hoard/cmdutils"
	"github.com/hoardpkg/hoard/internal/install"
)

// NewInstallCmd wires up:
//
//	hoard install <packages...>
func NewInstallCmd(f *cmdutils.Factory) *cobra.Command {
	var force bool
	var parallel bool
	cmd := &cobra.Command{
		Use:     "install <packages...>",
		Aliases: []string{"i", "add"},
		Short:   "Install packages",
		Long: `Resolves every package name against the loaded repositories and installs
the matching binaries. The whole batch fails before any download starts
when a name does not resolve.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := f.State(cmd.Context())
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("parallel") {
				parallel = st.Config.Parallel
			}

			installer := install.NewInstaller(st.Downloader, st.Installed, st.Config.BinDir)
			orch := install.NewOrchestrator(st.Storage, installer, parallel, st.Config.ParallelLimit)
			return orch.InstallPackages(cmd.Context(), args, force, false)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reinstall even when already installed")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "install packages concurrently")

	return cmd
}
