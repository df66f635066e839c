package command

import (
	"github.com/spf13/cobra"

	"github.com/hoardpkg/hoard/cmd/hoard/cmdutils"
	"github.com/hoardpkg/hoard/config"
	"github.com/hoardpkg/hoard/internal/install"
)

// NewInspectCmd wires up:
//
//	hoard inspect <package>
func NewInspectCmd(f *cmdutils.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <package>",
		Short: "Show the build log of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := f.State(cmd.Context())
			if err != nil {
				return err
			}
			return install.InspectBuildLog(cmd.Context(), st.Client, st.Storage, args[0], config.Global.Yes)
		},
	}

	return cmd
}
