package command

import (
	"github.com/spf13/cobra"

	"github.com/hoardpkg/hoard/cmd/hoard/cmdutils"
)

// NewSyncCmd wires up:
//
//	hoard sync
func NewSyncCmd(f *cmdutils.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Aliases: []string{"update-index"},
		Short:   "Refresh repository metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := f.State(cmd.Context())
			if err != nil {
				return err
			}
			return st.Sync(cmd.Context())
		},
	}

	return cmd
}
