package command

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hoardpkg/hoard/cmd/hoard/cmdutils"
	"github.com/hoardpkg/hoard/internal/style"
)

// NewListCmd wires up:
//
//	hoard list
func NewListCmd(f *cmdutils.Factory) *cobra.Command {
	var collection string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all known packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := f.State(cmd.Context())
			if err != nil {
				return err
			}

			packages := st.Storage.ListPackages(collection)
			if len(packages) == 0 {
				pterm.Info.Println("No packages found")
				return nil
			}

			for _, rp := range packages {
				line := style.Bold.Render(rp.Package.FullName('/'))
				if rp.Package.Version != "" {
					line += " " + rp.Package.Version
				}
				line += " " + style.DimText.Render(fmt.Sprintf("[%s#%s]", rp.RepoName, rp.Collection))
				fmt.Println(line)
			}
			pterm.Println(fmt.Sprintf("%d packages", len(packages)))
			return nil
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "restrict to one collection")

	return cmd
}
