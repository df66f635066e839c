package command

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hoardpkg/hoard/cmd/hoard/cmdutils"
	"github.com/hoardpkg/hoard/internal/style"
)

// NewSearchCmd wires up:
//
//	hoard search <query>
func NewSearchCmd(f *cmdutils.Factory) *cobra.Command {
	var caseSensitive bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search packages across all repositories",
		Long: `Scores every known package against the query: exact name matches rank
before substring matches. A variant qualifier (name@variant) filters the
results.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := f.State(cmd.Context())
			if err != nil {
				return err
			}

			results := st.Storage.Search(args[0], caseSensitive)
			if len(results) == 0 {
				pterm.Info.Println("No packages found")
				return nil
			}

			for _, rp := range results {
				line := style.Bold.Render(rp.Package.FullName('/'))
				if rp.Package.Version != "" {
					line += " " + rp.Package.Version
				}
				line += " " + style.DimText.Render(fmt.Sprintf("[%s#%s]", rp.RepoName, rp.Collection))
				fmt.Println(line)
				if rp.Package.Description != "" {
					fmt.Println("  " + style.DimText.Render(rp.Package.Description))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match the query case-sensitively")

	return cmd
}
