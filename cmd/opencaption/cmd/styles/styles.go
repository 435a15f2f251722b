package styles

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"opencaption/cmd/opencaption/cmd/cmdutil"
	"opencaption/internal/app/style"
)

var asJSON bool

func init() {
	Cmd.Flags().BoolVar(&asJSON, "json", false, "print the full style definitions as JSON")
}

// Cmd represents the styles command
var Cmd = &cobra.Command{
	Use:   "styles",
	Short: "List the caption styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if asJSON {
			return cmdutil.PrintJSON(cmd.OutOrStdout(), style.All())
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tLABEL\tFONT\tKARAOKE")
		for _, s := range style.All() {
			id := s.ID
			if id == style.Default().ID {
				id += " (default)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", id, s.Label, s.Font, s.Karaoke)
		}
		return tw.Flush()
	},
}
