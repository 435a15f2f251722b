package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"opencaption/cmd/opencaption/cmd/cmdutil"
	"opencaption/internal/app/export"
)

var (
	mediaID        string
	outputFilePath string
)

func init() {
	Cmd.Flags().StringVarP(&mediaID, "media", "m", "", "only export attempts for this media id")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the render audit log to excel",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := cmdutil.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		attempts, err := application.Orchestrator.ListRenderAttempts(cmd.Context(), mediaID)
		if err != nil {
			return err
		}
		if err := export.RenderAttemptsToExcel(attempts, outputFilePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, %d attempts written to %v\n", len(attempts), outputFilePath)
		return nil
	},
}
