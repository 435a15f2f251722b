package transcribe

import (
	"fmt"

	"github.com/spf13/cobra"

	"opencaption/cmd/opencaption/cmd/cmdutil"
)

var language string

func init() {
	Cmd.Flags().StringVarP(&language, "language", "l", "", "spoken language hint, e.g. en (default: auto-detect)")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <media-id>",
	Short: "Transcribe a media item and make the result its active transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := cmdutil.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		transcript, err := application.Orchestrator.Transcribe(cmd.Context(), args[0], language)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "transcript %d: %d segments, language %q\n",
			transcript.ID, len(transcript.Segments), transcript.Language)
		return nil
	},
}
