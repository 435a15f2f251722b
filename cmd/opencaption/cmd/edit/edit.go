package edit

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"opencaption/cmd/opencaption/cmd/cmdutil"
	"opencaption/internal/app/model"
)

var language string

func init() {
	Cmd.Flags().StringVarP(&language, "language", "l", "", "override the language stored in the snapshot")
}

// Cmd represents the edit command
var Cmd = &cobra.Command{
	Use:   "edit <media-id> <snapshot.json>",
	Short: "Save an edited transcript snapshot as the active transcript",
	Long: `Save an edited transcript snapshot as the active transcript.

The snapshot has the same {language, segments} shape as the transcript.json
artifact written after transcription, so that file can be edited and fed
back. Use "-" to read the snapshot from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readSnapshot(cmd.InOrStdin(), args[1])
		if err != nil {
			return err
		}
		snapshot, err := model.UnmarshalSnapshot(data)
		if err != nil {
			return err
		}
		if language != "" {
			snapshot.Language = language
		}

		application, cleanup, err := cmdutil.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		transcript, err := application.Orchestrator.UpdateTranscript(cmd.Context(), args[0], snapshot.Segments, snapshot.Language)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "transcript %d: %d segments, language %q\n",
			transcript.ID, len(transcript.Segments), transcript.Language)
		return nil
	},
}

func readSnapshot(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
