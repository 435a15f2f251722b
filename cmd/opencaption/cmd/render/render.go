package render

import (
	"fmt"

	"github.com/spf13/cobra"

	"opencaption/cmd/opencaption/cmd/cmdutil"
	"opencaption/internal/app/orchestrator"
)

var (
	styleID    string
	resolution string
	srtOnly    bool
)

func init() {
	Cmd.Flags().StringVarP(&styleID, "style", "s", "", "caption style id (default: hormozi-bold)")
	Cmd.Flags().StringVarP(&resolution, "resolution", "r", "", "output size as WxH, e.g. 1080x1920")
	Cmd.Flags().BoolVar(&srtOnly, "srt-only", false, "write the plain SRT track instead of a video")
}

// Cmd represents the render command
var Cmd = &cobra.Command{
	Use:   "render <media-id>",
	Short: "Burn the active transcript into the video",
	Long: `Burn the active transcript into the video with a caption style.

Every burn-in attempt, successful or not, is recorded and can be listed
with "opencaption export".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := cmdutil.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := application.Orchestrator.Render(cmd.Context(), orchestrator.RenderRequest{
			MediaID:    args[0],
			StyleID:    styleID,
			Resolution: resolution,
			SRTOnly:    srtOnly,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Path)
		if res.Attempt != nil && res.Attempt.ArtifactURL != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "mirrored to %s\n", *res.Attempt.ArtifactURL)
		}
		return nil
	},
}
