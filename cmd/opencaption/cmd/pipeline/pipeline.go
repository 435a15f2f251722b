package pipeline

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"opencaption/cmd/opencaption/cmd/cmdutil"
	"opencaption/internal/app/model"
	"opencaption/internal/app/orchestrator"
)

var (
	styleID    string
	language   string
	resolution string
)

func init() {
	Cmd.Flags().StringVarP(&styleID, "style", "s", "", "caption style id (default: hormozi-bold)")
	Cmd.Flags().StringVarP(&language, "language", "l", "", "spoken language hint")
	Cmd.Flags().StringVarP(&resolution, "resolution", "r", "", "output size as WxH")
}

// Cmd represents the pipeline command
var Cmd = &cobra.Command{
	Use:   "pipeline <url>",
	Short: "Fetch, transcribe and render a remote video in one go",
	Long: `Fetch, transcribe and render a remote video in one go.

The job is persisted after every stage. When a stage fails the job id is
printed and "opencaption resume <job-id>" continues from that stage.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := cmdutil.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		job, err := application.Orchestrator.RunPipeline(cmd.Context(), orchestrator.PipelineRequest{
			URL:        args[0],
			StyleID:    styleID,
			Language:   language,
			Resolution: resolution,
		})
		report(cmd.OutOrStdout(), job)
		return err
	},
}

// ResumeCmd represents the resume command
var ResumeCmd = &cobra.Command{
	Use:   "resume <job-id>",
	Short: "Continue a failed pipeline job from its last completed stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := cmdutil.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		job, err := application.Orchestrator.ResumeJob(cmd.Context(), args[0])
		report(cmd.OutOrStdout(), job)
		return err
	},
}

func report(w io.Writer, job *model.PipelineJob) {
	if job == nil {
		return
	}
	switch job.Status {
	case model.JobSucceeded:
		fmt.Fprintf(w, "job %s succeeded: %s\n", job.ID, job.OutputPath)
	case model.JobFailed:
		fmt.Fprintf(w, "job %s failed at %s; resume with: opencaption resume %s\n", job.ID, job.FailedStage, job.ID)
	default:
		fmt.Fprintf(w, "job %s %s (stage %s)\n", job.ID, job.Status, job.Stage)
	}
}
