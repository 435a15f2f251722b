package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"opencaption/cmd/opencaption/cmd/cmdutil"
	"opencaption/internal/app/orchestrator"
)

var (
	filePath  string
	sourceURL string
)

func init() {
	Cmd.Flags().StringVarP(&filePath, "file", "f", "", "local video file to ingest")
	Cmd.Flags().StringVarP(&sourceURL, "url", "u", "", "YouTube or direct http(s) URL to fetch")
	Cmd.MarkFlagsOneRequired("file", "url")
	Cmd.MarkFlagsMutuallyExclusive("file", "url")
}

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Store a video and print its media record",
	Long: `Store a video and print its media record.

- --file copies a local video into the data directory
- --url downloads a YouTube video or a direct http(s) link`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := cmdutil.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		src := orchestrator.Source{URL: sourceURL}
		if filePath != "" {
			f, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", filePath, err)
			}
			defer f.Close()
			src = orchestrator.Source{Reader: f, OriginalName: filepath.Base(filePath)}
		}

		media, err := application.Orchestrator.Ingest(cmd.Context(), src)
		if err != nil {
			return err
		}
		return cmdutil.PrintJSON(cmd.OutOrStdout(), media)
	},
}
