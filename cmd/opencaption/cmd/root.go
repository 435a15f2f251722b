package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"opencaption/cmd/opencaption/cmd/cmdutil"
	"opencaption/cmd/opencaption/cmd/config"
	"opencaption/cmd/opencaption/cmd/edit"
	"opencaption/cmd/opencaption/cmd/export"
	"opencaption/cmd/opencaption/cmd/ingest"
	"opencaption/cmd/opencaption/cmd/pipeline"
	"opencaption/cmd/opencaption/cmd/render"
	"opencaption/cmd/opencaption/cmd/serve"
	"opencaption/cmd/opencaption/cmd/styles"
	"opencaption/cmd/opencaption/cmd/transcribe"
	"opencaption/cmd/opencaption/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "opencaption",
	Short: "Burn styled, word-timed captions into short-form videos",
	Long: `Burn styled, word-timed captions into short-form videos.
- Ingest a video by upload or from a YouTube / direct URL
- Transcribe it with whisper.cpp or the OpenAI API
- Render it with a caption style, or export a plain SRT track
- Run everything as one resumable pipeline, or serve the HTTP API`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(ingest.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(edit.Cmd)
	rootCmd.AddCommand(render.Cmd)
	rootCmd.AddCommand(pipeline.Cmd)
	rootCmd.AddCommand(pipeline.ResumeCmd)
	rootCmd.AddCommand(styles.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&cmdutil.ConfigPath, "config", "c", "", "config file (default is $OPENCAPTION_CONFIG or ./opencaption.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&cmdutil.Verbose, "verbose", "V", false, "verbose output")
}
