package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	filePath        string
	netURL          string
	postprocessOnly bool
	skipWhisper     bool
	updateYtdlp     bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "subpipe",
		Short:         "Generate and translate subtitles for a video",
		Long: "subpipe runs a video through transcription and translation and leaves\n" +
			"the translated subtitles next to the video under its base name.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (console, json)")

	rootCmd.Flags().StringVar(&opts.filePath, "file", "", "Path to a local video file")
	rootCmd.Flags().StringVar(&opts.netURL, "net", "", "URL of a video to download")
	rootCmd.Flags().BoolVar(&opts.postprocessOnly, "postprocess-only", false, "Only reconcile subtitle files for --file, no tools are run")
	rootCmd.Flags().BoolVar(&opts.skipWhisper, "skip-whisper", false, "Skip transcription and translate an existing subtitle file")
	rootCmd.Flags().BoolVar(&opts.updateYtdlp, "update-ytdlp", false, "Download the latest yt-dlp release and exit")

	rootCmd.AddCommand(newHistoryCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}
