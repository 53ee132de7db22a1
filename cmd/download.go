package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"minicloud/internal/coordinator"
	"minicloud/internal/models"
	"minicloud/pkg/utils"
)

func newDownloadCmd() *cobra.Command {
	downloadCmd := &cobra.Command{
		Use:   "download [filename]",
		Short: "Download a file from storage",
		Long: `Download a single file from storage into a local directory.

The file is saved under its remote name inside --destination, which defaults
to the current directory and is created if missing.`,
		Example: `  # Download into the current directory
  minicloud download report.pdf

  # Download into a specific directory
  minicloud download report.pdf --destination ./downloads`,
		Args: cobra.ExactArgs(1),
		RunE: runDownload,
	}

	downloadCmd.Flags().StringP("destination", "d", ".", "Local directory to save the file in")
	downloadCmd.Flags().Int("timeout", 3600, "Timeout in seconds for the operation (default: 1 hour)")
	return downloadCmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	filename := args[0]
	destination, _ := cmd.Flags().GetString("destination")

	c, err := newCoordinator(cmd, coordinator.WithSaver(coordinator.DirSaver{Dir: destination}))
	if err != nil {
		return fail(cmd, "download", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if isVerbose(cmd) {
		cmd.PrintErrf("Downloading %s from %s to %s\n", filename, storageLabel(), destination)
	}

	start := time.Now()
	path, err := c.DownloadFile(ctx, filename)
	if err != nil {
		return fail(cmd, "download", err)
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	return printResult(cmd, "download", models.DownloadResult{
		Backend:          storageLabel(),
		Filename:         filename,
		LocalPath:        path,
		SizeBytes:        size,
		SizeHuman:        utils.FormatBytes(size),
		OperationTime:    utils.FormatTime(start),
		DownloadDuration: utils.FormatDuration(time.Since(start)),
	})
}
