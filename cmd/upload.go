package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"minicloud/internal/coordinator"
	"minicloud/internal/models"
	"minicloud/pkg/utils"
)

func newUploadCmd() *cobra.Command {
	uploadCmd := &cobra.Command{
		Use:   "upload [files...]",
		Short: "Upload files to storage",
		Long: `Upload one or more files to storage.

Files are uploaded one at a time in the order given. A failed file does not
stop the rest of the batch. The file list is refreshed once after the batch.

The remote name is the local base name, or --name when a single file is given.`,
		Example: `  # Upload a single file
  minicloud upload report.pdf

  # Upload several files without the confirmation prompt
  minicloud upload a.txt b.txt c.pdf --confirm

  # Upload under a different name
  minicloud upload ./build/out.pdf --name release-notes.pdf

  # Show what would be uploaded
  minicloud upload *.pdf --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUpload,
	}

	uploadCmd.Flags().StringP("name", "n", "", "Remote name for the file (single file only)")
	uploadCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	uploadCmd.Flags().Bool("dry-run", false, "Show what would be uploaded without actually uploading")
	uploadCmd.Flags().Int("timeout", 3600, "Timeout in seconds for the operation (default: 1 hour)")
	return uploadCmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	confirm, _ := cmd.Flags().GetBool("confirm")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if name != "" && len(args) > 1 {
		return fail(cmd, "upload", errors.New("--name can only be used with a single file"))
	}
	if err := validatePaths(args); err != nil {
		return fail(cmd, "upload", err)
	}

	tasks := make([]coordinator.UploadTask, 0, len(args))
	for _, path := range args {
		tasks = append(tasks, coordinator.FileTask(path, name))
	}

	if dryRun {
		return printResult(cmd, "upload", dryRunResult(args, tasks))
	}

	if !confirm {
		out := cmd.ErrOrStderr()
		fmt.Fprintf(out, "Upload operation summary:\n")
		fmt.Fprintf(out, "  Storage: %s\n", storageLabel())
		for i, task := range tasks {
			fmt.Fprintf(out, "  %s -> %s\n", args[i], task.Name)
		}
		if !prompt(cmd, bufio.NewReader(cmd.InOrStdin()), "Continue with upload? (y/N): ") {
			fmt.Fprintln(out, "Upload cancelled.")
			return nil
		}
	}

	c, err := newCoordinator(cmd)
	if err != nil {
		return fail(cmd, "upload", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if isVerbose(cmd) {
		cmd.PrintErrf("Starting upload of %d file(s) to %s\n", len(tasks), storageLabel())
	}

	start := time.Now()
	outcomes := c.UploadBatch(ctx, tasks)

	result := models.UploadResult{
		Backend:        storageLabel(),
		Items:          make([]models.UploadItem, 0, len(outcomes)),
		TotalFiles:     len(outcomes),
		Files:          c.Files(),
		OperationTime:  utils.FormatTime(start),
		UploadDuration: utils.FormatDuration(time.Since(start)),
	}
	for i, outcome := range outcomes {
		item := models.UploadItem{
			LocalPath: args[i],
			Filename:  outcome.Filename,
			Uploaded:  outcome.OK(),
		}
		if outcome.OK() {
			item.Size = outcome.Size
			item.SizeHuman = utils.FormatBytes(outcome.Size)
			result.TotalSizeBytes += outcome.Size
		} else {
			item.Error = outcome.Err.Error()
			result.FailedFiles++
		}
		result.Items = append(result.Items, item)
	}
	result.TotalSizeHuman = utils.FormatBytes(result.TotalSizeBytes)

	if err := printResult(cmd, "upload", result); err != nil {
		return err
	}
	if result.FailedFiles > 0 {
		return ErrReported
	}
	return nil
}

func validatePaths(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot access %q: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%q is a directory", path)
		}
	}
	return nil
}

func dryRunResult(paths []string, tasks []coordinator.UploadTask) models.UploadResult {
	result := models.UploadResult{
		Backend:        storageLabel(),
		Items:          make([]models.UploadItem, 0, len(tasks)),
		TotalFiles:     len(tasks),
		OperationTime:  utils.FormatTime(time.Now()),
		UploadDuration: "0s",
		DryRun:         true,
	}
	for i, task := range tasks {
		var size int64
		if info, err := os.Stat(paths[i]); err == nil {
			size = info.Size()
		}
		result.Items = append(result.Items, models.UploadItem{
			LocalPath: filepath.Clean(paths[i]),
			Filename:  task.Name,
			Size:      size,
			SizeHuman: utils.FormatBytes(size),
		})
		result.TotalSizeBytes += size
	}
	result.TotalSizeHuman = utils.FormatBytes(result.TotalSizeBytes)
	return result
}
