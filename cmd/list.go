package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"minicloud/internal/models"
	"minicloud/pkg/utils"
)

func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List files in storage",
		Long: `List the files currently held by the storage service.

Listing payloads are normalized: single-quoted lists are accepted, records are
reduced to their name, filename or file field, and anything else is shown as
compact JSON.`,
		Example: `  # List files
  minicloud list

  # List files from the S3 backend
  minicloud list --backend s3`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	listCmd.Flags().Int("timeout", 60, "Timeout in seconds for the operation")
	return listCmd
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := newCoordinator(cmd)
	if err != nil {
		return fail(cmd, "list", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	start := time.Now()
	if err := c.FetchListing(ctx); err != nil {
		return fail(cmd, "list", err)
	}

	files := c.Files()
	return printResult(cmd, "list", models.ListResult{
		Backend:       storageLabel(),
		Files:         files,
		TotalFiles:    len(files),
		OperationTime: utils.FormatTime(start),
		ListDuration:  utils.FormatDuration(time.Since(start)),
	})
}
