package cmd

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"minicloud/internal/coordinator"
	"minicloud/internal/models"
	"minicloud/pkg/utils"
)

func newDeleteCmd() *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:     "delete [filename]",
		Aliases: []string{"rm"},
		Short:   "Delete a file from storage",
		Long: `Delete a single file from storage.

The command asks for confirmation first. Nothing is sent to storage unless the
answer is yes. After a successful delete the file list is refreshed.

WARNING: This operation is irreversible. Deleted files cannot be recovered.`,
		Example: `  # Delete with confirmation prompt
  minicloud delete old-report.pdf

  # Delete without prompting
  minicloud delete old-report.pdf --confirm`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	deleteCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	deleteCmd.Flags().Int("timeout", 300, "Timeout in seconds for the operation (default: 5 minutes)")
	return deleteCmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	filename := args[0]
	confirm, _ := cmd.Flags().GetBool("confirm")

	c, err := newCoordinator(cmd)
	if err != nil {
		return fail(cmd, "delete", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	in := bufio.NewReader(cmd.InOrStdin())
	confirmed := false
	confirmer := coordinator.ConfirmFunc(func(name string) bool {
		confirmed = confirm || prompt(cmd, in, fmt.Sprintf("Are you sure you want to delete '%s'? (y/N): ", name))
		return confirmed
	})

	start := time.Now()
	if err := c.DeleteFile(ctx, filename, confirmer); err != nil {
		return fail(cmd, "delete", err)
	}

	result := models.DeleteResult{
		Filename:      filename,
		Deleted:       confirmed,
		Cancelled:     !confirmed,
		OperationTime: utils.FormatTime(start),
	}
	if confirmed {
		result.Files = c.Files()
	}
	return printResult(cmd, "delete", result)
}
