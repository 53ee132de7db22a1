package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"minicloud/internal/models"
	"minicloud/internal/session"
	"minicloud/pkg/utils"
)

func newSummarizeCmd() *cobra.Command {
	summarizeCmd := &cobra.Command{
		Use:     "summarize [filename]",
		Aliases: []string{"sum"},
		Short:   "Summarize a document in storage",
		Long: `Ask the summarization service for a summary of a file already in storage.

The summary is returned as markdown. On failure the output contains the
service's error detail and a short checklist.`,
		Example: `  # Print the summary result as JSON
  minicloud summarize paper.pdf

  # Print only the summary text
  minicloud summarize paper.pdf --raw`,
		Args: cobra.ExactArgs(1),
		RunE: runSummarize,
	}

	summarizeCmd.Flags().Bool("raw", false, "Print only the summary text")
	summarizeCmd.Flags().Int("timeout", 600, "Timeout in seconds for the operation (default: 10 minutes)")
	return summarizeCmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	filename := args[0]
	raw, _ := cmd.Flags().GetBool("raw")

	c, err := newCoordinator(cmd)
	if err != nil {
		return fail(cmd, "summarize", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	start := time.Now()
	snap := c.Summarize(ctx, filename)

	if raw {
		if snap.State == session.Failed {
			fmt.Fprintln(cmd.ErrOrStderr(), snap.ErrorText)
			return ErrReported
		}
		fmt.Fprintln(cmd.OutOrStdout(), snap.ResultText)
		return nil
	}

	result := models.SummaryResult{
		Filename:        filename,
		State:           snap.State.String(),
		Summary:         snap.ResultText,
		Error:           snap.ErrorText,
		OperationTime:   utils.FormatTime(start),
		SummaryDuration: utils.FormatDuration(time.Since(start)),
	}
	if err := printResult(cmd, "summarize", result); err != nil {
		return err
	}
	if snap.State == session.Failed {
		return ErrReported
	}
	return nil
}
