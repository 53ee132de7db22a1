package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"minicloud/internal/coordinator"
	"minicloud/internal/session"
	"minicloud/pkg/utils"
)

const shellHelp = `Commands:
  ls                 refresh and show the file list
  put <files...>     upload local files in order
  get <filename>     download a file into the destination directory
  rm <filename>      delete a file (asks first)
  sum <filename>     start a summary in the background
  show               show the current summary
  close              dismiss the current summary
  status             print the full client state as JSON
  help               show this help
  quit               leave the shell`

func newShellCmd() *cobra.Command {
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long: `Start an interactive session that keeps one file list, one summary and
the recent notifications for as long as it runs.

Summaries run in the background; use 'show' to see the result and 'close' to
dismiss it. Leaving the shell waits for summaries still in flight.`,
		Example: `  # Start a session, saving downloads to ./downloads
  minicloud shell --destination ./downloads`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}

	shellCmd.Flags().StringP("destination", "d", ".", "Local directory for downloads")
	shellCmd.Flags().Int("timeout", 600, "Timeout in seconds for each operation")
	return shellCmd
}

type shell struct {
	cmd     *cobra.Command
	c       *coordinator.Coordinator
	in      *bufio.Reader
	out     io.Writer
	timeout time.Duration
	wg      sync.WaitGroup
}

var errUnknownCommand = errors.New("unknown command")

func runShell(cmd *cobra.Command, args []string) error {
	destination, _ := cmd.Flags().GetString("destination")
	timeout, _ := cmd.Flags().GetInt("timeout")

	c, err := newCoordinator(cmd, coordinator.WithSaver(coordinator.DirSaver{Dir: destination}))
	if err != nil {
		return fail(cmd, "shell", err)
	}

	sh := &shell{
		cmd:     cmd,
		c:       c,
		in:      bufio.NewReader(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
		timeout: time.Duration(timeout) * time.Second,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sh.run(ctx)
	return nil
}

func (s *shell) run(ctx context.Context) {
	fmt.Fprintf(s.out, "Connected to %s. Type 'help' for commands.\n", storageLabel())
	s.list(ctx)

	for ctx.Err() == nil {
		fmt.Fprint(s.out, "minicloud> ")
		line, err := s.in.ReadString('\n')

		if fields := strings.Fields(line); len(fields) > 0 {
			quit, cmdErr := s.exec(ctx, fields[0], fields[1:])
			if cmdErr != nil {
				fmt.Fprintf(s.out, "error: %v\n", cmdErr)
			}
			if quit {
				break
			}
		}
		if err != nil {
			fmt.Fprintln(s.out)
			break
		}
	}

	s.wg.Wait()
}

func (s *shell) exec(ctx context.Context, name string, args []string) (bool, error) {
	switch name {
	case "ls", "list":
		s.list(ctx)
	case "put", "upload":
		return false, s.put(ctx, args)
	case "get", "download":
		return false, s.get(ctx, args)
	case "rm", "delete":
		return false, s.rm(ctx, args)
	case "sum", "summarize":
		return false, s.sum(ctx, args)
	case "show":
		s.show()
	case "close":
		s.c.DismissSummary()
	case "status":
		return false, utils.FprintJSON(s.out, s.c.Snapshot())
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s (type 'help')", errUnknownCommand, name)
	}
	return false, nil
}

func (s *shell) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *shell) list(ctx context.Context) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	// A failed refresh has already been reported; show what we had.
	_ = s.c.FetchListing(opCtx)
	s.printFiles()
}

func (s *shell) printFiles() {
	files := s.c.Files()
	if len(files) == 0 {
		fmt.Fprintln(s.out, "(no files)")
		return
	}
	for i, f := range files {
		fmt.Fprintf(s.out, "%3d  %s\n", i+1, f)
	}
}

func (s *shell) put(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.New("usage: put <files...>")
	}
	if err := validatePaths(paths); err != nil {
		return err
	}

	tasks := make([]coordinator.UploadTask, 0, len(paths))
	for _, path := range paths {
		tasks = append(tasks, coordinator.FileTask(path, ""))
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	failed := 0
	for _, outcome := range s.c.UploadBatch(opCtx, tasks) {
		if !outcome.OK() {
			failed++
		}
	}
	fmt.Fprintf(s.out, "%d uploaded, %d failed\n", len(tasks)-failed, failed)
	s.printFiles()
	return nil
}

func (s *shell) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: get <filename>")
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	path, err := s.c.DownloadFile(opCtx, args[0])
	if err != nil {
		// already shown as a notification
		return nil
	}
	fmt.Fprintf(s.out, "saved to %s\n", path)
	return nil
}

func (s *shell) rm(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <filename>")
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	confirmer := coordinator.ConfirmFunc(func(name string) bool {
		return prompt(s.cmd, s.in, fmt.Sprintf("Delete '%s'? (y/N): ", name))
	})
	if err := s.c.DeleteFile(opCtx, args[0], confirmer); err != nil {
		// already shown as a notification
		return nil
	}
	s.printFiles()
	return nil
}

func (s *shell) sum(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sum <filename>")
	}

	opCtx, cancel := s.opContext(ctx)
	done := s.c.RequestSummary(opCtx, args[0])

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		<-done
	}()

	fmt.Fprintf(s.out, "Generating summary for %s... use 'show' to view it\n", args[0])
	return nil
}

func (s *shell) show() {
	snap := s.c.Summary()
	switch snap.State {
	case session.Idle:
		fmt.Fprintln(s.out, "(no summary)")
	case session.Loading:
		fmt.Fprintf(s.out, "Generating summary for %s...\n", snap.TargetFilename)
	case session.Resolved:
		fmt.Fprintf(s.out, "Summary: %s\n\n%s\n", snap.TargetFilename, snap.ResultText)
	case session.Failed:
		fmt.Fprintf(s.out, "Summary: %s\n\n%s\n", snap.TargetFilename, snap.ErrorText)
	}
}
