package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"minicloud/config"
	"minicloud/internal/coordinator"
	"minicloud/internal/notify"
	"minicloud/internal/session"
	"minicloud/internal/storage"
	"minicloud/internal/summarizer"
	"minicloud/pkg/utils"
)

// ErrReported is returned by commands that already printed their failure as
// JSON. Callers only need to set the exit status.
var ErrReported = errors.New("command failed")

// LogLevel is shared with the process logger so --verbose can lower it.
var LogLevel = new(slog.LevelVar)

var cfg *config.Config

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "minicloud",
		Short: "Mini cloud storage client with document summaries",
		Long: `minicloud is a command-line client for a small file storage service.
It uploads, lists, downloads and deletes files and asks a separate
summarization service for document summaries.

Configuration is loaded from a config file, .env file or environment
variables (MINICLOUD_*).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newSummarizeCmd())
	rootCmd.AddCommand(newShellCmd())

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a config file (json, yaml or toml)")
	rootCmd.PersistentFlags().StringP("backend", "b", "", "Override storage backend from config (http or s3)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	return rootCmd
}

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command) error {
	if isVerbose(cmd) {
		LogLevel.Set(slog.LevelDebug)
	}

	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		loaded.Backend = strings.ToLower(backend)
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	slog.Debug("Configuration loaded", "backend", cfg.Backend, "storage_url", cfg.StorageURL, "summarizer_url", cfg.SummarizerURL)
	return nil
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

func storageLabel() string {
	if cfg.Backend == config.BackendS3 {
		return "s3://" + cfg.S3.BucketName
	}
	return cfg.StorageURL
}

// newCoordinator wires a coordinator for one command invocation. Notifications
// are printed to stderr as they happen and kept in a center that expires them.
func newCoordinator(cmd *cobra.Command, opts ...coordinator.Option) (*coordinator.Coordinator, error) {
	backend, err := storage.New(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	sink := notify.Fanout{&consoleSink{w: cmd.ErrOrStderr(), verbose: isVerbose(cmd)}}
	if isVerbose(cmd) {
		sink = append(sink, notify.LogSink{Logger: slog.Default()})
	}

	base := []coordinator.Option{
		coordinator.WithSink(sink),
		coordinator.WithCenter(notify.NewCenter(cfg.NotifyTTL)),
		coordinator.WithSession(session.New(session.DiscardStale(cfg.DiscardStaleSummaries))),
	}
	return coordinator.New(backend, summarizer.New(cfg.SummarizerURL), append(base, opts...)...), nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout, _ := cmd.Flags().GetInt("timeout")
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
}

func printResult(cmd *cobra.Command, command string, result any) error {
	if err := utils.FprintJSON(cmd.OutOrStdout(), result); err != nil {
		return fail(cmd, command, err)
	}
	return nil
}

func fail(cmd *cobra.Command, command string, err error) error {
	utils.FprintError(cmd.OutOrStdout(), err, command)
	return ErrReported
}

func isYes(response string) bool {
	switch strings.TrimSpace(response) {
	case "y", "yes", "Y", "YES":
		return true
	}
	return false
}

// prompt writes question to stderr and reads one answer line from in.
func prompt(cmd *cobra.Command, in *bufio.Reader, question string) bool {
	fmt.Fprint(cmd.ErrOrStderr(), question)
	response, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	return isYes(response)
}

type consoleSink struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

func (s *consoleSink) Notify(n notify.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.verbose && n.Err != nil {
		fmt.Fprintf(s.w, "[%s] %s: %v\n", n.Level, n.Message, n.Err)
		return
	}
	fmt.Fprintf(s.w, "[%s] %s\n", n.Level, n.Message)
}
