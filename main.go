package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"minicloud/cmd"
	"minicloud/pkg/utils"
)

func main() {
	cmd.LogLevel.Set(slog.LevelWarn)
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cmd.LogLevel,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		if !errors.Is(err, cmd.ErrReported) {
			utils.PrintError(err, "minicloud")
			slog.Debug("Failed to execute command", "error", err)
		}
		stop()
		os.Exit(1)
	}
}
