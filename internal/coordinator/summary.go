package coordinator

import (
	"context"
	"log/slog"

	"minicloud/internal/notify"
	"minicloud/internal/session"
)

// Summarizer produces a summary for a file already in storage.
type Summarizer interface {
	Summarize(ctx context.Context, filename string) (string, error)
}

// RequestSummary enters Loading before returning and runs the call in the
// background. The returned channel is closed once the completion has been
// applied to the session.
func (c *Coordinator) RequestSummary(ctx context.Context, filename string) <-chan struct{} {
	tok := c.session.Begin(filename)
	done := make(chan struct{})

	go func() {
		defer close(done)
		c.completeSummary(ctx, tok, filename)
	}()
	return done
}

// Summarize is the blocking form of RequestSummary.
func (c *Coordinator) Summarize(ctx context.Context, filename string) session.Snapshot {
	tok := c.session.Begin(filename)
	c.completeSummary(ctx, tok, filename)
	return c.session.Snapshot()
}

func (c *Coordinator) DismissSummary() {
	c.session.Dismiss()
}

func (c *Coordinator) completeSummary(ctx context.Context, tok session.Token, filename string) {
	id := c.ops.start(OpSummarize, filename)

	text, err := c.summarizer.Summarize(ctx, filename)
	if err != nil {
		serr := &SummarizeFailedError{Filename: filename, Err: err}
		c.ops.finish(OpSummarize, filename, id, serr)

		if !c.session.Fail(tok, session.FailureText(err.Error())) {
			c.logger.Debug("summary failure not applied", slog.String("filename", filename), slog.Uint64("token", uint64(tok)))
		}
		c.emit(notify.New(notify.LevelError, filename, "Summary failed: "+filename, serr))
		return
	}

	c.ops.finish(OpSummarize, filename, id, nil)
	if !c.session.Resolve(tok, text) {
		c.logger.Debug("summary not applied", slog.String("filename", filename), slog.Uint64("token", uint64(tok)))
	}
	c.emit(notify.New(notify.LevelSuccess, filename, "Summary ready: "+filename, nil))
}
