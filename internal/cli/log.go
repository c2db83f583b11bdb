package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the command logger. Lines carry a centisecond clock
// ("14:32:01.45") so slow metadata loads and image reads stand out.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one step of a command: loading the metadata document,
// measuring images or rendering the tree. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// done logs msg with the elapsed time, e.g. "Rendered drawing tree (84ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

// loaded reports a finished metadata load:
// "Loaded 3 drawings, 9 images from data/metadata.json (12ms)".
func (p *progress) loaded(drawings, images int, from string) {
	p.logger.Infof("Loaded %d drawings, %d images from %s (%s)", drawings, images, from, p.elapsed())
}

// measured reports an image size pass. Unreadable images turn the line into
// a warning; the viewer falls back to the placeholder size for them.
func (p *progress) measured(total, failed int) {
	if failed > 0 {
		p.logger.Warnf("Measured %d of %d images, %d unreadable (%s)", total-failed, total, failed, p.elapsed())
		return
	}
	p.logger.Infof("Measured %d images (%s)", total, p.elapsed())
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the server and its handlers.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() for contexts built outside the root command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
