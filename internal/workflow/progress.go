package workflow

import (
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"extrasync/internal/logging"
)

// progressInterval is the minimum gap between progress updates.
const progressInterval = 2 * time.Second

// progressReporter renders scan progress: a throttled terminal bar when
// interactive, rate-limited log lines otherwise.
type progressReporter struct {
	out         io.Writer
	interactive bool
	logger      *slog.Logger

	bar      *progressbar.ProgressBar
	lastLog  time.Time
	lastDone int
}

func newProgressReporter(out io.Writer, interactive bool, logger *slog.Logger) *progressReporter {
	return &progressReporter{
		out:         out,
		interactive: interactive,
		logger:      logging.WithComponent(logger, "scan"),
		lastLog:     time.Now(),
	}
}

// update is called once per hydrated group. The total is only known once
// scanning starts, so the bar is built lazily on the first call.
func (p *progressReporter) update(done, total int) {
	p.lastDone = done
	if p.interactive {
		if p.bar == nil {
			p.bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(p.out),
				progressbar.OptionSetDescription("Scanning"),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(progressInterval),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = p.bar.Set(done)
		return
	}

	if time.Since(p.lastLog) < progressInterval && done != total {
		return
	}
	p.lastLog = time.Now()
	p.logger.Info("scan progress",
		logging.Args(
			logging.Int("groups_done", done),
			logging.Int("groups_total", total),
			logging.Int("percent", done*100/total))...)
}

func (p *progressReporter) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
