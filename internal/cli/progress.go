package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressReporter shows a progress bar on stderr for multi-file runs.
// OnFileProcessed may be called from several goroutines.
type progressReporter struct {
	quiet   bool
	fileBar *progressbar.ProgressBar
}

func newProgress(totalFiles int, quiet bool) *progressReporter {
	p := &progressReporter{quiet: quiet}
	if quiet {
		return p
	}

	p.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
	return p
}

func (p *progressReporter) OnFileProcessed(string) {
	if p.quiet || p.fileBar == nil {
		return
	}
	// ProgressBar guards its own state.
	_ = p.fileBar.Add(1)
}

func (p *progressReporter) Finish() {
	if p.quiet || p.fileBar == nil {
		return
	}
	_ = p.fileBar.Finish()
}
