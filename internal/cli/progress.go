package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// newProgress returns a dbscan progress callback drawing a bar on stderr,
// or nil when disabled or when stderr is not a terminal. finish clears the
// bar.
func newProgress(enabled bool, total int) (progress func(labeled, total int), finish func()) {
	if !enabled || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil, func() {}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("clustering"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	progress = func(labeled, _ int) { _ = bar.Set(labeled) }
	finish = func() { _ = bar.Finish() }
	return progress, finish
}
