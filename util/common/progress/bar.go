package progress

import (
	"fmt"
	"sync"

	"github.com/pterm/pterm"

	"github.com/hoardpkg/hoard/internal/download"
	"github.com/hoardpkg/hoard/util/common"
)

// Tracker renders a pterm progress bar driven by download state updates.
// Each concurrent transfer owns one Tracker; the returned callback is safe
// to invoke from any goroutine.
type Tracker struct {
	mu    sync.Mutex
	title string
	bar   *pterm.ProgressbarPrinter
	last  int64
	done  bool
}

// NewTracker creates a Tracker titled after the file being fetched.
func NewTracker(title string) *Tracker {
	return &Tracker{title: title}
}

// Callback returns the function handed to the download pipeline.
func (t *Tracker) Callback() download.Callback {
	return func(state download.State) {
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.done {
			return
		}
		if t.bar == nil {
			title := t.title
			if state.Total > 0 {
				title = fmt.Sprintf("%s (%s)", t.title, common.GetSize(state.Total))
			}
			bar := pterm.DefaultProgressbar.
				WithTitle(title).
				WithRemoveWhenDone(false)
			if state.Total > 0 {
				bar = bar.WithTotal(int(state.Total))
			}
			t.bar, _ = bar.Start()
		}

		t.bar.Add(int(state.Transferred - t.last))
		t.last = state.Transferred

		if state.Total > 0 && state.Transferred >= state.Total {
			t.stopLocked()
		}
	}
}

// Stop finalizes the bar. Safe to call after completion.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Tracker) stopLocked() {
	if t.done {
		return
	}
	t.done = true
	if t.bar != nil {
		t.bar.Stop()
	}
}
