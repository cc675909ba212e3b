package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/bricks/pkg/app"
	"tableflip.dev/bricks/pkg/store"
)

// errorTimeout is how long an inline error stays on screen.
const errorTimeout = 4 * time.Second

// alertSeconds is how long an info alert stays up. bubbleup counts whole
// seconds.
const alertSeconds = 3

// errorClearMsg clears the inline error if no newer one replaced it.
type errorClearMsg struct {
	seq int
}

// weightMsg carries the weight looked up for a set being added.
type weightMsg struct {
	number string
	grams  *int
}

// imageMsg reports the image lookup of a set.
type imageMsg struct {
	number string
	path   string
	err    error
}

// storeEventMsg is a change to the collection file by another process. ok is
// false once the watch ended.
type storeEventMsg struct {
	event store.Event
	ok    bool
}

func clearErrorAfter(seq int) tea.Cmd {
	return tea.Tick(errorTimeout, func(time.Time) tea.Msg {
		return errorClearMsg{seq: seq}
	})
}

// fetchWeight runs off the update loop. FetchWeight only touches the weight
// fetcher.
func fetchWeight(ctx context.Context, svc *app.Service, number string) tea.Cmd {
	return func() tea.Msg {
		return weightMsg{number: number, grams: svc.FetchWeight(ctx, number)}
	}
}

func waitForStore(ch <-chan store.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		return storeEventMsg{event: ev, ok: ok}
	}
}
