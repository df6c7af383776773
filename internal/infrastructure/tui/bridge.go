package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

var ErrNotAttached = errors.New("terminal program not attached")

// RefreshMsg asks the model to re-read the session view, e.g. after a
// debounced search commit that happened outside Update.
type RefreshMsg struct{}

// ConfirmRequestMsg asks the user a yes/no question. The answer is sent on
// reply exactly once.
type ConfirmRequestMsg struct {
	Prompt string
	reply  chan<- bool
}

// Bridge carries messages from goroutines outside the bubbletea loop into
// it. It is created before the program so the session can be wired first.
type Bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.attach(p.Send)
}

func (b *Bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

// Send delivers msg to the program. It reports false when no program is
// attached.
func (b *Bridge) Send(msg tea.Msg) bool {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()

	if send == nil {
		return false
	}
	send(msg)
	return true
}

// Refresh requests a redraw; it is meant for service.WithOnChange. It must
// not block, since changes can be raised from inside Update.
func (b *Bridge) Refresh() {
	go b.Send(RefreshMsg{})
}

// Confirm shows prompt in the terminal and blocks until the user answers or
// ctx is done. It satisfies service.Confirmer.
func (b *Bridge) Confirm(ctx context.Context, prompt string) (bool, error) {
	reply := make(chan bool, 1)
	if !b.Send(ConfirmRequestMsg{Prompt: prompt, reply: reply}) {
		return false, ErrNotAttached
	}

	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
