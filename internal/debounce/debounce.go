// Package debounce delays a Bubble Tea command until input has been quiet
// for a fixed interval.
package debounce

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Debouncer keeps at most one pending timer. Scheduling again stops the
// previous timer, whose command then resolves to a nil message.
type Debouncer struct {
	delay time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// New creates a debouncer with the given quiet period
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending timer and returns a command that produces
// fn() once the quiet period elapses without another Schedule or Cancel.
func (d *Debouncer) Schedule(fn func() tea.Msg) tea.Cmd {
	d.mu.Lock()
	if d.stop != nil {
		close(d.stop)
	}
	stop := make(chan struct{})
	d.stop = stop
	d.mu.Unlock()

	return func() tea.Msg {
		timer := time.NewTimer(d.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-stop:
			return nil
		}

		// A cancel that raced with the timer still wins
		d.mu.Lock()
		select {
		case <-stop:
			d.mu.Unlock()
			return nil
		default:
		}
		d.stop = nil
		d.mu.Unlock()
		return fn()
	}
}

// Cancel stops the pending timer, if any
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		close(d.stop)
		d.stop = nil
	}
}

// Pending reports whether a timer is waiting to fire
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stop != nil
}
