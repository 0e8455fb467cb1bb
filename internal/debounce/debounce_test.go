package debounce

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFiresAfterDelay(t *testing.T) {
	d := New(20 * time.Millisecond)

	start := time.Now()
	cmd := d.Schedule(func() tea.Msg { return "fired" })
	require.True(t, d.Pending())

	msg := cmd()
	assert.Equal(t, "fired", msg)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.False(t, d.Pending(), "timer should be released after firing")
}

func TestScheduleStopsPreviousTimer(t *testing.T) {
	d := New(50 * time.Millisecond)

	first := d.Schedule(func() tea.Msg { return "first" })
	second := d.Schedule(func() tea.Msg { return "second" })

	start := time.Now()
	assert.Nil(t, first(), "superseded timer must not fire")
	assert.Less(t, time.Since(start), 50*time.Millisecond, "superseded timer should return without waiting")

	assert.Equal(t, "second", second())
}

func TestCancel(t *testing.T) {
	d := New(time.Second)

	cmd := d.Schedule(func() tea.Msg { return "fired" })
	d.Cancel()

	assert.False(t, d.Pending())
	assert.Nil(t, cmd())

	// Cancelling with nothing pending is harmless
	d.Cancel()
}

func TestCancelWhileWaiting(t *testing.T) {
	d := New(time.Second)
	cmd := d.Schedule(func() tea.Msg { return "fired" })

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	time.Sleep(10 * time.Millisecond)
	d.Cancel()

	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("cancelled timer kept waiting")
	}
}
