package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 2)
	b.Subscribe(EventPageLoaded, func(e DomainEvent) { got <- e })
	b.Subscribe(EventSelectionMade, func(e DomainEvent) { t.Errorf("unexpected event %v", e.Type()) })

	b.Publish(PageLoadedEvent{Page: 2, Offset: 20, Count: 10, Total: 30})

	select {
	case e := <-got:
		ev, ok := e.(PageLoadedEvent)
		require.True(t, ok)
		assert.Equal(t, 20, ev.Offset)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	unsubscribe := b.Subscribe(EventFetchFailed, func(DomainEvent) { first <- struct{}{} })
	b.Subscribe(EventFetchFailed, func(DomainEvent) { second <- struct{}{} })

	unsubscribe()
	b.Publish(FetchFailedEvent{Widget: "pagination"})

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber not called")
	}
	select {
	case <-first:
		t.Fatal("unsubscribed handler was called")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	b := New()
	defer b.Close()

	done := make(chan struct{}, 1)
	b.Subscribe(EventSelectionMade, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventSelectionMade, func(DomainEvent) { done <- struct{}{} })

	b.Publish(SelectionMadeEvent{Display: "John Doe"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bus stopped after handler panic")
	}
}
