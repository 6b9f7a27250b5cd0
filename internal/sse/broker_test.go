package sse

import (
	"strings"
	"testing"
	"time"
)

func recv(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while waiting for event")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("client count = %d, want 1", n)
	}

	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("client count after unsubscribe = %d, want 0", n)
	}
	if _, ok := <-ch; ok {
		t.Fatal("channel still open after unsubscribe")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Publish(Event{Type: "ping", Data: map[string]string{"k": "v"}})

	for i, ch := range []chan []byte{ch1, ch2} {
		msg := recv(t, ch)
		if !strings.Contains(msg, "event: ping") || !strings.Contains(msg, `"k":"v"`) {
			t.Errorf("client %d got %q", i+1, msg)
		}
	}
}

func TestEntityEventCarriesDesktopAggregate(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	b.PublishEntityEvent("folder.created", map[string]string{"id": "f1"})

	first := recv(t, ch)
	if !strings.Contains(first, "event: folder.created") || !strings.Contains(first, `"id":"f1"`) {
		t.Fatalf("entity event = %q", first)
	}

	// First entity event after start always triggers the aggregate.
	second := recv(t, ch)
	if !strings.Contains(second, "event: desktop.updated") {
		t.Fatalf("aggregate event = %q", second)
	}
}

func TestDesktopAggregateThrottled(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	b.PublishEntityEvent("item.created", map[string]string{"id": "i1"})
	b.PublishEntityEvent("item.updated", map[string]string{"id": "i1"})

	var got []string
	for i := 0; i < 3; i++ {
		got = append(got, recv(t, ch))
	}

	// item.created, desktop.updated, item.updated; the second aggregate is
	// suppressed inside the throttle window.
	if !strings.Contains(got[0], "event: item.created") ||
		!strings.Contains(got[1], "event: desktop.updated") ||
		!strings.Contains(got[2], "event: item.updated") {
		t.Fatalf("event order = %q", got)
	}
	select {
	case msg := <-ch:
		t.Fatalf("unexpected extra event %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseClosesClients(t *testing.T) {
	b := NewBroker(time.Hour)
	ch := b.Subscribe()
	b.Close()

	if _, ok := <-ch; ok {
		t.Fatal("channel still open after broker close")
	}

	// Post-close calls must not panic or block.
	b.Publish(Event{Type: "ping"})
	b.PublishEntityEvent("folder.created", nil)
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("client count after close = %d", n)
	}
	b.Close()
}
