package server

import (
	"encoding/json"
	"testing"

	"github.com/playperu/memory/internal/memory"
)

func receive(t *testing.T, ch chan []byte) Event {
	t.Helper()
	select {
	case data := <-ch:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		return ev
	default:
		t.Fatal("no event published")
		return Event{}
	}
}

func TestBrokerPublishesPerSession(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("a")
	other := b.Subscribe("b")

	b.Publish("a", Event{Type: EventStatus, Message: "hello"})

	if ev := receive(t, a); ev.Type != EventStatus || ev.Message != "hello" {
		t.Errorf("event = %+v", ev)
	}
	if len(other) != 0 {
		t.Error("event leaked to another session")
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("a")
	if got := b.Subscribers("a"); got != 1 {
		t.Fatalf("subscribers = %d, want 1", got)
	}

	b.Unsubscribe("a", ch)
	b.Publish("a", Event{Type: EventStatus})

	if got := b.Subscribers("a"); got != 0 {
		t.Errorf("subscribers = %d, want 0", got)
	}
	if len(ch) != 0 {
		t.Error("unsubscribed channel received an event")
	}
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("a")

	for range cap(ch) + 10 {
		b.Publish("a", Event{Type: EventStatus})
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered = %d, want %d", len(ch), cap(ch))
	}
}

func TestPresenterEvents(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("s1")
	p := presenter{broker: b, sessionID: "s1"}

	p.Render([]memory.Card{
		{ID: "c1", PairKey: "pair-0", Icon: "/icons/vue.svg", State: memory.CardHidden},
		{ID: "c2", PairKey: "pair-0", Icon: "/icons/vue.svg", State: memory.CardRevealed},
	}, 16)
	ev := receive(t, ch)
	if ev.Type != EventRender || ev.BoardSize != 16 || len(ev.Cards) != 2 {
		t.Fatalf("render event = %+v", ev)
	}
	if ev.Cards[0].Icon != "" {
		t.Errorf("hidden card exposes icon %q", ev.Cards[0].Icon)
	}
	if ev.Cards[1].Icon != "/icons/vue.svg" {
		t.Errorf("revealed card icon = %q", ev.Cards[1].Icon)
	}

	p.SetStatusMessage("Blue starts")
	if ev := receive(t, ch); ev.Type != EventStatus || ev.Message != "Blue starts" {
		t.Errorf("status event = %+v", ev)
	}

	p.SetStats(memory.Stats{CurrentPlayer: memory.PlayerRed, Moves: 3, TotalPairs: 8})
	ev = receive(t, ch)
	if ev.Type != EventStats || ev.Stats == nil || ev.Stats.Moves != 3 || ev.Stats.CurrentPlayer != memory.PlayerRed {
		t.Errorf("stats event = %+v", ev)
	}
}
