package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/memory/internal/memory"
)

// Event types streamed to game subscribers.
const (
	EventState  = "state"
	EventRender = "render"
	EventStatus = "status"
	EventStats  = "stats"
	EventError  = "error"
)

// Event is the payload published to game subscribers.
type Event struct {
	Type      string        `json:"type"`
	Cards     []CardView    `json:"cards,omitempty"`
	BoardSize int           `json:"boardSize,omitempty"`
	Message   string        `json:"message,omitempty"`
	Stats     *memory.Stats `json:"stats,omitempty"`
	Game      *GameResponse `json:"game,omitempty"`
}

// Broker is an in-process pub/sub for game events, keyed by session ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given session.
func (b *Broker) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, 64)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan []byte]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(sessionID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given session. It never
// blocks: slow subscribers miss events and resync from the next state.
func (b *Broker) Publish(sessionID string, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := b.subs[sessionID]
	if len(subs) == 0 {
		return
	}
	data, _ := json.Marshal(event)
	for ch := range subs {
		select {
		case ch <- data:
		default:
		}
	}
}

// Subscribers reports how many channels listen to a session.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}

// presenter forwards engine notifications of one session to the broker.
type presenter struct {
	broker    *Broker
	sessionID string
}

func (p presenter) Render(cards []memory.Card, boardSize int) {
	p.broker.Publish(p.sessionID, Event{Type: EventRender, Cards: cardViews(cards), BoardSize: boardSize})
}

func (p presenter) SetStatusMessage(text string) {
	p.broker.Publish(p.sessionID, Event{Type: EventStatus, Message: text})
}

func (p presenter) SetStats(stats memory.Stats) {
	p.broker.Publish(p.sessionID, Event{Type: EventStats, Stats: &stats})
}
