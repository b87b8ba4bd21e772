package server

import (
	"time"

	"github.com/playperu/memory/internal/memory"
)

// CardView is the client-facing card. Icon and pair key stay hidden until
// the card is face up.
type CardView struct {
	ID        string           `json:"id"`
	State     memory.CardState `json:"state"`
	Icon      string           `json:"icon,omitempty"`
	MatchedBy memory.Player    `json:"matchedBy,omitempty"`
}

func cardViews(cards []memory.Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		v := CardView{ID: c.ID, State: c.State, MatchedBy: c.MatchedBy}
		if c.State != memory.CardHidden {
			v.Icon = c.Icon
		}
		views[i] = v
	}
	return views
}

type GameResponse struct {
	ID        string           `json:"id"`
	BoardSize int              `json:"boardSize"`
	State     memory.Lifecycle `json:"state"`
	Locked    bool             `json:"locked"`
	Message   string           `json:"message"`
	Stats     memory.Stats     `json:"stats"`
	Cards     []CardView       `json:"cards"`
}

func gameResponse(id string, snap memory.Snapshot) GameResponse {
	return GameResponse{
		ID:        id,
		BoardSize: snap.BoardSize,
		State:     snap.State,
		Locked:    snap.Locked,
		Message:   snap.Message,
		Stats:     snap.Stats,
		Cards:     cardViews(snap.Cards),
	}
}

type SessionInfo struct {
	ID         string           `json:"id"`
	Profile    string           `json:"profile"`
	State      memory.Lifecycle `json:"state"`
	Settings   memory.Settings  `json:"settings"`
	Stats      memory.Stats     `json:"stats"`
	CreatedAt  time.Time        `json:"createdAt"`
	LastSeenAt time.Time        `json:"lastSeenAt"`
}
