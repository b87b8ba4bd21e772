package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// Commands accepted on the play socket.
const (
	commandFlip    = "flip"
	commandNewGame = "new_game"
)

type PlayCommand struct {
	Type   string `json:"type"`
	CardID string `json:"cardId,omitempty"`
}

// handlePlaySocket streams game events to the client and applies the flip
// and new-game commands it sends back.
func handlePlaySocket(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			logger.Error("websocket accept failed", "session", sess.id, "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		ch := broker.Subscribe(sess.id)
		defer broker.Unsubscribe(sess.id, ch)

		if err := conn.Write(ctx, websocket.MessageText, stateEvent(sess)); err != nil {
			logger.Debug("websocket write failed", "session", sess.id, "error", err)
			return
		}

		// Only the reader touches conn.Read; only this goroutine writes.
		errs := make(chan []byte, 1)
		go func() {
			defer cancel()
			for {
				_, msg, err := conn.Read(ctx)
				if err != nil {
					logger.Debug("websocket read ended", "session", sess.id, "error", err)
					return
				}
				sess.touch(time.Now())

				var cmd PlayCommand
				if err := json.Unmarshal(msg, &cmd); err != nil {
					reportSocketError(errs, "invalid command")
					continue
				}
				switch cmd.Type {
				case commandFlip:
					sess.engine.Flip(cmd.CardID)
				case commandNewGame:
					sess.engine.NewGame()
				default:
					reportSocketError(errs, "unknown command "+cmd.Type)
				}
			}
		}()

		for {
			var data []byte
			select {
			case <-ctx.Done():
				return
			case data = <-ch:
			case data = <-errs:
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Debug("websocket write failed", "session", sess.id, "error", err)
				return
			}
		}
	}
}

func reportSocketError(errs chan<- []byte, msg string) {
	data, _ := json.Marshal(Event{Type: EventError, Message: msg})
	select {
	case errs <- data:
	default:
	}
}
