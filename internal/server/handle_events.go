package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// stateEvent is the first event of every stream so that clients start from
// a complete picture instead of waiting for the next change.
func stateEvent(sess *session) []byte {
	game := gameResponse(sess.id, sess.engine.Snapshot())
	data, _ := json.Marshal(Event{Type: EventState, Game: &game})
	return data
}

func eventType(data []byte) string {
	var head struct {
		Type string `json:"type"`
	}
	json.Unmarshal(data, &head)
	return head.Type
}

func handleEvents(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		ch := broker.Subscribe(sess.id)
		defer broker.Unsubscribe(sess.id, ch)

		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", EventState, stateEvent(sess))
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType(data), data)
				flusher.Flush()
			case now := <-ping.C:
				// An open stream keeps the game from being reaped.
				sess.touch(now)
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
