package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/playperu/memory/internal/settings"
)

type FlipRequest struct {
	CardID string `json:"cardId"`
}

type FlipResponse struct {
	Accepted bool         `json:"accepted"`
	Game     GameResponse `json:"game"`
}

func handleCreateGame(logger *slog.Logger, sessions *Sessions, prefs *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := profileFrom(r)

		// A broken preferences backend still yields playable defaults.
		cfg, err := prefs.GameSettings(r.Context(), profile)
		if err != nil {
			logger.Error("loading settings", "profile", profile, "error", err)
		}

		sess := sessions.Create(profile, cfg)
		writeJSON(w, http.StatusCreated, gameResponse(sess.id, sess.engine.Snapshot()))
	}
}

func handleGetGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		writeJSON(w, http.StatusOK, gameResponse(sess.id, sess.engine.Snapshot()))
	}
}

func handleFlip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FlipRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.CardID = strings.TrimSpace(req.CardID)
		if req.CardID == "" {
			writeError(w, http.StatusBadRequest, "cardId is required")
			return
		}

		sess := sessionFrom(r)
		accepted := sess.engine.Flip(req.CardID)

		writeJSON(w, http.StatusOK, FlipResponse{
			Accepted: accepted,
			Game:     gameResponse(sess.id, sess.engine.Snapshot()),
		})
	}
}

func handleRestartGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		sess.engine.NewGame()
		writeJSON(w, http.StatusOK, gameResponse(sess.id, sess.engine.Snapshot()))
	}
}

func handleDeleteGame(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := sessions.Delete(sess.id); err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
