package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/playperu/memory/internal/memory"
	"github.com/playperu/memory/internal/settings"
)

type SettingsRequest struct {
	BoardSize      *int           `json:"boardSize,omitempty"`
	StartingPlayer *memory.Player `json:"startingPlayer,omitempty"`
}

type ThemeRequest struct {
	Theme settings.Theme `json:"theme"`
}

type ThemeResponse struct {
	Theme settings.Theme `json:"theme"`
}

// preferredSchemeHeader is the client hint carrying prefers-color-scheme.
const preferredSchemeHeader = "Sec-CH-Prefers-Color-Scheme"

func handleGetSettings(logger *slog.Logger, prefs *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := prefs.GameSettings(r.Context(), profileFrom(r))
		if err != nil {
			logger.Error("loading settings", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func handleUpdateSettings(logger *slog.Logger, prefs *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SettingsRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.BoardSize != nil && !memory.ValidBoardSize(*req.BoardSize) {
			writeError(w, http.StatusBadRequest, "boardSize must be 16, 24 or 32")
			return
		}
		if req.StartingPlayer != nil && !req.StartingPlayer.Valid() {
			writeError(w, http.StatusBadRequest, "startingPlayer must be blue or red")
			return
		}

		cfg, err := prefs.UpdateGameSettings(r.Context(), profileFrom(r), settings.Patch{
			BoardSize:      req.BoardSize,
			StartingPlayer: req.StartingPlayer,
		})
		if err != nil {
			logger.Error("saving settings", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func handleGetTheme(logger *slog.Logger, prefs *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		preferred := settings.Theme(strings.Trim(r.Header.Get(preferredSchemeHeader), `"`))

		theme, err := prefs.Theme(r.Context(), profileFrom(r), preferred)
		if err != nil {
			logger.Error("loading theme", "error", err)
		}
		w.Header().Add("Vary", preferredSchemeHeader)
		writeJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
	}
}

func handleUpdateTheme(logger *slog.Logger, prefs *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ThemeRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !req.Theme.Valid() {
			writeError(w, http.StatusBadRequest, "theme must be light or dark")
			return
		}

		if err := prefs.SetTheme(r.Context(), profileFrom(r), req.Theme); err != nil {
			logger.Error("saving theme", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ThemeResponse{Theme: req.Theme})
	}
}
