package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/memory/internal/memory"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GamePath documents the {gameID} path parameter.
type GamePath struct {
	GameID string `path:"gameID" format:"uuid"`
}

type flipOperation struct {
	GamePath
	FlipRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Openapi = "3.0.3"
	r.Spec.Info.Title = "Memory API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the two-player memory game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies and the number of running games.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Start a game")
	createGame.SetDescription("Deals a new game using the caller's saved settings.")
	createGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.AddReqStructure(GamePath{})
	getGame.SetDescription("Returns the board, scores and status message. Face-down cards carry no icon.")
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Abandon game")
	deleteGame.AddReqStructure(GamePath{})
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// POST /api/games/{gameID}/flip
	flip, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/flip")
	flip.SetSummary("Flip a card")
	flip.SetDescription("Turns a card face up. Flips that are not allowed right now are ignored and reported with accepted=false.")
	flip.AddReqStructure(flipOperation{})
	flip.AddRespStructure(FlipResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	flip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	flip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(flip)

	// POST /api/games/{gameID}/new
	restart, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/new")
	restart.SetSummary("Restart game")
	restart.AddReqStructure(GamePath{})
	restart.SetDescription("Deals a fresh deck with the game's settings.")
	restart.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	restart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(restart)

	// GET /api/games/{gameID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.AddReqStructure(GamePath{})
	getEvents.SetDescription("Server-Sent Events: state, render, status and stats.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/games/{gameID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/ws")
	getWS.SetSummary("Play socket")
	getWS.AddReqStructure(GamePath{})
	getWS.SetDescription("WebSocket carrying the event stream; accepts flip and new_game commands.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/settings
	getSettings, _ := r.NewOperationContext(http.MethodGet, "/api/settings")
	getSettings.SetSummary("Get settings")
	getSettings.AddRespStructure(memory.Settings{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getSettings)

	// PUT /api/settings
	putSettings, _ := r.NewOperationContext(http.MethodPut, "/api/settings")
	putSettings.SetSummary("Update settings")
	putSettings.SetDescription("Updates board size and/or starting player. Applies to games started afterwards.")
	putSettings.AddReqStructure(SettingsRequest{})
	putSettings.AddRespStructure(memory.Settings{}, openapi.WithHTTPStatus(http.StatusOK))
	putSettings.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putSettings)

	// GET /api/theme
	getTheme, _ := r.NewOperationContext(http.MethodGet, "/api/theme")
	getTheme.SetSummary("Get theme")
	getTheme.AddRespStructure(ThemeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getTheme)

	// PUT /api/theme
	putTheme, _ := r.NewOperationContext(http.MethodPut, "/api/theme")
	putTheme.SetSummary("Set theme")
	putTheme.AddReqStructure(ThemeRequest{})
	putTheme.AddRespStructure(ThemeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putTheme.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putTheme)

	// GET /api/admin/sessions
	listSessions, _ := r.NewOperationContext(http.MethodGet, "/api/admin/sessions")
	listSessions.SetSummary("List games")
	listSessions.SetDescription("Returns every running game. Requires admin basic auth.")
	listSessions.AddRespStructure([]SessionInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	listSessions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listSessions)

	// DELETE /api/admin/sessions/{gameID}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/sessions/{gameID}")
	deleteSession.SetSummary("Remove game")
	deleteSession.AddReqStructure(GamePath{})
	deleteSession.SetDescription("Stops and removes any game. Requires admin basic auth.")
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteSession)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func handleSwaggerUI() http.Handler {
	return v5emb.New("Memory API", "/openapi.json", "/docs")
}
