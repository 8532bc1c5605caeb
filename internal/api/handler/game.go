package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hvzgame/hvz-server/internal/api/request"
	"github.com/hvzgame/hvz-server/internal/api/response"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/services/game"
)

// GameHandler handles game lifecycle endpoints
type GameHandler struct {
	gameService *game.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *game.Service) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	g, err := h.gameService.CreateGame(r.Context(), req.Name, req.Description)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.GetGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Game, len(games))
	for i, g := range games {
		resp[i] = response.GameFromModel(g)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{game_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	g, err := h.gameService.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Update handles PUT /api/v1/games/{game_id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	state := model.GameState(req.State)
	switch state {
	case model.GameStateRegistration, model.GameStateInProgress, model.GameStateComplete:
	default:
		WriteError(w, NewInvalidRequestError("invalid game state"))
		return
	}

	g, err := h.gameService.UpdateGame(r.Context(), gameID, req.Name, req.Description, state)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Delete handles DELETE /api/v1/games/{game_id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	if err := h.gameService.DeleteGame(r.Context(), gameID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
