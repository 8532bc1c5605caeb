package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hvzgame/hvz-server/internal/api/middleware"
	"github.com/hvzgame/hvz-server/internal/api/request"
	"github.com/hvzgame/hvz-server/internal/api/response"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/services/player"
)

// PlayerHandler handles player registration and directory endpoints
type PlayerHandler struct {
	playerService *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *player.Service) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// Register handles POST /api/v1/games/{game_id}/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])
	subject := middleware.MustGetSubject(r.Context())

	p, err := h.playerService.RegisterPlayer(r.Context(), gameID, subject)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.OwnPlayerFromModel(p))
}

// GetMe handles GET /api/v1/games/{game_id}/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])
	subject := middleware.MustGetSubject(r.Context())

	p, err := h.playerService.ResolveSubject(r.Context(), gameID, subject)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OwnPlayerFromModel(p))
}

// List handles GET /api/v1/games/{game_id}/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	players, err := h.playerService.GetPlayers(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Player, len(players))
	for i, p := range players {
		resp[i] = response.PlayerFromModel(p)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{game_id}/players/{player_id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	playerID := model.PlayerID(vars["player_id"])

	p, err := h.playerService.GetPlayer(r.Context(), gameID, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.PlayerFromModel(p)
	if p.Subject == middleware.GetSubject(r.Context()) {
		resp = response.OwnPlayerFromModel(p)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Update handles PATCH /api/v1/games/{game_id}/players/{player_id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	playerID := model.PlayerID(vars["player_id"])

	var req request.UpdatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	p, err := h.playerService.UpdatePlayer(r.Context(), gameID, playerID, req.IsHuman, req.IsPatientZero)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OwnPlayerFromModel(p))
}

// Delete handles DELETE /api/v1/games/{game_id}/players/{player_id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	playerID := model.PlayerID(vars["player_id"])

	if err := h.playerService.DeletePlayer(r.Context(), gameID, playerID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
