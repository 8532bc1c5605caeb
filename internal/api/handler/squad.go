package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hvzgame/hvz-server/internal/api/middleware"
	"github.com/hvzgame/hvz-server/internal/api/request"
	"github.com/hvzgame/hvz-server/internal/api/response"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/services/squad"
)

// SquadHandler handles squad lifecycle and membership endpoints
type SquadHandler struct {
	squadService *squad.Service
}

// NewSquadHandler creates a new squad handler
func NewSquadHandler(squadService *squad.Service) *SquadHandler {
	return &SquadHandler{squadService: squadService}
}

// Create handles POST /api/v1/games/{game_id}/squads
func (h *SquadHandler) Create(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])
	subject := middleware.MustGetSubject(r.Context())

	var req request.CreateSquadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	s, err := h.squadService.CreateSquad(r.Context(), gameID, req.Name, model.PlayerID(req.PlayerID), subject)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SquadFromModel(s))
}

// List handles GET /api/v1/games/{game_id}/squads
// Rosters are private, so the listing only carries summaries.
func (h *SquadHandler) List(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	squads, err := h.squadService.GetSquads(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.SquadSummary, len(squads))
	for i, s := range squads {
		resp[i] = response.SquadSummaryFromModel(s)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{game_id}/squads/{squad_id}
func (h *SquadHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	squadID := model.SquadID(vars["squad_id"])
	subject := middleware.MustGetSubject(r.Context())

	s, err := h.squadService.GetSquad(r.Context(), gameID, squadID, subject)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SquadFromModel(s))
}

// Join handles POST /api/v1/games/{game_id}/squads/{squad_id}/join
func (h *SquadHandler) Join(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	squadID := model.SquadID(vars["squad_id"])
	subject := middleware.MustGetSubject(r.Context())

	var req request.SquadMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	s, err := h.squadService.JoinSquad(r.Context(), gameID, squadID, model.PlayerID(req.PlayerID), subject)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SquadFromModel(s))
}

// Leave handles POST /api/v1/games/{game_id}/squads/{squad_id}/leave
func (h *SquadHandler) Leave(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	squadID := model.SquadID(vars["squad_id"])
	subject := middleware.MustGetSubject(r.Context())

	var req request.SquadMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	s, err := h.squadService.LeaveSquad(r.Context(), gameID, squadID, model.PlayerID(req.PlayerID), subject)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SquadSummaryFromModel(s))
}

// Update handles PUT /api/v1/games/{game_id}/squads/{squad_id}
func (h *SquadHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	squadID := model.SquadID(vars["squad_id"])

	var req request.UpdateSquadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	s, err := h.squadService.UpdateSquad(r.Context(), gameID, squadID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SquadFromModel(s))
}

// Delete handles DELETE /api/v1/games/{game_id}/squads/{squad_id}
func (h *SquadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	squadID := model.SquadID(vars["squad_id"])

	if err := h.squadService.DeleteSquad(r.Context(), gameID, squadID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
