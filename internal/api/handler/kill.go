package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hvzgame/hvz-server/internal/api/middleware"
	"github.com/hvzgame/hvz-server/internal/api/request"
	"github.com/hvzgame/hvz-server/internal/api/response"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/services/kill"
)

// KillHandler handles kill reporting and correction endpoints
type KillHandler struct {
	killService *kill.Service
}

// NewKillHandler creates a new kill handler
func NewKillHandler(killService *kill.Service) *KillHandler {
	return &KillHandler{killService: killService}
}

// Create handles POST /api/v1/games/{game_id}/kills
func (h *KillHandler) Create(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])
	subject := middleware.MustGetSubject(r.Context())

	var req request.CreateKillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.KillerID == "" {
		WriteError(w, NewInvalidRequestError("killer_id is required"))
		return
	}
	if req.BiteCode == "" {
		WriteError(w, NewInvalidRequestError("bite_code is required"))
		return
	}

	k, err := h.killService.CreateKill(r.Context(), gameID, kill.CreateKillParams{
		KillerID:    model.PlayerID(req.KillerID),
		BiteCode:    req.BiteCode,
		TimeOfDeath: req.TimeOfDeath,
		Description: req.Description,
		Location:    req.Location,
	}, subject)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.KillFromModel(k))
}

// List handles GET /api/v1/games/{game_id}/kills
func (h *KillHandler) List(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	kills, err := h.killService.GetKills(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Kill, len(kills))
	for i, k := range kills {
		resp[i] = response.KillFromModel(k)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{game_id}/kills/{kill_id}
func (h *KillHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	killID := model.KillID(vars["kill_id"])

	k, err := h.killService.GetKill(r.Context(), gameID, killID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.KillFromModel(k))
}

// Update handles PUT /api/v1/games/{game_id}/kills/{kill_id}
func (h *KillHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	killID := model.KillID(vars["kill_id"])

	var req request.UpdateKillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.KillerID == "" || req.VictimID == "" {
		WriteError(w, NewInvalidRequestError("killer_id and victim_id are required"))
		return
	}

	k, err := h.killService.UpdateKill(r.Context(), gameID, killID, kill.UpdateKillParams{
		KillerID:    model.PlayerID(req.KillerID),
		VictimID:    model.PlayerID(req.VictimID),
		TimeOfDeath: req.TimeOfDeath,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.KillFromModel(k))
}

// Delete handles DELETE /api/v1/games/{game_id}/kills/{kill_id}
func (h *KillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	killID := model.KillID(vars["kill_id"])

	if err := h.killService.DeleteKill(r.Context(), gameID, killID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
