package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hvzgame/hvz-server/internal/api/middleware"
	"github.com/hvzgame/hvz-server/internal/api/request"
	"github.com/hvzgame/hvz-server/internal/api/response"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/services/mission"
)

// MissionHandler handles mission endpoints
type MissionHandler struct {
	missionService *mission.Service
}

// NewMissionHandler creates a new mission handler
func NewMissionHandler(missionService *mission.Service) *MissionHandler {
	return &MissionHandler{missionService: missionService}
}

// List handles GET /api/v1/games/{game_id}/missions
func (h *MissionHandler) List(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])
	ctx := r.Context()

	missions, err := h.missionService.GetMissions(ctx, gameID, middleware.MustGetSubject(ctx), middleware.GetRoles(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Mission, len(missions))
	for i, m := range missions {
		resp[i] = response.MissionFromModel(m)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{game_id}/missions/{mission_id}
func (h *MissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	missionID := model.MissionID(vars["mission_id"])
	ctx := r.Context()

	m, err := h.missionService.GetMission(ctx, gameID, missionID, middleware.MustGetSubject(ctx), middleware.GetRoles(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MissionFromModel(m))
}

// Create handles POST /api/v1/games/{game_id}/missions
func (h *MissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.MissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	m, err := h.missionService.CreateMission(r.Context(), gameID, missionParams(req))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MissionFromModel(m))
}

// Update handles PUT /api/v1/games/{game_id}/missions/{mission_id}
func (h *MissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	missionID := model.MissionID(vars["mission_id"])

	var req request.MissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	m, err := h.missionService.UpdateMission(r.Context(), gameID, missionID, missionParams(req))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MissionFromModel(m))
}

// Delete handles DELETE /api/v1/games/{game_id}/missions/{mission_id}
func (h *MissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	missionID := model.MissionID(vars["mission_id"])

	if err := h.missionService.DeleteMission(r.Context(), gameID, missionID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func missionParams(req request.MissionRequest) mission.MissionParams {
	return mission.MissionParams{
		Name:             req.Name,
		Description:      req.Description,
		Location:         req.Location,
		VisibleToHumans:  req.VisibleToHumans,
		VisibleToZombies: req.VisibleToZombies,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
	}
}
