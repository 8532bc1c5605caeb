package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hvzgame/hvz-server/internal/api/middleware"
	"github.com/hvzgame/hvz-server/internal/api/request"
	"github.com/hvzgame/hvz-server/internal/api/response"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/services/channel"
)

// ChannelHandler handles channel endpoints
type ChannelHandler struct {
	channelService *channel.Service
}

// NewChannelHandler creates a new channel handler
func NewChannelHandler(channelService *channel.Service) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// List handles GET /api/v1/games/{game_id}/channels
func (h *ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])
	subject := middleware.MustGetSubject(r.Context())

	channels, err := h.channelService.GetChannels(r.Context(), gameID, subject)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Channel, len(channels))
	for i, c := range channels {
		resp[i] = response.ChannelFromModel(c)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{game_id}/channels/{channel_id}
func (h *ChannelHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	channelID := model.ChannelID(vars["channel_id"])

	c, err := h.channelService.GetChannel(r.Context(), gameID, channelID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ChannelFromModel(c))
}

// Create handles POST /api/v1/games/{game_id}/channels
func (h *ChannelHandler) Create(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	c, err := h.channelService.CreateChannel(r.Context(), gameID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ChannelFromModel(c))
}

// Update handles PUT /api/v1/games/{game_id}/channels/{channel_id}
func (h *ChannelHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	channelID := model.ChannelID(vars["channel_id"])

	var req request.UpdateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	c, err := h.channelService.UpdateChannel(r.Context(), gameID, channelID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ChannelFromModel(c))
}

// Delete handles DELETE /api/v1/games/{game_id}/channels/{channel_id}
func (h *ChannelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	channelID := model.ChannelID(vars["channel_id"])

	if err := h.channelService.DeleteChannel(r.Context(), gameID, channelID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
