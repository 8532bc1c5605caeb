package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hvzgame/hvz-server/internal/api/apierr"
	"github.com/hvzgame/hvz-server/internal/api/handler"
	"github.com/hvzgame/hvz-server/internal/api/middleware"
	"github.com/hvzgame/hvz-server/internal/services/channel"
	"github.com/hvzgame/hvz-server/internal/services/game"
	"github.com/hvzgame/hvz-server/internal/services/kill"
	"github.com/hvzgame/hvz-server/internal/services/mission"
	"github.com/hvzgame/hvz-server/internal/services/player"
	"github.com/hvzgame/hvz-server/internal/services/squad"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	JWTSecret      []byte
	GameService    *game.Service
	PlayerService  *player.Service
	KillService    *kill.Service
	SquadService   *squad.Service
	ChannelService *channel.Service
	MissionService *mission.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameService)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	killHandler := handler.NewKillHandler(cfg.KillService)
	squadHandler := handler.NewSquadHandler(cfg.SquadService)
	channelHandler := handler.NewChannelHandler(cfg.ChannelService)
	missionHandler := handler.NewMissionHandler(cfg.MissionService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Everything under /games requires auth. Admin routes additionally
	// require the admin role, checked per route so player and admin
	// methods can share paths.
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)

	// Game lifecycle
	games.HandleFunc("", adminOnly(gameHandler.Create)).Methods(http.MethodPost)
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}", adminOnly(gameHandler.Update)).Methods(http.MethodPut)
	games.HandleFunc("/{game_id}", adminOnly(gameHandler.Delete)).Methods(http.MethodDelete)

	// Players
	games.HandleFunc("/{game_id}/players", playerHandler.Register).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/players", playerHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/players/{player_id}", playerHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/players/{player_id}", adminOnly(playerHandler.Update)).Methods(http.MethodPatch)
	games.HandleFunc("/{game_id}/players/{player_id}", adminOnly(playerHandler.Delete)).Methods(http.MethodDelete)

	// Kills
	games.HandleFunc("/{game_id}/kills", killHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/kills", killHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/kills/{kill_id}", killHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/kills/{kill_id}", adminOnly(killHandler.Update)).Methods(http.MethodPut)
	games.HandleFunc("/{game_id}/kills/{kill_id}", adminOnly(killHandler.Delete)).Methods(http.MethodDelete)

	// Squads
	games.HandleFunc("/{game_id}/squads", squadHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/squads", squadHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/squads/{squad_id}", squadHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/squads/{squad_id}/join", squadHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/squads/{squad_id}/leave", squadHandler.Leave).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/squads/{squad_id}", adminOnly(squadHandler.Update)).Methods(http.MethodPut)
	games.HandleFunc("/{game_id}/squads/{squad_id}", adminOnly(squadHandler.Delete)).Methods(http.MethodDelete)

	// Channels
	games.HandleFunc("/{game_id}/channels", channelHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/channels", adminOnly(channelHandler.Create)).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/channels/{channel_id}", adminOnly(channelHandler.Get)).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/channels/{channel_id}", adminOnly(channelHandler.Update)).Methods(http.MethodPut)
	games.HandleFunc("/{game_id}/channels/{channel_id}", adminOnly(channelHandler.Delete)).Methods(http.MethodDelete)

	// Missions
	games.HandleFunc("/{game_id}/missions", missionHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/missions/{mission_id}", missionHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/missions", adminOnly(missionHandler.Create)).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/missions/{mission_id}", adminOnly(missionHandler.Update)).Methods(http.MethodPut)
	games.HandleFunc("/{game_id}/missions/{mission_id}", adminOnly(missionHandler.Delete)).Methods(http.MethodDelete)

	return r
}

// adminOnly gates a handler on the admin role. Runs after auth middleware.
func adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.HasRole(r.Context(), middleware.RoleAdmin) {
			apierr.WriteError(w, apierr.NewForbiddenError())
			return
		}
		next(w, r)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
