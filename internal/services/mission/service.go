package mission

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/hvzgame/hvz-server/internal/dependencies/clock"
	"github.com/hvzgame/hvz-server/internal/dependencies/random"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/storage"
)

const (
	idLength   = 20
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// RoleAdmin marks callers that may manage missions and see all of them
	RoleAdmin = "admin"
)

// Service manages missions. Administrators have full CRUD; players only see
// missions visible to their current faction, so a freshly infected player's
// mission list changes the moment they turn.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new mission service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

func isAdmin(roles []string) bool {
	return slices.Contains(roles, RoleAdmin)
}

// GetMissions lists missions visible to the caller
func (s *Service) GetMissions(ctx context.Context, gameID model.GameID, subject string, roles []string) ([]*model.Mission, error) {
	missions, err := s.storage.GetMissionsForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if isAdmin(roles) {
		return missions, nil
	}

	player, err := s.storage.GetPlayerBySubject(ctx, gameID, subject)
	if err != nil {
		return nil, err
	}

	var visible []*model.Mission
	for _, m := range missions {
		if m.VisibleTo(player.IsHuman) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

// GetMission retrieves one mission if the caller may see it. A mission
// hidden from the caller's faction reads as not found rather than
// revealing its existence.
func (s *Service) GetMission(ctx context.Context, gameID model.GameID, id model.MissionID, subject string, roles []string) (*model.Mission, error) {
	mission, err := s.storage.GetMission(ctx, gameID, id)
	if err != nil {
		return nil, err
	}
	if isAdmin(roles) {
		return mission, nil
	}

	player, err := s.storage.GetPlayerBySubject(ctx, gameID, subject)
	if err != nil {
		return nil, err
	}
	if !mission.VisibleTo(player.IsHuman) {
		return nil, model.ErrMissionNotFound
	}
	return mission, nil
}

// MissionParams carries caller-supplied mission fields
type MissionParams struct {
	Name             string
	Description      string
	Location         string
	VisibleToHumans  bool
	VisibleToZombies bool
	StartTime        time.Time
	EndTime          time.Time
}

// CreateMission creates a mission. Administrative.
func (s *Service) CreateMission(ctx context.Context, gameID model.GameID, params MissionParams) (*model.Mission, error) {
	if _, err := s.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	mission := &model.Mission{
		ID:               model.MissionID("m_" + s.random.String(idLength, idAlphabet)),
		GameID:           gameID,
		Name:             params.Name,
		Description:      params.Description,
		Location:         params.Location,
		VisibleToHumans:  params.VisibleToHumans,
		VisibleToZombies: params.VisibleToZombies,
		StartTime:        params.StartTime,
		EndTime:          params.EndTime,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.storage.SaveMission(ctx, mission); err != nil {
		return nil, err
	}

	s.logger.Info("mission created",
		slog.String("game_id", string(gameID)),
		slog.String("mission_id", string(mission.ID)),
	)
	return mission, nil
}

// UpdateMission overwrites a mission's fields. Administrative.
func (s *Service) UpdateMission(ctx context.Context, gameID model.GameID, id model.MissionID, params MissionParams) (*model.Mission, error) {
	mission, err := s.storage.GetMission(ctx, gameID, id)
	if err != nil {
		return nil, err
	}

	mission.Name = params.Name
	mission.Description = params.Description
	mission.Location = params.Location
	mission.VisibleToHumans = params.VisibleToHumans
	mission.VisibleToZombies = params.VisibleToZombies
	mission.StartTime = params.StartTime
	mission.EndTime = params.EndTime
	mission.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveMission(ctx, mission); err != nil {
		return nil, err
	}
	return mission, nil
}

// DeleteMission removes a mission. Administrative.
func (s *Service) DeleteMission(ctx context.Context, gameID model.GameID, id model.MissionID) error {
	if _, err := s.storage.GetMission(ctx, gameID, id); err != nil {
		return err
	}
	return s.storage.DeleteMission(ctx, gameID, id)
}
