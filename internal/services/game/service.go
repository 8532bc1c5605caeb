package game

import (
	"context"
	"log/slog"

	"github.com/hvzgame/hvz-server/internal/dependencies/clock"
	"github.com/hvzgame/hvz-server/internal/dependencies/random"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/storage"
)

const (
	idLength   = 20
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Service owns game lifecycle. A game is the scope boundary for everything
// else: players, kills, squads, channels and missions all live inside one.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new game service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateGame creates a new game in the registration state
func (s *Service) CreateGame(ctx context.Context, name, description string) (*model.Game, error) {
	now := s.clock.Now()
	game := &model.Game{
		ID:          model.GameID("g_" + s.random.String(idLength, idAlphabet)),
		Name:        name,
		Description: description,
		State:       model.GameStateRegistration,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("name", game.Name),
	)
	return game, nil
}

// GetGame retrieves a game by id
func (s *Service) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

// GetGames retrieves all games
func (s *Service) GetGames(ctx context.Context) ([]*model.Game, error) {
	return s.storage.GetGames(ctx)
}

// UpdateGame updates a game's name, description and state
func (s *Service) UpdateGame(ctx context.Context, id model.GameID, name, description string, state model.GameState) (*model.Game, error) {
	var updated *model.Game
	err := s.storage.WithGameLock(ctx, id, func(ctx context.Context) error {
		game, err := s.storage.GetGame(ctx, id)
		if err != nil {
			return err
		}

		game.Name = name
		game.Description = description
		game.State = state
		game.UpdatedAt = s.clock.Now()

		if err := s.storage.SaveGame(ctx, game); err != nil {
			return err
		}
		updated = game
		return nil
	})
	return updated, err
}

// DeleteGame removes a game and everything scoped to it
func (s *Service) DeleteGame(ctx context.Context, id model.GameID) error {
	return s.storage.WithGameLock(ctx, id, func(ctx context.Context) error {
		if _, err := s.storage.GetGame(ctx, id); err != nil {
			return err
		}
		if err := s.storage.DeleteGame(ctx, id); err != nil {
			return err
		}
		s.logger.Info("game deleted", slog.String("game_id", string(id)))
		return nil
	})
}
