package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hvzgame/hvz-server/internal/dependencies/clock"
	"github.com/hvzgame/hvz-server/internal/dependencies/random"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/storage"
)

const (
	idLength   = 20
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// BiteCodeLength is the length of generated bite codes
	BiteCodeLength = 6
	// BiteCodeAlphabet is the characters used in bite codes (avoid confusing chars)
	BiteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Service is the participant directory: it owns player records and is the
// sole mechanism for turning a verified caller identity into a game record
// that the caller may act as.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new player service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// ResolveSubject finds the player bound to the given external identity within
// one game. Request payload ids are only target selectors; this lookup is the
// source of truth for who is acting.
func (s *Service) ResolveSubject(ctx context.Context, gameID model.GameID, subject string) (*model.Player, error) {
	player, err := s.storage.GetPlayerBySubject(ctx, gameID, subject)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrIdentityNotBound
		}
		return nil, err
	}
	return player, nil
}

// RegisterPlayer creates a player for the given subject in a game. Each
// subject holds at most one player per game, and each player gets a bite
// code unique within the game.
func (s *Service) RegisterPlayer(ctx context.Context, gameID model.GameID, subject string) (*model.Player, error) {
	var created *model.Player
	err := s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		if _, err := s.storage.GetGame(ctx, gameID); err != nil {
			return err
		}

		_, err := s.storage.GetPlayerBySubject(ctx, gameID, subject)
		if err == nil {
			return model.ErrSubjectAlreadyRegistered
		}
		if !errors.Is(err, model.ErrPlayerNotFound) {
			return err
		}

		biteCode, err := s.generateBiteCode(ctx, gameID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		player := &model.Player{
			ID:        model.PlayerID("p_" + s.random.String(idLength, idAlphabet)),
			Subject:   subject,
			GameID:    gameID,
			IsHuman:   true,
			BiteCode:  biteCode,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.storage.SavePlayer(ctx, player); err != nil {
			return err
		}
		created = player
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(created.ID)),
	)
	return created, nil
}

// GetPlayer retrieves a player by id within a game
func (s *Service) GetPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, gameID, id)
}

// GetPlayers retrieves all players in a game
func (s *Service) GetPlayers(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	return s.storage.GetPlayersForGame(ctx, gameID)
}

// UpdatePlayer sets a player's state flags. Administrative: this is how
// patient zero is seeded at game start.
func (s *Service) UpdatePlayer(ctx context.Context, gameID model.GameID, id model.PlayerID, isHuman, isPatientZero bool) (*model.Player, error) {
	var updated *model.Player
	err := s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		player, err := s.storage.GetPlayer(ctx, gameID, id)
		if err != nil {
			return err
		}

		player.IsHuman = isHuman
		player.IsPatientZero = isPatientZero
		player.UpdatedAt = s.clock.Now()

		if err := s.storage.SavePlayer(ctx, player); err != nil {
			return err
		}
		updated = player
		return nil
	})
	return updated, err
}

// DeletePlayer removes a player from a game. Administrative. If the player
// is in a squad they are removed from its member list first, so the squad
// side of the membership relation stays consistent.
func (s *Service) DeletePlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) error {
	return s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		player, err := s.storage.GetPlayer(ctx, gameID, id)
		if err != nil {
			return err
		}

		if player.SquadID != nil {
			squad, err := s.storage.GetSquad(ctx, gameID, *player.SquadID)
			if err == nil {
				squad.RemoveMember(player.ID)
				squad.UpdatedAt = s.clock.Now()
				if err := s.storage.SaveSquad(ctx, squad); err != nil {
					return err
				}
			} else if !errors.Is(err, model.ErrSquadNotFound) {
				return err
			}
		}

		return s.storage.DeletePlayer(ctx, gameID, id)
	})
}

// generateBiteCode generates a bite code not yet used in the game
func (s *Service) generateBiteCode(ctx context.Context, gameID model.GameID) (string, error) {
	for {
		code := s.random.String(BiteCodeLength, BiteCodeAlphabet)
		_, err := s.storage.GetPlayerByBiteCode(ctx, gameID, code)
		if errors.Is(err, model.ErrPlayerNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}
