package kill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hvzgame/hvz-server/internal/dependencies/clock"
	"github.com/hvzgame/hvz-server/internal/dependencies/random"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/storage"
)

const (
	idLength   = 20
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Service is the infection state machine. A successful kill is the only way
// a player transitions from human to zombie; deleting or re-targeting a kill
// is the only way back. The victim flag and the kill record always change
// together, inside the game lock.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new kill service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateKillParams carries caller-supplied kill details
type CreateKillParams struct {
	KillerID    model.PlayerID
	BiteCode    string
	TimeOfDeath time.Time
	Description string
	Location    string
}

// CreateKill records an infection. The caller must be the killer: the
// verified subject is resolved to a player and compared against KillerID,
// so a payload id alone never authorizes the mutation. The killer must be a
// zombie and the victim (found by bite code) must still be human. Bite codes
// are not revoked on infection; a stale code resolves its now-zombie owner
// and the kill is rejected as invalid.
func (s *Service) CreateKill(ctx context.Context, gameID model.GameID, params CreateKillParams, subject string) (*model.Kill, error) {
	var created *model.Kill
	err := s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		issuer, err := s.storage.GetPlayerBySubject(ctx, gameID, subject)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				return model.ErrSubjectMismatch
			}
			return err
		}
		if issuer.ID != params.KillerID {
			return model.ErrSubjectMismatch
		}

		victim, err := s.storage.GetPlayerByBiteCode(ctx, gameID, params.BiteCode)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				return fmt.Errorf("%w: no victim with bite code %q", model.ErrPlayerNotFound, params.BiteCode)
			}
			return err
		}

		killer, err := s.storage.GetPlayer(ctx, gameID, params.KillerID)
		if err != nil {
			return err
		}

		// The infected bite the living, never the reverse
		if killer.IsHuman || !victim.IsHuman {
			return fmt.Errorf("%w: killer is human: %t, victim is human: %t",
				model.ErrInvalidKill, killer.IsHuman, victim.IsHuman)
		}

		now := s.clock.Now()
		timeOfDeath := params.TimeOfDeath
		if timeOfDeath.IsZero() {
			timeOfDeath = now
		}

		kill := &model.Kill{
			ID:          model.KillID("k_" + s.random.String(idLength, idAlphabet)),
			GameID:      gameID,
			KillerID:    killer.ID,
			VictimID:    victim.ID,
			TimeOfDeath: timeOfDeath,
			Description: params.Description,
			Location:    params.Location,
			CreatedAt:   now,
		}

		victim.IsHuman = false
		victim.UpdatedAt = now

		if err := s.storage.SavePlayer(ctx, victim); err != nil {
			return err
		}
		if err := s.storage.SaveKill(ctx, kill); err != nil {
			return err
		}
		created = kill
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("kill recorded",
		slog.String("game_id", string(gameID)),
		slog.String("kill_id", string(created.ID)),
		slog.String("killer_id", string(created.KillerID)),
		slog.String("victim_id", string(created.VictimID)),
	)
	return created, nil
}

// GetKill retrieves a kill by id within a game
func (s *Service) GetKill(ctx context.Context, gameID model.GameID, id model.KillID) (*model.Kill, error) {
	return s.storage.GetKill(ctx, gameID, id)
}

// GetKills retrieves all kills in a game
func (s *Service) GetKills(ctx context.Context, gameID model.GameID) ([]*model.Kill, error) {
	return s.storage.GetKillsForGame(ctx, gameID)
}

// UpdateKillParams carries the replacement values for a kill correction
type UpdateKillParams struct {
	KillerID    model.PlayerID
	VictimID    model.PlayerID
	TimeOfDeath time.Time
	Description string
	Location    string
}

// UpdateKill corrects an existing kill. Administrative. If the victim
// reference changes, the old victim is revived and the new victim infected
// as part of the same update, so no player is left in an inconsistent state.
func (s *Service) UpdateKill(ctx context.Context, gameID model.GameID, id model.KillID, params UpdateKillParams) (*model.Kill, error) {
	var updated *model.Kill
	err := s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		kill, err := s.storage.GetKill(ctx, gameID, id)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if params.VictimID != kill.VictimID {
			oldVictim, err := s.storage.GetPlayer(ctx, gameID, kill.VictimID)
			if err != nil {
				return err
			}
			newVictim, err := s.storage.GetPlayer(ctx, gameID, params.VictimID)
			if err != nil {
				return err
			}

			oldVictim.IsHuman = true
			oldVictim.UpdatedAt = now
			newVictim.IsHuman = false
			newVictim.UpdatedAt = now

			if err := s.storage.SavePlayer(ctx, oldVictim); err != nil {
				return err
			}
			if err := s.storage.SavePlayer(ctx, newVictim); err != nil {
				return err
			}
		}

		kill.KillerID = params.KillerID
		kill.VictimID = params.VictimID
		kill.TimeOfDeath = params.TimeOfDeath
		kill.Description = params.Description
		kill.Location = params.Location

		if err := s.storage.SaveKill(ctx, kill); err != nil {
			return err
		}
		updated = kill
		return nil
	})
	return updated, err
}

// DeleteKill retracts an infection event. Administrative. The recorded
// victim is flipped back to human in the same unit as the record removal.
func (s *Service) DeleteKill(ctx context.Context, gameID model.GameID, id model.KillID) error {
	return s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		kill, err := s.storage.GetKill(ctx, gameID, id)
		if err != nil {
			return err
		}

		if _, err := s.storage.GetGame(ctx, gameID); err != nil {
			return err
		}

		victim, err := s.storage.GetPlayer(ctx, gameID, kill.VictimID)
		if err != nil {
			return err
		}

		victim.IsHuman = true
		victim.UpdatedAt = s.clock.Now()

		if err := s.storage.SavePlayer(ctx, victim); err != nil {
			return err
		}
		return s.storage.DeleteKill(ctx, gameID, id)
	})
}
