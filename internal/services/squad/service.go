package squad

import (
	"context"
	"errors"
	"fmt"
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

// Service manages squad membership and lifecycle. Invariants it enforces:
// a player is in at most one squad, a player's SquadID and the squad's
// member list always agree, squad names are unique per game, and a squad
// owns exactly one channel from creation to deletion.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new squad service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// resolveActingPlayer loads the player bound to the subject and verifies it
// is the player the request claims to act as. Payload ids select a target;
// only the subject authorizes acting on it.
func (s *Service) resolveActingPlayer(ctx context.Context, gameID model.GameID, subject string, targetID model.PlayerID) (*model.Player, error) {
	subjectPlayer, err := s.storage.GetPlayerBySubject(ctx, gameID, subject)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, fmt.Errorf("%w: no player bound to subject", model.ErrPlayerNotFound)
		}
		return nil, err
	}

	target, err := s.storage.GetPlayer(ctx, gameID, targetID)
	if err != nil {
		return nil, err
	}
	if target.ID != subjectPlayer.ID {
		return nil, model.ErrSubjectMismatch
	}
	return target, nil
}

// CreateSquad founds a squad with the creator as its first member. The
// squad's channel, the squad itself and the creator's membership are written
// as one unit inside the game lock: a squad never exists without its channel
// and a creator never ends up outside the squad they founded.
func (s *Service) CreateSquad(ctx context.Context, gameID model.GameID, name string, creatorID model.PlayerID, subject string) (*model.Squad, error) {
	var created *model.Squad
	err := s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		creator, err := s.resolveActingPlayer(ctx, gameID, subject, creatorID)
		if err != nil {
			return err
		}

		if creator.SquadID != nil {
			return model.ErrPlayerAlreadyInSquad
		}

		_, err = s.storage.GetSquadByName(ctx, gameID, name)
		if err == nil {
			return fmt.Errorf("%w: %q", model.ErrSquadNameInUse, name)
		}
		if !errors.Is(err, model.ErrSquadNotFound) {
			return err
		}

		now := s.clock.Now()
		squadID := model.SquadID("s_" + s.random.String(idLength, idAlphabet))

		channel := &model.Channel{
			ID:        model.ChannelID("c_" + s.random.String(idLength, idAlphabet)),
			GameID:    gameID,
			Name:      name,
			SquadID:   squadID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		squad := &model.Squad{
			ID:        squadID,
			GameID:    gameID,
			Name:      name,
			ChannelID: channel.ID,
			Members:   []model.PlayerID{creator.ID},
			CreatedAt: now,
			UpdatedAt: now,
		}

		creator.SquadID = &squad.ID
		creator.UpdatedAt = now

		if err := s.storage.SaveChannel(ctx, channel); err != nil {
			return err
		}
		if err := s.storage.SaveSquad(ctx, squad); err != nil {
			return err
		}
		if err := s.storage.SavePlayer(ctx, creator); err != nil {
			return err
		}
		created = squad
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("squad created",
		slog.String("game_id", string(gameID)),
		slog.String("squad_id", string(created.ID)),
		slog.String("name", created.Name),
	)
	return created, nil
}

// JoinSquad adds a player to a squad. A player may only join as themselves,
// and only while not already in a squad.
func (s *Service) JoinSquad(ctx context.Context, gameID model.GameID, squadID model.SquadID, playerID model.PlayerID, subject string) (*model.Squad, error) {
	var joined *model.Squad
	err := s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		player, err := s.resolveActingPlayer(ctx, gameID, subject, playerID)
		if err != nil {
			return err
		}

		if player.SquadID != nil {
			return model.ErrPlayerAlreadyInSquad
		}

		squad, err := s.storage.GetSquad(ctx, gameID, squadID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		player.SquadID = &squad.ID
		player.UpdatedAt = now
		squad.Members = append(squad.Members, player.ID)
		squad.UpdatedAt = now

		if err := s.storage.SavePlayer(ctx, player); err != nil {
			return err
		}
		if err := s.storage.SaveSquad(ctx, squad); err != nil {
			return err
		}
		joined = squad
		return nil
	})
	return joined, err
}

// LeaveSquad removes a player from the squad they are in. The request must
// name the squad the player actually belongs to.
func (s *Service) LeaveSquad(ctx context.Context, gameID model.GameID, squadID model.SquadID, playerID model.PlayerID, subject string) (*model.Squad, error) {
	var left *model.Squad
	err := s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		player, err := s.resolveActingPlayer(ctx, gameID, subject, playerID)
		if err != nil {
			return err
		}

		if player.SquadID == nil {
			return model.ErrPlayerNotInSquad
		}
		if *player.SquadID != squadID {
			return model.ErrPlayerLeavingWrongSquad
		}

		squad, err := s.storage.GetSquad(ctx, gameID, squadID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		player.SquadID = nil
		player.UpdatedAt = now
		squad.RemoveMember(player.ID)
		squad.UpdatedAt = now

		if err := s.storage.SavePlayer(ctx, player); err != nil {
			return err
		}
		if err := s.storage.SaveSquad(ctx, squad); err != nil {
			return err
		}
		left = squad
		return nil
	})
	return left, err
}

// GetSquad returns squad details to a member. Rosters are private: unlike
// kills, which any caller in the game may list, a squad is only visible to
// players currently in it.
func (s *Service) GetSquad(ctx context.Context, gameID model.GameID, id model.SquadID, subject string) (*model.Squad, error) {
	issuer, err := s.storage.GetPlayerBySubject(ctx, gameID, subject)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrSubjectMismatch
		}
		return nil, err
	}
	if issuer.SquadID == nil || *issuer.SquadID != id {
		return nil, model.ErrSubjectMismatch
	}

	return s.storage.GetSquad(ctx, gameID, id)
}

// GetSquads retrieves all squads in a game
func (s *Service) GetSquads(ctx context.Context, gameID model.GameID) ([]*model.Squad, error) {
	return s.storage.GetSquadsForGame(ctx, gameID)
}

// UpdateSquad renames a squad. Administrative. The new name must still be
// unique within the game; a rename must not collide with an existing squad.
func (s *Service) UpdateSquad(ctx context.Context, gameID model.GameID, id model.SquadID, name string) (*model.Squad, error) {
	var updated *model.Squad
	err := s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		squad, err := s.storage.GetSquad(ctx, gameID, id)
		if err != nil {
			return err
		}

		existing, err := s.storage.GetSquadByName(ctx, gameID, name)
		if err == nil && existing.ID != squad.ID {
			return fmt.Errorf("%w: %q", model.ErrSquadNameInUse, name)
		}
		if err != nil && !errors.Is(err, model.ErrSquadNotFound) {
			return err
		}

		squad.Name = name
		squad.UpdatedAt = s.clock.Now()

		if err := s.storage.SaveSquad(ctx, squad); err != nil {
			return err
		}
		updated = squad
		return nil
	})
	return updated, err
}

// DeleteSquad disbands a squad. Administrative. Every member's SquadID is
// cleared and the owned channel is removed in the same unit: no orphaned
// channel, no member left pointing at a deleted squad.
func (s *Service) DeleteSquad(ctx context.Context, gameID model.GameID, id model.SquadID) error {
	return s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		squad, err := s.storage.GetSquad(ctx, gameID, id)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		for _, memberID := range squad.Members {
			member, err := s.storage.GetPlayer(ctx, gameID, memberID)
			if err != nil {
				if errors.Is(err, model.ErrPlayerNotFound) {
					continue
				}
				return err
			}
			member.SquadID = nil
			member.UpdatedAt = now
			if err := s.storage.SavePlayer(ctx, member); err != nil {
				return err
			}
		}

		if err := s.storage.DeleteChannel(ctx, gameID, squad.ChannelID); err != nil {
			return err
		}
		if err := s.storage.DeleteSquad(ctx, gameID, id); err != nil {
			return err
		}

		s.logger.Info("squad deleted",
			slog.String("game_id", string(gameID)),
			slog.String("squad_id", string(id)),
		)
		return nil
	})
}
