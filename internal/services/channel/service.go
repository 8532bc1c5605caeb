package channel

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

// Service manages channel records. Squad channels are created and destroyed
// by the squad service as part of squad lifecycle; this service handles
// global channels and player-scoped listing. Message transport is not its
// concern.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new channel service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// GetChannels lists the channels the calling player may access: every
// global channel plus their own squad's channel.
func (s *Service) GetChannels(ctx context.Context, gameID model.GameID, subject string) ([]*model.Channel, error) {
	player, err := s.storage.GetPlayerBySubject(ctx, gameID, subject)
	if err != nil {
		return nil, err
	}

	channels, err := s.storage.GetChannelsForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var visible []*model.Channel
	for _, c := range channels {
		if !c.IsSquadOwned() {
			visible = append(visible, c)
			continue
		}
		if player.SquadID != nil && c.SquadID == *player.SquadID {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// GetChannel retrieves a channel by id. Administrative.
func (s *Service) GetChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) (*model.Channel, error) {
	return s.storage.GetChannel(ctx, gameID, id)
}

// CreateChannel creates a global channel. Administrative.
func (s *Service) CreateChannel(ctx context.Context, gameID model.GameID, name string) (*model.Channel, error) {
	if _, err := s.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	channel := &model.Channel{
		ID:        model.ChannelID("c_" + s.random.String(idLength, idAlphabet)),
		GameID:    gameID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveChannel(ctx, channel); err != nil {
		return nil, err
	}

	s.logger.Info("channel created",
		slog.String("game_id", string(gameID)),
		slog.String("channel_id", string(channel.ID)),
	)
	return channel, nil
}

// UpdateChannel renames a channel. Administrative.
func (s *Service) UpdateChannel(ctx context.Context, gameID model.GameID, id model.ChannelID, name string) (*model.Channel, error) {
	var updated *model.Channel
	err := s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		channel, err := s.storage.GetChannel(ctx, gameID, id)
		if err != nil {
			return err
		}

		channel.Name = name
		channel.UpdatedAt = s.clock.Now()

		if err := s.storage.SaveChannel(ctx, channel); err != nil {
			return err
		}
		updated = channel
		return nil
	})
	return updated, err
}

// DeleteChannel removes a global channel. Administrative. Squad channels
// live and die with their squad and cannot be deleted directly.
func (s *Service) DeleteChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) error {
	return s.storage.WithGameLock(ctx, gameID, func(ctx context.Context) error {
		channel, err := s.storage.GetChannel(ctx, gameID, id)
		if err != nil {
			return err
		}
		if channel.IsSquadOwned() {
			return model.ErrChannelOwnedBySquad
		}
		return s.storage.DeleteChannel(ctx, gameID, id)
	})
}
