package channel

import (
	"context"
	"testing"
	"time"

	"github.com/hvzgame/hvz-server/internal/dependencies/mocks"
	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/storage/memory"
	"github.com/hvzgame/hvz-server/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
	gameID  model.GameID
	alice   *model.Player
	bob     *model.Player
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()

	s.gameID = "g_test"
	game := &model.Game{ID: s.gameID, Name: "Test Game", State: model.GameStateInProgress}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	s.alice = &model.Player{
		ID:       "p_alice",
		Subject:  "auth0|alice",
		GameID:   s.gameID,
		IsHuman:  true,
		BiteCode: "ALC111",
	}
	s.bob = &model.Player{
		ID:       "p_bob",
		Subject:  "auth0|bob",
		GameID:   s.gameID,
		IsHuman:  true,
		BiteCode: "BOB222",
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.alice))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.bob))
}

func (s *ServiceSuite) seedSquadChannel(squadID model.SquadID, member *model.Player) *model.Channel {
	channel := &model.Channel{
		ID:      model.ChannelID("c_" + squadID),
		GameID:  s.gameID,
		Name:    string(squadID),
		SquadID: squadID,
	}
	s.Require().NoError(s.storage.SaveChannel(s.ctx, channel))

	squad := &model.Squad{
		ID:        squadID,
		GameID:    s.gameID,
		Name:      string(squadID),
		ChannelID: channel.ID,
		Members:   []model.PlayerID{member.ID},
	}
	s.Require().NoError(s.storage.SaveSquad(s.ctx, squad))

	member.SquadID = &squad.ID
	s.Require().NoError(s.storage.SavePlayer(s.ctx, member))
	return channel
}

func (s *ServiceSuite) TestCreateChannelSucceeds() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")

	channel, err := s.service.CreateChannel(s.ctx, s.gameID, "announcements")
	s.Require().NoError(err)
	s.Equal(model.ChannelID("c_aaaaaaaaaaaaaaaaaaaa"), channel.ID)
	s.False(channel.IsSquadOwned())
}

func (s *ServiceSuite) TestCreateChannelUnknownGame() {
	_, err := s.service.CreateChannel(s.ctx, "g_missing", "announcements")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestGetChannelsIncludesGlobalAndOwnSquad() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	global, err := s.service.CreateChannel(s.ctx, s.gameID, "announcements")
	s.Require().NoError(err)

	aliceChannel := s.seedSquadChannel("s_alice", s.alice)
	s.seedSquadChannel("s_bob", s.bob)

	channels, err := s.service.GetChannels(s.ctx, s.gameID, "auth0|alice")
	s.Require().NoError(err)

	var ids []model.ChannelID
	for _, c := range channels {
		ids = append(ids, c.ID)
	}
	s.ElementsMatch([]model.ChannelID{global.ID, aliceChannel.ID}, ids)
}

func (s *ServiceSuite) TestGetChannelsForSquadlessPlayer() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	global, err := s.service.CreateChannel(s.ctx, s.gameID, "announcements")
	s.Require().NoError(err)
	s.seedSquadChannel("s_bob", s.bob)

	channels, err := s.service.GetChannels(s.ctx, s.gameID, "auth0|alice")
	s.Require().NoError(err)
	s.Len(channels, 1)
	s.Equal(global.ID, channels[0].ID)
}

func (s *ServiceSuite) TestGetChannelsUnboundSubject() {
	_, err := s.service.GetChannels(s.ctx, s.gameID, "auth0|stranger")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestUpdateChannelRenames() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	channel, err := s.service.CreateChannel(s.ctx, s.gameID, "announcements")
	s.Require().NoError(err)

	updated, err := s.service.UpdateChannel(s.ctx, s.gameID, channel.ID, "mission control")
	s.Require().NoError(err)
	s.Equal("mission control", updated.Name)
}

func (s *ServiceSuite) TestDeleteChannelRemovesGlobal() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	channel, err := s.service.CreateChannel(s.ctx, s.gameID, "announcements")
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteChannel(s.ctx, s.gameID, channel.ID))

	_, err = s.service.GetChannel(s.ctx, s.gameID, channel.ID)
	s.ErrorIs(err, model.ErrChannelNotFound)
}

func (s *ServiceSuite) TestDeleteChannelRejectsSquadOwned() {
	channel := s.seedSquadChannel("s_alice", s.alice)

	err := s.service.DeleteChannel(s.ctx, s.gameID, channel.ID)
	s.ErrorIs(err, model.ErrChannelOwnedBySquad)

	_, err = s.service.GetChannel(s.ctx, s.gameID, channel.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteChannelNotFound() {
	err := s.service.DeleteChannel(s.ctx, s.gameID, "c_missing")
	s.ErrorIs(err, model.ErrChannelNotFound)
}
