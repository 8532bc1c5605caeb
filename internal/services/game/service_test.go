package game

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
}

func (s *ServiceSuite) TestCreateGameSucceeds() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")

	game, err := s.service.CreateGame(s.ctx, "Fall Invitational", "campus-wide week")
	s.Require().NoError(err)

	s.Equal(model.GameID("g_aaaaaaaaaaaaaaaaaaaa"), game.ID)
	s.Equal("Fall Invitational", game.Name)
	s.Equal(model.GameStateRegistration, game.State)
	s.Equal(s.clock.CurrentTime, game.CreatedAt)
}

func (s *ServiceSuite) TestCreateGameIsPersisted() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	game, err := s.service.CreateGame(s.ctx, "Fall Invitational", "")
	s.Require().NoError(err)

	retrieved, err := s.service.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
}

func (s *ServiceSuite) TestGetGameNotFound() {
	_, err := s.service.GetGame(s.ctx, "g_missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestGetGamesListsAll() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbbbbbb")
	_, err := s.service.CreateGame(s.ctx, "First", "")
	s.Require().NoError(err)
	_, err = s.service.CreateGame(s.ctx, "Second", "")
	s.Require().NoError(err)

	games, err := s.service.GetGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *ServiceSuite) TestUpdateGameChangesState() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	game, err := s.service.CreateGame(s.ctx, "Fall Invitational", "")
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	updated, err := s.service.UpdateGame(s.ctx, game.ID, "Fall Invitational", "live now", model.GameStateInProgress)
	s.Require().NoError(err)

	s.Equal(model.GameStateInProgress, updated.State)
	s.Equal("live now", updated.Description)
	s.Equal(s.clock.CurrentTime, updated.UpdatedAt)
	s.True(updated.UpdatedAt.After(updated.CreatedAt))
}

func (s *ServiceSuite) TestUpdateGameNotFound() {
	_, err := s.service.UpdateGame(s.ctx, "g_missing", "x", "", model.GameStateComplete)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestDeleteGameRemovesIt() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	game, err := s.service.CreateGame(s.ctx, "Fall Invitational", "")
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteGame(s.ctx, game.ID))

	_, err = s.service.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestDeleteGameCascadesToScopedEntities() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	game, err := s.service.CreateGame(s.ctx, "Fall Invitational", "")
	s.Require().NoError(err)

	player := &model.Player{ID: "p_1", Subject: "auth0|alice", GameID: game.ID, IsHuman: true, BiteCode: "AAA111"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.Require().NoError(s.service.DeleteGame(s.ctx, game.ID))

	_, err = s.storage.GetPlayer(s.ctx, game.ID, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestDeleteGameNotFound() {
	err := s.service.DeleteGame(s.ctx, "g_missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}
