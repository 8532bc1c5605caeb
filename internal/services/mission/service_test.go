package mission

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
	human   *model.Player
	zombie  *model.Player
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

	s.human = &model.Player{
		ID:       "p_human",
		Subject:  "auth0|hank",
		GameID:   s.gameID,
		IsHuman:  true,
		BiteCode: "HNK456",
	}
	s.zombie = &model.Player{
		ID:       "p_zombie",
		Subject:  "auth0|zed",
		GameID:   s.gameID,
		IsHuman:  false,
		BiteCode: "ZED123",
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.human))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.zombie))
}

func (s *ServiceSuite) createMission(name string, humans, zombies bool) *model.Mission {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	mission, err := s.service.CreateMission(s.ctx, s.gameID, MissionParams{
		Name:             name,
		VisibleToHumans:  humans,
		VisibleToZombies: zombies,
	})
	s.Require().NoError(err)
	return mission
}

func (s *ServiceSuite) TestCreateMissionSucceeds() {
	s.random.QueueString("aaaaaaaaaaaaaaaaaaaa")
	start := time.Date(2025, 10, 2, 20, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mission, err := s.service.CreateMission(s.ctx, s.gameID, MissionParams{
		Name:            "Supply Run",
		Description:     "reach the depot",
		Location:        "old gym",
		VisibleToHumans: true,
		StartTime:       start,
		EndTime:         end,
	})
	s.Require().NoError(err)
	s.Equal(model.MissionID("m_aaaaaaaaaaaaaaaaaaaa"), mission.ID)
	s.Equal(start, mission.StartTime)
	s.True(mission.VisibleToHumans)
	s.False(mission.VisibleToZombies)
}

func (s *ServiceSuite) TestCreateMissionUnknownGame() {
	_, err := s.service.CreateMission(s.ctx, "g_missing", MissionParams{Name: "x"})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestGetMissionsFiltersByFaction() {
	humanOnly := s.createMission("Supply Run", true, false)
	s.random.Reset()
	s.random.QueueString("bbbbbbbbbbbbbbbbbbbb")
	zombieOnly, err := s.service.CreateMission(s.ctx, s.gameID, MissionParams{
		Name:             "Horde Gathering",
		VisibleToZombies: true,
	})
	s.Require().NoError(err)

	forHuman, err := s.service.GetMissions(s.ctx, s.gameID, "auth0|hank", nil)
	s.Require().NoError(err)
	s.Len(forHuman, 1)
	s.Equal(humanOnly.ID, forHuman[0].ID)

	forZombie, err := s.service.GetMissions(s.ctx, s.gameID, "auth0|zed", nil)
	s.Require().NoError(err)
	s.Len(forZombie, 1)
	s.Equal(zombieOnly.ID, forZombie[0].ID)
}

func (s *ServiceSuite) TestGetMissionsVisibleToBothFactions() {
	s.createMission("Final Stand", true, true)

	forHuman, err := s.service.GetMissions(s.ctx, s.gameID, "auth0|hank", nil)
	s.Require().NoError(err)
	s.Len(forHuman, 1)

	forZombie, err := s.service.GetMissions(s.ctx, s.gameID, "auth0|zed", nil)
	s.Require().NoError(err)
	s.Len(forZombie, 1)
}

func (s *ServiceSuite) TestGetMissionsAdminSeesAll() {
	s.createMission("Supply Run", true, false)
	s.random.Reset()
	s.random.QueueString("bbbbbbbbbbbbbbbbbbbb")
	_, err := s.service.CreateMission(s.ctx, s.gameID, MissionParams{
		Name:             "Horde Gathering",
		VisibleToZombies: true,
	})
	s.Require().NoError(err)

	all, err := s.service.GetMissions(s.ctx, s.gameID, "auth0|admin", []string{RoleAdmin})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ServiceSuite) TestGetMissionsUnboundSubject() {
	s.createMission("Supply Run", true, false)

	_, err := s.service.GetMissions(s.ctx, s.gameID, "auth0|stranger", nil)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestGetMissionHiddenFromOtherFaction() {
	mission := s.createMission("Supply Run", true, false)

	_, err := s.service.GetMission(s.ctx, s.gameID, mission.ID, "auth0|zed", nil)
	s.ErrorIs(err, model.ErrMissionNotFound)
}

func (s *ServiceSuite) TestGetMissionVisibleToOwnFaction() {
	mission := s.createMission("Supply Run", true, false)

	got, err := s.service.GetMission(s.ctx, s.gameID, mission.ID, "auth0|hank", nil)
	s.Require().NoError(err)
	s.Equal(mission.ID, got.ID)
}

func (s *ServiceSuite) TestGetMissionAdminBypassesVisibility() {
	mission := s.createMission("Supply Run", true, false)

	got, err := s.service.GetMission(s.ctx, s.gameID, mission.ID, "auth0|admin", []string{RoleAdmin})
	s.Require().NoError(err)
	s.Equal(mission.ID, got.ID)
}

func (s *ServiceSuite) TestVisibilityFollowsInfection() {
	mission := s.createMission("Supply Run", true, false)

	_, err := s.service.GetMission(s.ctx, s.gameID, mission.ID, "auth0|hank", nil)
	s.Require().NoError(err)

	s.human.IsHuman = false
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.human))

	_, err = s.service.GetMission(s.ctx, s.gameID, mission.ID, "auth0|hank", nil)
	s.ErrorIs(err, model.ErrMissionNotFound)
}

func (s *ServiceSuite) TestUpdateMissionOverwritesFields() {
	mission := s.createMission("Supply Run", true, false)

	updated, err := s.service.UpdateMission(s.ctx, s.gameID, mission.ID, MissionParams{
		Name:             "Supply Run II",
		VisibleToHumans:  true,
		VisibleToZombies: true,
	})
	s.Require().NoError(err)
	s.Equal("Supply Run II", updated.Name)
	s.True(updated.VisibleToZombies)
}

func (s *ServiceSuite) TestUpdateMissionNotFound() {
	_, err := s.service.UpdateMission(s.ctx, s.gameID, "m_missing", MissionParams{Name: "x"})
	s.ErrorIs(err, model.ErrMissionNotFound)
}

func (s *ServiceSuite) TestDeleteMissionRemovesIt() {
	mission := s.createMission("Supply Run", true, false)

	s.Require().NoError(s.service.DeleteMission(s.ctx, s.gameID, mission.ID))

	_, err := s.service.GetMission(s.ctx, s.gameID, mission.ID, "auth0|admin", []string{RoleAdmin})
	s.ErrorIs(err, model.ErrMissionNotFound)
}

func (s *ServiceSuite) TestDeleteMissionNotFound() {
	err := s.service.DeleteMission(s.ctx, s.gameID, "m_missing")
	s.ErrorIs(err, model.ErrMissionNotFound)
}
