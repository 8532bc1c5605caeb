package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/services/kill"
	"github.com/hvzgame/hvz-server/internal/services/mission"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: a full session from game creation through outbreak to squad play
func (s *IntegrationSuite) TestFullSessionFlow() {
	// Step 1: Admin creates a game
	s.app.MockRandom.QueueString("gameaaaaaaaaaaaaaaaa")
	g, err := s.app.GameService.CreateGame(s.ctx, "Fall Invitational", "campus-wide week")
	s.Require().NoError(err)

	// Step 2: Three identities register
	s.app.MockRandom.QueueString("alicexxxxxxxxxxxxxxx", "ALC111")
	alice, err := s.app.PlayerService.RegisterPlayer(s.ctx, g.ID, "auth0|alice")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("bobxxxxxxxxxxxxxxxxx", "BOB222")
	bob, err := s.app.PlayerService.RegisterPlayer(s.ctx, g.ID, "auth0|bob")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("carolxxxxxxxxxxxxxxx", "CRL333")
	carol, err := s.app.PlayerService.RegisterPlayer(s.ctx, g.ID, "auth0|carol")
	s.Require().NoError(err)

	// Step 3: Game goes live, Alice is seeded as patient zero
	_, err = s.app.GameService.UpdateGame(s.ctx, g.ID, g.Name, g.Description, model.GameStateInProgress)
	s.Require().NoError(err)
	_, err = s.app.PlayerService.UpdatePlayer(s.ctx, g.ID, alice.ID, false, true)
	s.Require().NoError(err)

	// Step 4: Bob and Carol form a squad
	s.app.MockRandom.QueueString("squadxxxxxxxxxxxxxxx", "chanxxxxxxxxxxxxxxxx")
	sq, err := s.app.SquadService.CreateSquad(s.ctx, g.ID, "Night Watch", bob.ID, "auth0|bob")
	s.Require().NoError(err)
	_, err = s.app.SquadService.JoinSquad(s.ctx, g.ID, sq.ID, carol.ID, "auth0|carol")
	s.Require().NoError(err)

	// Step 5: Alice bites Bob
	s.app.MockRandom.QueueString("killxxxxxxxxxxxxxxxx")
	k, err := s.app.KillService.CreateKill(s.ctx, g.ID, kill.CreateKillParams{
		KillerID: alice.ID,
		BiteCode: "BOB222",
		Location: "library steps",
	}, "auth0|alice")
	s.Require().NoError(err)
	s.Equal(bob.ID, k.VictimID)

	bobNow, err := s.app.PlayerService.GetPlayer(s.ctx, g.ID, bob.ID)
	s.Require().NoError(err)
	s.False(bobNow.IsHuman)

	// Step 6: Admin posts a humans-only mission; Bob can no longer see it
	s.app.MockRandom.QueueString("missionxxxxxxxxxxxxx")
	m, err := s.app.MissionService.CreateMission(s.ctx, g.ID, mission.MissionParams{
		Name:            "Supply Run",
		VisibleToHumans: true,
	})
	s.Require().NoError(err)

	forCarol, err := s.app.MissionService.GetMissions(s.ctx, g.ID, "auth0|carol", nil)
	s.Require().NoError(err)
	s.Len(forCarol, 1)
	s.Equal(m.ID, forCarol[0].ID)

	forBob, err := s.app.MissionService.GetMissions(s.ctx, g.ID, "auth0|bob", nil)
	s.Require().NoError(err)
	s.Empty(forBob)

	// Step 7: Bob, now a zombie, still sees his squad channel
	channels, err := s.app.ChannelService.GetChannels(s.ctx, g.ID, "auth0|bob")
	s.Require().NoError(err)
	s.Len(channels, 1)
	s.Equal(sq.ChannelID, channels[0].ID)

	// Step 8: Admin retracts the kill; Bob is human again
	s.Require().NoError(s.app.KillService.DeleteKill(s.ctx, g.ID, k.ID))
	bobNow, err = s.app.PlayerService.GetPlayer(s.ctx, g.ID, bob.ID)
	s.Require().NoError(err)
	s.True(bobNow.IsHuman)

	// Step 9: Deleting the game removes everything in its scope
	s.Require().NoError(s.app.GameService.DeleteGame(s.ctx, g.ID))
	_, err = s.app.PlayerService.GetPlayer(s.ctx, g.ID, carol.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.app.SquadService.GetSquads(s.ctx, g.ID)
	s.Require().NoError(err)
}

// Test: impersonation is rejected across subject-authorized operations
func (s *IntegrationSuite) TestSubjectAuthorizationEnforced() {
	s.app.MockRandom.QueueString("gameaaaaaaaaaaaaaaaa")
	g, err := s.app.GameService.CreateGame(s.ctx, "Test", "")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("alicexxxxxxxxxxxxxxx", "ALC111")
	alice, err := s.app.PlayerService.RegisterPlayer(s.ctx, g.ID, "auth0|alice")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("bobxxxxxxxxxxxxxxxxx", "BOB222")
	_, err = s.app.PlayerService.RegisterPlayer(s.ctx, g.ID, "auth0|bob")
	s.Require().NoError(err)

	_, err = s.app.KillService.CreateKill(s.ctx, g.ID, kill.CreateKillParams{
		KillerID: alice.ID,
		BiteCode: "BOB222",
	}, "auth0|bob")
	s.ErrorIs(err, model.ErrSubjectMismatch)

	_, err = s.app.SquadService.CreateSquad(s.ctx, g.ID, "Night Watch", alice.ID, "auth0|bob")
	s.ErrorIs(err, model.ErrSubjectMismatch)
}
