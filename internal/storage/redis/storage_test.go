package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/hvzgame/hvz-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.LockTimeout = 500 * time.Millisecond
	cfg.LockRetryDelay = 5 * time.Millisecond

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{
		ID:        "g_1",
		Name:      "Fall Invitational",
		State:     model.GameStateRegistration,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, "g_1")
	s.Require().NoError(err)
	s.Equal(game.Name, retrieved.Name)
	s.Equal(game.State, retrieved.State)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "g_missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGetGamesListsAll() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "g_1", Name: "First"}))
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "g_2", Name: "Second"}))

	games, err := s.storage.GetGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *StorageSuite) TestDeleteGameCascades() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "g_1"}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "p_1", GameID: "g_1", Subject: "auth0|a", BiteCode: "AAA111",
	}))
	s.Require().NoError(s.storage.SaveSquad(s.ctx, &model.Squad{ID: "s_1", GameID: "g_1", Name: "Night Watch"}))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "g_1"))

	_, err := s.storage.GetGame(s.ctx, "g_1")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.storage.GetPlayer(s.ctx, "g_1", "p_1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerBySubject(s.ctx, "g_1", "auth0|a")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetSquad(s.ctx, "g_1", "s_1")
	s.ErrorIs(err, model.ErrSquadNotFound)
}

// Player tests

func (s *StorageSuite) TestPlayerSecondaryLookups() {
	player := &model.Player{
		ID:       "p_1",
		GameID:   "g_1",
		Subject:  "auth0|alice",
		BiteCode: "ALC111",
		IsHuman:  true,
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	bySubject, err := s.storage.GetPlayerBySubject(s.ctx, "g_1", "auth0|alice")
	s.Require().NoError(err)
	s.Equal(player.ID, bySubject.ID)

	byCode, err := s.storage.GetPlayerByBiteCode(s.ctx, "g_1", "ALC111")
	s.Require().NoError(err)
	s.Equal(player.ID, byCode.ID)

	_, err = s.storage.GetPlayerBySubject(s.ctx, "g_other", "auth0|alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSavePlayerUpdatesInPlace() {
	player := &model.Player{
		ID: "p_1", GameID: "g_1", Subject: "auth0|alice", BiteCode: "ALC111", IsHuman: true,
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	player.IsHuman = false
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "g_1", "p_1")
	s.Require().NoError(err)
	s.False(retrieved.IsHuman)

	players, err := s.storage.GetPlayersForGame(s.ctx, "g_1")
	s.Require().NoError(err)
	s.Len(players, 1)
}

func (s *StorageSuite) TestDeletePlayerRemovesLookups() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "p_1", GameID: "g_1", Subject: "auth0|alice", BiteCode: "ALC111",
	}))

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "g_1", "p_1"))

	_, err := s.storage.GetPlayer(s.ctx, "g_1", "p_1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerByBiteCode(s.ctx, "g_1", "ALC111")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Squad tests

func (s *StorageSuite) TestSquadRoundTripWithMembers() {
	squad := &model.Squad{
		ID:        "s_1",
		GameID:    "g_1",
		Name:      "Night Watch",
		ChannelID: "c_1",
		Members:   []model.PlayerID{"p_1", "p_2"},
	}
	s.Require().NoError(s.storage.SaveSquad(s.ctx, squad))

	retrieved, err := s.storage.GetSquad(s.ctx, "g_1", "s_1")
	s.Require().NoError(err)
	s.Equal(squad.Members, retrieved.Members)
	s.Equal(squad.ChannelID, retrieved.ChannelID)

	byName, err := s.storage.GetSquadByName(s.ctx, "g_1", "Night Watch")
	s.Require().NoError(err)
	s.Equal(squad.ID, byName.ID)
}

// Mission tests

func (s *StorageSuite) TestMissionRoundTrip() {
	mission := &model.Mission{
		ID:               "m_1",
		GameID:           "g_1",
		Name:             "Supply Run",
		VisibleToHumans:  true,
		VisibleToZombies: false,
	}
	s.Require().NoError(s.storage.SaveMission(s.ctx, mission))

	missions, err := s.storage.GetMissionsForGame(s.ctx, "g_1")
	s.Require().NoError(err)
	s.Len(missions, 1)
	s.True(missions[0].VisibleToHumans)
}

// Lock tests

func (s *StorageSuite) TestWithGameLockRunsFn() {
	ran := false
	err := s.storage.WithGameLock(s.ctx, "g_1", func(ctx context.Context) error {
		ran = true
		return nil
	})
	s.Require().NoError(err)
	s.True(ran)

	// Lock is released afterwards
	err = s.storage.WithGameLock(s.ctx, "g_1", func(ctx context.Context) error { return nil })
	s.NoError(err)
}

func (s *StorageSuite) TestWithGameLockTimesOutWhenHeld() {
	// Simulate another holder by planting the lease directly
	s.Require().NoError(s.mini.Set("hvz:lock:game:g_1", "1"))

	err := s.storage.WithGameLock(s.ctx, "g_1", func(ctx context.Context) error {
		s.Fail("entered while lock was held elsewhere")
		return nil
	})
	s.ErrorIs(err, ErrLockTimeout)
}

func (s *StorageSuite) TestWithGameLockExpiredLeaseRecovered() {
	s.Require().NoError(s.mini.Set("hvz:lock:game:g_1", "1"))
	s.mini.SetTTL("hvz:lock:game:g_1", 50*time.Millisecond)
	s.mini.FastForward(100 * time.Millisecond)

	err := s.storage.WithGameLock(s.ctx, "g_1", func(ctx context.Context) error { return nil })
	s.NoError(err)
}

func (s *StorageSuite) TestWithGameLockCommitsWritesOnSuccess() {
	err := s.storage.WithGameLock(s.ctx, "g_1", func(ctx context.Context) error {
		return s.storage.SaveGame(ctx, &model.Game{ID: "g_1", Name: "Committed"})
	})
	s.Require().NoError(err)

	game, err := s.storage.GetGame(s.ctx, "g_1")
	s.Require().NoError(err)
	s.Equal("Committed", game.Name)
}

func (s *StorageSuite) TestWithGameLockDiscardsWritesOnError() {
	boom := errors.New("unit failed")
	err := s.storage.WithGameLock(s.ctx, "g_1", func(ctx context.Context) error {
		if err := s.storage.SaveGame(ctx, &model.Game{ID: "g_1", Name: "Discarded"}); err != nil {
			return err
		}
		if err := s.storage.SavePlayer(ctx, &model.Player{
			ID: "p_1", GameID: "g_1", Subject: "auth0|alice", BiteCode: "ALC111",
		}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.storage.GetGame(s.ctx, "g_1")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.storage.GetPlayer(s.ctx, "g_1", "p_1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestWithGameLockAbortsCommitWhenLeaseLost() {
	err := s.storage.WithGameLock(s.ctx, "g_1", func(ctx context.Context) error {
		if err := s.storage.SaveGame(ctx, &model.Game{ID: "g_1"}); err != nil {
			return err
		}
		// Lease expires mid-unit and a successor takes the lock
		s.mini.FastForward(time.Minute)
		s.Require().NoError(s.mini.Set("hvz:lock:game:g_1", "successor"))
		return nil
	})
	s.ErrorIs(err, ErrLockLost)

	_, err = s.storage.GetGame(s.ctx, "g_1")
	s.ErrorIs(err, model.ErrGameNotFound)

	// The successor's lease must survive our release
	val, err := s.mini.Get("hvz:lock:game:g_1")
	s.Require().NoError(err)
	s.Equal("successor", val)
}
