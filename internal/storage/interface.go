package storage

import (
	"context"

	"github.com/hvzgame/hvz-server/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// WithGameLock runs fn while holding an exclusive lock on the given game.
	// Every multi-entity mutation goes through this: services re-read current
	// state inside the lock before validating, so two conflicting operations
	// on the same game cannot both pass validation. Operations on different
	// games never contend.
	//
	// The unit is also atomic: if fn returns an error, none of the writes it
	// issued survive. Backends may defer writes until fn returns, so a unit
	// must do all of its reads before its first write.
	WithGameLock(ctx context.Context, gameID model.GameID, fn func(ctx context.Context) error) error

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGames(ctx context.Context) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) (*model.Player, error)
	GetPlayerBySubject(ctx context.Context, gameID model.GameID, subject string) (*model.Player, error)
	GetPlayerByBiteCode(ctx context.Context, gameID model.GameID, biteCode string) (*model.Player, error)
	GetPlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) error

	// Kill operations
	SaveKill(ctx context.Context, kill *model.Kill) error
	GetKill(ctx context.Context, gameID model.GameID, id model.KillID) (*model.Kill, error)
	GetKillsForGame(ctx context.Context, gameID model.GameID) ([]*model.Kill, error)
	DeleteKill(ctx context.Context, gameID model.GameID, id model.KillID) error

	// Squad operations
	SaveSquad(ctx context.Context, squad *model.Squad) error
	GetSquad(ctx context.Context, gameID model.GameID, id model.SquadID) (*model.Squad, error)
	GetSquadByName(ctx context.Context, gameID model.GameID, name string) (*model.Squad, error)
	GetSquadsForGame(ctx context.Context, gameID model.GameID) ([]*model.Squad, error)
	DeleteSquad(ctx context.Context, gameID model.GameID, id model.SquadID) error

	// Channel operations
	SaveChannel(ctx context.Context, channel *model.Channel) error
	GetChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) (*model.Channel, error)
	GetChannelsForGame(ctx context.Context, gameID model.GameID) ([]*model.Channel, error)
	DeleteChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) error

	// Mission operations
	SaveMission(ctx context.Context, mission *model.Mission) error
	GetMission(ctx context.Context, gameID model.GameID, id model.MissionID) (*model.Mission, error)
	GetMissionsForGame(ctx context.Context, gameID model.GameID) ([]*model.Mission, error)
	DeleteMission(ctx context.Context, gameID model.GameID, id model.MissionID) error
}
