package redis

import (
	"fmt"

	"github.com/hvzgame/hvz-server/internal/model"
)

// Key prefix for all game-session data
const keyPrefix = "hvz"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game ids
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// gameLockKey returns the Redis key for a game's mutation lock
func gameLockKey(id model.GameID) string {
	return fmt.Sprintf("%s:lock:game:%s", keyPrefix, id)
}

// playerKey returns the Redis key for a Player
func playerKey(gameID model.GameID, id model.PlayerID) string {
	return fmt.Sprintf("%s:game:%s:player:%s", keyPrefix, gameID, id)
}

// playersIndexKey returns the Redis key for the SET of players in a game
func playersIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:players:%s", keyPrefix, gameID)
}

// killKey returns the Redis key for a Kill
func killKey(gameID model.GameID, id model.KillID) string {
	return fmt.Sprintf("%s:game:%s:kill:%s", keyPrefix, gameID, id)
}

// killsIndexKey returns the Redis key for the SET of kills in a game
func killsIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:kills:%s", keyPrefix, gameID)
}

// squadKey returns the Redis key for a Squad
func squadKey(gameID model.GameID, id model.SquadID) string {
	return fmt.Sprintf("%s:game:%s:squad:%s", keyPrefix, gameID, id)
}

// squadsIndexKey returns the Redis key for the SET of squads in a game
func squadsIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:squads:%s", keyPrefix, gameID)
}

// channelKey returns the Redis key for a Channel
func channelKey(gameID model.GameID, id model.ChannelID) string {
	return fmt.Sprintf("%s:game:%s:channel:%s", keyPrefix, gameID, id)
}

// channelsIndexKey returns the Redis key for the SET of channels in a game
func channelsIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:channels:%s", keyPrefix, gameID)
}

// missionKey returns the Redis key for a Mission
func missionKey(gameID model.GameID, id model.MissionID) string {
	return fmt.Sprintf("%s:game:%s:mission:%s", keyPrefix, gameID, id)
}

// missionsIndexKey returns the Redis key for the SET of missions in a game
func missionsIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:missions:%s", keyPrefix, gameID)
}
