package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games    map[model.GameID]*model.Game
	players  map[playerKey]*model.Player
	kills    map[killKey]*model.Kill
	squads   map[squadKey]*model.Squad
	channels map[channelKey]*model.Channel
	missions map[missionKey]*model.Mission

	lockMu    sync.Mutex
	gameLocks map[model.GameID]*sync.Mutex
}

type playerKey struct {
	gameID model.GameID
	id     model.PlayerID
}

type killKey struct {
	gameID model.GameID
	id     model.KillID
}

type squadKey struct {
	gameID model.GameID
	id     model.SquadID
}

type channelKey struct {
	gameID model.GameID
	id     model.ChannelID
}

type missionKey struct {
	gameID model.GameID
	id     model.MissionID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:     make(map[model.GameID]*model.Game),
		players:   make(map[playerKey]*model.Player),
		kills:     make(map[killKey]*model.Kill),
		squads:    make(map[squadKey]*model.Squad),
		channels:  make(map[channelKey]*model.Channel),
		missions:  make(map[missionKey]*model.Mission),
		gameLocks: make(map[model.GameID]*sync.Mutex),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// WithGameLock serializes mutations per game with a keyed mutex. The game's
// state is snapshotted on entry and restored when fn fails, so a unit of
// writes applies entirely or not at all.
func (s *Storage) WithGameLock(ctx context.Context, gameID model.GameID, fn func(ctx context.Context) error) error {
	s.lockMu.Lock()
	lock, ok := s.gameLocks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		s.gameLocks[gameID] = lock
	}
	s.lockMu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	snap := s.snapshotGame(gameID)
	if err := fn(ctx); err != nil {
		s.restoreGame(gameID, snap)
		return err
	}
	return nil
}

// gameSnapshot holds every entry belonging to one game. Stored values are
// never mutated in place (saves and reads exchange clones), so the snapshot
// can share pointers with the live maps.
type gameSnapshot struct {
	game     *model.Game
	players  map[playerKey]*model.Player
	kills    map[killKey]*model.Kill
	squads   map[squadKey]*model.Squad
	channels map[channelKey]*model.Channel
	missions map[missionKey]*model.Mission
}

func (s *Storage) snapshotGame(gameID model.GameID) *gameSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &gameSnapshot{
		game:     s.games[gameID],
		players:  make(map[playerKey]*model.Player),
		kills:    make(map[killKey]*model.Kill),
		squads:   make(map[squadKey]*model.Squad),
		channels: make(map[channelKey]*model.Channel),
		missions: make(map[missionKey]*model.Mission),
	}
	for key, player := range s.players {
		if key.gameID == gameID {
			snap.players[key] = player
		}
	}
	for key, kill := range s.kills {
		if key.gameID == gameID {
			snap.kills[key] = kill
		}
	}
	for key, squad := range s.squads {
		if key.gameID == gameID {
			snap.squads[key] = squad
		}
	}
	for key, channel := range s.channels {
		if key.gameID == gameID {
			snap.channels[key] = channel
		}
	}
	for key, mission := range s.missions {
		if key.gameID == gameID {
			snap.missions[key] = mission
		}
	}
	return snap
}

func (s *Storage) restoreGame(gameID model.GameID, snap *gameSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.game != nil {
		s.games[gameID] = snap.game
	} else {
		delete(s.games, gameID)
	}
	restoreEntries(s.players, snap.players, gameID, func(k playerKey) model.GameID { return k.gameID })
	restoreEntries(s.kills, snap.kills, gameID, func(k killKey) model.GameID { return k.gameID })
	restoreEntries(s.squads, snap.squads, gameID, func(k squadKey) model.GameID { return k.gameID })
	restoreEntries(s.channels, snap.channels, gameID, func(k channelKey) model.GameID { return k.gameID })
	restoreEntries(s.missions, snap.missions, gameID, func(k missionKey) model.GameID { return k.gameID })
}

func restoreEntries[K comparable, V any](live, snap map[K]V, gameID model.GameID, owner func(K) model.GameID) {
	for key := range live {
		if owner(key) == gameID {
			delete(live, key)
		}
	}
	for key, v := range snap {
		live[key] = v
	}
}

// Clone helpers keep stored state isolated from caller mutations.

func cloneGame(game *model.Game) *model.Game {
	c := *game
	return &c
}

func clonePlayer(player *model.Player) *model.Player {
	c := *player
	if player.SquadID != nil {
		id := *player.SquadID
		c.SquadID = &id
	}
	return &c
}

func cloneKill(kill *model.Kill) *model.Kill {
	c := *kill
	return &c
}

func cloneSquad(squad *model.Squad) *model.Squad {
	c := *squad
	c.Members = slices.Clone(squad.Members)
	return &c
}

func cloneChannel(channel *model.Channel) *model.Channel {
	c := *channel
	return &c
}

func cloneMission(mission *model.Mission) *model.Mission {
	c := *mission
	return &c
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = cloneGame(game)
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return cloneGame(game), nil
}

func (s *Storage) GetGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, cloneGame(g))
	}
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	for key := range s.players {
		if key.gameID == id {
			delete(s.players, key)
		}
	}
	for key := range s.kills {
		if key.gameID == id {
			delete(s.kills, key)
		}
	}
	for key := range s.squads {
		if key.gameID == id {
			delete(s.squads, key)
		}
	}
	for key := range s.channels {
		if key.gameID == id {
			delete(s.channels, key)
		}
	}
	for key := range s.missions {
		if key.gameID == id {
			delete(s.missions, key)
		}
	}
	return nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[playerKey{gameID: player.GameID, id: player.ID}] = clonePlayer(player)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[playerKey{gameID: gameID, id: id}]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clonePlayer(player), nil
}

func (s *Storage) GetPlayerBySubject(ctx context.Context, gameID model.GameID, subject string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, player := range s.players {
		if key.gameID == gameID && player.Subject == subject {
			return clonePlayer(player), nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

func (s *Storage) GetPlayerByBiteCode(ctx context.Context, gameID model.GameID, biteCode string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, player := range s.players {
		if key.gameID == gameID && player.BiteCode == biteCode {
			return clonePlayer(player), nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

func (s *Storage) GetPlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var players []*model.Player
	for key, player := range s.players {
		if key.gameID == gameID {
			players = append(players, clonePlayer(player))
		}
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, playerKey{gameID: gameID, id: id})
	return nil
}

// Kill operations

func (s *Storage) SaveKill(ctx context.Context, kill *model.Kill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kills[killKey{gameID: kill.GameID, id: kill.ID}] = cloneKill(kill)
	return nil
}

func (s *Storage) GetKill(ctx context.Context, gameID model.GameID, id model.KillID) (*model.Kill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kill, ok := s.kills[killKey{gameID: gameID, id: id}]
	if !ok {
		return nil, model.ErrKillNotFound
	}
	return cloneKill(kill), nil
}

func (s *Storage) GetKillsForGame(ctx context.Context, gameID model.GameID) ([]*model.Kill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var kills []*model.Kill
	for key, kill := range s.kills {
		if key.gameID == gameID {
			kills = append(kills, cloneKill(kill))
		}
	}
	return kills, nil
}

func (s *Storage) DeleteKill(ctx context.Context, gameID model.GameID, id model.KillID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kills, killKey{gameID: gameID, id: id})
	return nil
}

// Squad operations

func (s *Storage) SaveSquad(ctx context.Context, squad *model.Squad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.squads[squadKey{gameID: squad.GameID, id: squad.ID}] = cloneSquad(squad)
	return nil
}

func (s *Storage) GetSquad(ctx context.Context, gameID model.GameID, id model.SquadID) (*model.Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	squad, ok := s.squads[squadKey{gameID: gameID, id: id}]
	if !ok {
		return nil, model.ErrSquadNotFound
	}
	return cloneSquad(squad), nil
}

func (s *Storage) GetSquadByName(ctx context.Context, gameID model.GameID, name string) (*model.Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, squad := range s.squads {
		if key.gameID == gameID && squad.Name == name {
			return cloneSquad(squad), nil
		}
	}
	return nil, model.ErrSquadNotFound
}

func (s *Storage) GetSquadsForGame(ctx context.Context, gameID model.GameID) ([]*model.Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var squads []*model.Squad
	for key, squad := range s.squads {
		if key.gameID == gameID {
			squads = append(squads, cloneSquad(squad))
		}
	}
	return squads, nil
}

func (s *Storage) DeleteSquad(ctx context.Context, gameID model.GameID, id model.SquadID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.squads, squadKey{gameID: gameID, id: id})
	return nil
}

// Channel operations

func (s *Storage) SaveChannel(ctx context.Context, channel *model.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[channelKey{gameID: channel.GameID, id: channel.ID}] = cloneChannel(channel)
	return nil
}

func (s *Storage) GetChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) (*model.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel, ok := s.channels[channelKey{gameID: gameID, id: id}]
	if !ok {
		return nil, model.ErrChannelNotFound
	}
	return cloneChannel(channel), nil
}

func (s *Storage) GetChannelsForGame(ctx context.Context, gameID model.GameID) ([]*model.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var channels []*model.Channel
	for key, channel := range s.channels {
		if key.gameID == gameID {
			channels = append(channels, cloneChannel(channel))
		}
	}
	return channels, nil
}

func (s *Storage) DeleteChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, channelKey{gameID: gameID, id: id})
	return nil
}

// Mission operations

func (s *Storage) SaveMission(ctx context.Context, mission *model.Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missions[missionKey{gameID: mission.GameID, id: mission.ID}] = cloneMission(mission)
	return nil
}

func (s *Storage) GetMission(ctx context.Context, gameID model.GameID, id model.MissionID) (*model.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mission, ok := s.missions[missionKey{gameID: gameID, id: id}]
	if !ok {
		return nil, model.ErrMissionNotFound
	}
	return cloneMission(mission), nil
}

func (s *Storage) GetMissionsForGame(ctx context.Context, gameID model.GameID) ([]*model.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var missions []*model.Mission
	for key, mission := range s.missions {
		if key.gameID == gameID {
			missions = append(missions, cloneMission(mission))
		}
	}
	return missions, nil
}

func (s *Storage) DeleteMission(ctx context.Context, gameID model.GameID, id model.MissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.missions, missionKey{gameID: gameID, id: id})
	return nil
}
