package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/storage"
)

// ErrLockTimeout is returned when a game lock cannot be acquired in time
var ErrLockTimeout = errors.New("timed out waiting for game lock")

// ErrLockLost is returned when the lock lease expired before the unit could
// commit. The unit's writes are discarded.
var ErrLockLost = errors.New("game lock lost before commit")

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// releaseScript drops the lease only while it still belongs to the holder,
// so a slow holder can never delete a successor's lease.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

type txContextKey struct{}

// gameTx buffers a unit's writes so they commit in a single transaction
type gameTx struct {
	ops []func(ctx context.Context, pipe redis.Pipeliner)
}

func txFrom(ctx context.Context) *gameTx {
	tx, _ := ctx.Value(txContextKey{}).(*gameTx)
	return tx
}

func newLockToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WithGameLock serializes mutations per game with a SET-NX lease. The lease
// carries a TTL so a crashed holder cannot block the game forever, and a
// per-acquisition token so release never touches a successor's lease. Writes
// issued inside fn are buffered and committed in one MULTI/EXEC after fn
// succeeds; a failing unit leaves nothing behind. Reads inside fn observe
// pre-unit state, so units must finish reading before they write.
func (s *Storage) WithGameLock(ctx context.Context, gameID model.GameID, fn func(ctx context.Context) error) error {
	key := gameLockKey(gameID)
	token, err := newLockToken()
	if err != nil {
		return err
	}
	deadline := time.Now().Add(s.cfg.LockTimeout)

	for {
		ok, err := s.client.SetNX(ctx, key, token, s.cfg.LockTTL).Result()
		if err != nil {
			return err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: game %s", ErrLockTimeout, gameID)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.LockRetryDelay):
		}
	}

	defer func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), s.client, []string{key}, token).Err()
	}()

	tx := &gameTx{}
	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		return err
	}
	if len(tx.ops) == 0 {
		return nil
	}

	// Commit only while the lease is still ours. An expired lease means a
	// successor may already be mutating the game.
	held, err := s.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if held != token {
		return fmt.Errorf("%w: game %s", ErrLockLost, gameID)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range tx.ops {
			op(ctx, pipe)
		}
		return nil
	})
	return err
}

// getJSON loads and unmarshals one record, translating redis.Nil to notFound
func getJSON[T any](ctx context.Context, s *Storage, key string, notFound error) (*T, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// saveJSON marshals and stores one record, keeping its game index in sync.
// Inside WithGameLock the write is buffered for the unit's commit.
func saveJSON(ctx context.Context, s *Storage, key, indexKey string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	write := func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Set(ctx, key, data, 0)
		if indexKey != "" {
			pipe.SAdd(ctx, indexKey, key)
		}
	}
	if tx := txFrom(ctx); tx != nil {
		tx.ops = append(tx.ops, write)
		return nil
	}

	pipe := s.client.Pipeline()
	write(ctx, pipe)
	_, err = pipe.Exec(ctx)
	return err
}

// deleteIndexed removes one record and its index entry. Inside WithGameLock
// the delete is buffered for the unit's commit.
func (s *Storage) deleteIndexed(ctx context.Context, key, indexKey string) error {
	write := func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, indexKey, key)
	}
	if tx := txFrom(ctx); tx != nil {
		tx.ops = append(tx.ops, write)
		return nil
	}

	pipe := s.client.Pipeline()
	write(ctx, pipe)
	_, err := pipe.Exec(ctx)
	return err
}

// listJSON loads every record referenced by a game index set
func listJSON[T any](ctx context.Context, s *Storage, indexKey string) ([]*T, error) {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*T, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Record removed since the index was read
		}
		var v T
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			return nil, err
		}
		results = append(results, &v)
	}
	return results, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	return saveJSON(ctx, s, gameKey(game.ID), gamesIndexKey(), game)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getJSON[model.Game](ctx, s, gameKey(id), model.ErrGameNotFound)
}

func (s *Storage) GetGames(ctx context.Context) ([]*model.Game, error) {
	games, err := listJSON[model.Game](ctx, s, gamesIndexKey())
	if err != nil {
		return nil, err
	}
	if games == nil {
		games = []*model.Game{}
	}
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	// Drop every scoped record along with the game itself
	indexes := []string{
		playersIndexKey(id),
		killsIndexKey(id),
		squadsIndexKey(id),
		channelsIndexKey(id),
		missionsIndexKey(id),
	}

	doomed := make([]string, 0, len(indexes))
	for _, indexKey := range indexes {
		keys, err := s.client.SMembers(ctx, indexKey).Result()
		if err != nil {
			return err
		}
		doomed = append(doomed, keys...)
		doomed = append(doomed, indexKey)
	}

	write := func(ctx context.Context, pipe redis.Pipeliner) {
		for _, key := range doomed {
			pipe.Del(ctx, key)
		}
		pipe.Del(ctx, gameKey(id))
		pipe.SRem(ctx, gamesIndexKey(), gameKey(id))
	}
	if tx := txFrom(ctx); tx != nil {
		tx.ops = append(tx.ops, write)
		return nil
	}

	pipe := s.client.Pipeline()
	write(ctx, pipe)
	_, err := pipe.Exec(ctx)
	return err
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	return saveJSON(ctx, s, playerKey(player.GameID, player.ID), playersIndexKey(player.GameID), player)
}

func (s *Storage) GetPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) (*model.Player, error) {
	return getJSON[model.Player](ctx, s, playerKey(gameID, id), model.ErrPlayerNotFound)
}

func (s *Storage) GetPlayerBySubject(ctx context.Context, gameID model.GameID, subject string) (*model.Player, error) {
	players, err := listJSON[model.Player](ctx, s, playersIndexKey(gameID))
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if p.Subject == subject {
			return p, nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

func (s *Storage) GetPlayerByBiteCode(ctx context.Context, gameID model.GameID, biteCode string) (*model.Player, error) {
	players, err := listJSON[model.Player](ctx, s, playersIndexKey(gameID))
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if p.BiteCode == biteCode {
			return p, nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

func (s *Storage) GetPlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	return listJSON[model.Player](ctx, s, playersIndexKey(gameID))
}

func (s *Storage) DeletePlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) error {
	return s.deleteIndexed(ctx, playerKey(gameID, id), playersIndexKey(gameID))
}

// Kill operations

func (s *Storage) SaveKill(ctx context.Context, kill *model.Kill) error {
	return saveJSON(ctx, s, killKey(kill.GameID, kill.ID), killsIndexKey(kill.GameID), kill)
}

func (s *Storage) GetKill(ctx context.Context, gameID model.GameID, id model.KillID) (*model.Kill, error) {
	return getJSON[model.Kill](ctx, s, killKey(gameID, id), model.ErrKillNotFound)
}

func (s *Storage) GetKillsForGame(ctx context.Context, gameID model.GameID) ([]*model.Kill, error) {
	return listJSON[model.Kill](ctx, s, killsIndexKey(gameID))
}

func (s *Storage) DeleteKill(ctx context.Context, gameID model.GameID, id model.KillID) error {
	return s.deleteIndexed(ctx, killKey(gameID, id), killsIndexKey(gameID))
}

// Squad operations

func (s *Storage) SaveSquad(ctx context.Context, squad *model.Squad) error {
	return saveJSON(ctx, s, squadKey(squad.GameID, squad.ID), squadsIndexKey(squad.GameID), squad)
}

func (s *Storage) GetSquad(ctx context.Context, gameID model.GameID, id model.SquadID) (*model.Squad, error) {
	return getJSON[model.Squad](ctx, s, squadKey(gameID, id), model.ErrSquadNotFound)
}

func (s *Storage) GetSquadByName(ctx context.Context, gameID model.GameID, name string) (*model.Squad, error) {
	squads, err := listJSON[model.Squad](ctx, s, squadsIndexKey(gameID))
	if err != nil {
		return nil, err
	}
	for _, sq := range squads {
		if sq.Name == name {
			return sq, nil
		}
	}
	return nil, model.ErrSquadNotFound
}

func (s *Storage) GetSquadsForGame(ctx context.Context, gameID model.GameID) ([]*model.Squad, error) {
	return listJSON[model.Squad](ctx, s, squadsIndexKey(gameID))
}

func (s *Storage) DeleteSquad(ctx context.Context, gameID model.GameID, id model.SquadID) error {
	return s.deleteIndexed(ctx, squadKey(gameID, id), squadsIndexKey(gameID))
}

// Channel operations

func (s *Storage) SaveChannel(ctx context.Context, channel *model.Channel) error {
	return saveJSON(ctx, s, channelKey(channel.GameID, channel.ID), channelsIndexKey(channel.GameID), channel)
}

func (s *Storage) GetChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) (*model.Channel, error) {
	return getJSON[model.Channel](ctx, s, channelKey(gameID, id), model.ErrChannelNotFound)
}

func (s *Storage) GetChannelsForGame(ctx context.Context, gameID model.GameID) ([]*model.Channel, error) {
	return listJSON[model.Channel](ctx, s, channelsIndexKey(gameID))
}

func (s *Storage) DeleteChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) error {
	return s.deleteIndexed(ctx, channelKey(gameID, id), channelsIndexKey(gameID))
}

// Mission operations

func (s *Storage) SaveMission(ctx context.Context, mission *model.Mission) error {
	return saveJSON(ctx, s, missionKey(mission.GameID, mission.ID), missionsIndexKey(mission.GameID), mission)
}

func (s *Storage) GetMission(ctx context.Context, gameID model.GameID, id model.MissionID) (*model.Mission, error) {
	return getJSON[model.Mission](ctx, s, missionKey(gameID, id), model.ErrMissionNotFound)
}

func (s *Storage) GetMissionsForGame(ctx context.Context, gameID model.GameID) ([]*model.Mission, error) {
	return listJSON[model.Mission](ctx, s, missionsIndexKey(gameID))
}

func (s *Storage) DeleteMission(ctx context.Context, gameID model.GameID, id model.MissionID) error {
	return s.deleteIndexed(ctx, missionKey(gameID, id), missionsIndexKey(gameID))
}
