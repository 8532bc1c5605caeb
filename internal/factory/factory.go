package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/hvzgame/hvz-server/internal/dependencies/clock"
	"github.com/hvzgame/hvz-server/internal/dependencies/random"
	"github.com/hvzgame/hvz-server/internal/services/channel"
	"github.com/hvzgame/hvz-server/internal/services/game"
	"github.com/hvzgame/hvz-server/internal/services/kill"
	"github.com/hvzgame/hvz-server/internal/services/mission"
	"github.com/hvzgame/hvz-server/internal/services/player"
	"github.com/hvzgame/hvz-server/internal/services/squad"
	"github.com/hvzgame/hvz-server/internal/storage"
	"github.com/hvzgame/hvz-server/internal/storage/memory"
	redisstorage "github.com/hvzgame/hvz-server/internal/storage/redis"
	"github.com/hvzgame/hvz-server/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	GameService    *game.Service
	PlayerService  *player.Service
	KillService    *kill.Service
	SquadService   *squad.Service
	ChannelService *channel.Service
	MissionService *mission.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file path (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		GameService:    game.New(store, clk, rnd, logger),
		PlayerService:  player.New(store, clk, rnd, logger),
		KillService:    kill.New(store, clk, rnd, logger),
		SquadService:   squad.New(store, clk, rnd, logger),
		ChannelService: channel.New(store, clk, rnd, logger),
		MissionService: mission.New(store, clk, rnd, logger),
	}
}
