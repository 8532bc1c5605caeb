package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hvzgame/hvz-server/internal/model"
	"github.com/hvzgame/hvz-server/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface.
// Game locks are in-process mutexes: the sqlite backend assumes a single
// server process owns the database file.
type Storage struct {
	db *sqlx.DB

	lockMu    sync.Mutex
	gameLocks map[model.GameID]*sync.Mutex
}

// New opens (or creates) the database file and applies the schema
func New(path string) (*Storage, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{
		db:        db,
		gameLocks: make(map[model.GameID]*sync.Mutex),
	}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

type txContextKey struct{}

// ext returns the unit's transaction when running inside WithGameLock,
// otherwise the database itself
func (s *Storage) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txContextKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}

// WithGameLock serializes mutations per game with a keyed mutex and wraps fn
// in a database transaction: every write inside the unit commits together or
// not at all.
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

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Row types with db tags

type gameRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	State       string    `db:"state"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r gameRow) toModel() *model.Game {
	return &model.Game{
		ID:          model.GameID(r.ID),
		Name:        r.Name,
		Description: r.Description,
		State:       model.GameState(r.State),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type playerRow struct {
	ID            string         `db:"id"`
	GameID        string         `db:"game_id"`
	Subject       string         `db:"subject"`
	IsHuman       bool           `db:"is_human"`
	IsPatientZero bool           `db:"is_patient_zero"`
	BiteCode      string         `db:"bite_code"`
	SquadID       sql.NullString `db:"squad_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r playerRow) toModel() *model.Player {
	p := &model.Player{
		ID:            model.PlayerID(r.ID),
		GameID:        model.GameID(r.GameID),
		Subject:       r.Subject,
		IsHuman:       r.IsHuman,
		IsPatientZero: r.IsPatientZero,
		BiteCode:      r.BiteCode,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.SquadID.Valid {
		squadID := model.SquadID(r.SquadID.String)
		p.SquadID = &squadID
	}
	return p
}

type killRow struct {
	ID          string    `db:"id"`
	GameID      string    `db:"game_id"`
	KillerID    string    `db:"killer_id"`
	VictimID    string    `db:"victim_id"`
	TimeOfDeath time.Time `db:"time_of_death"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r killRow) toModel() *model.Kill {
	return &model.Kill{
		ID:          model.KillID(r.ID),
		GameID:      model.GameID(r.GameID),
		KillerID:    model.PlayerID(r.KillerID),
		VictimID:    model.PlayerID(r.VictimID),
		TimeOfDeath: r.TimeOfDeath,
		Description: r.Description,
		Location:    r.Location,
		CreatedAt:   r.CreatedAt,
	}
}

type squadRow struct {
	ID        string    `db:"id"`
	GameID    string    `db:"game_id"`
	Name      string    `db:"name"`
	ChannelID string    `db:"channel_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type channelRow struct {
	ID        string    `db:"id"`
	GameID    string    `db:"game_id"`
	Name      string    `db:"name"`
	SquadID   string    `db:"squad_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r channelRow) toModel() *model.Channel {
	return &model.Channel{
		ID:        model.ChannelID(r.ID),
		GameID:    model.GameID(r.GameID),
		Name:      r.Name,
		SquadID:   model.SquadID(r.SquadID),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type missionRow struct {
	ID               string    `db:"id"`
	GameID           string    `db:"game_id"`
	Name             string    `db:"name"`
	Description      string    `db:"description"`
	Location         string    `db:"location"`
	VisibleToHumans  bool      `db:"visible_to_humans"`
	VisibleToZombies bool      `db:"visible_to_zombies"`
	StartTime        time.Time `db:"start_time"`
	EndTime          time.Time `db:"end_time"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r missionRow) toModel() *model.Mission {
	return &model.Mission{
		ID:               model.MissionID(r.ID),
		GameID:           model.GameID(r.GameID),
		Name:             r.Name,
		Description:      r.Description,
		Location:         r.Location,
		VisibleToHumans:  r.VisibleToHumans,
		VisibleToZombies: r.VisibleToZombies,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	_, err := s.ext(ctx).ExecContext(ctx, `
		INSERT INTO games (id, name, description, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		string(game.ID), game.Name, game.Description, string(game.State), game.CreatedAt, game.UpdatedAt)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var row gameRow
	err := sqlx.GetContext(ctx, s.ext(ctx), &row, `SELECT * FROM games WHERE id = ?`, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) GetGames(ctx context.Context) ([]*model.Game, error) {
	var rows []gameRow
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &rows, `SELECT * FROM games ORDER BY created_at`); err != nil {
		return nil, err
	}
	games := make([]*model.Game, len(rows))
	for i, row := range rows {
		games[i] = row.toModel()
	}
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	// Scoped tables cascade via foreign keys
	_, err := s.ext(ctx).ExecContext(ctx, `DELETE FROM games WHERE id = ?`, string(id))
	return err
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	var squadID sql.NullString
	if player.SquadID != nil {
		squadID = sql.NullString{String: string(*player.SquadID), Valid: true}
	}
	_, err := s.ext(ctx).ExecContext(ctx, `
		INSERT INTO players (id, game_id, subject, is_human, is_patient_zero, bite_code, squad_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, id) DO UPDATE SET
			subject = excluded.subject,
			is_human = excluded.is_human,
			is_patient_zero = excluded.is_patient_zero,
			bite_code = excluded.bite_code,
			squad_id = excluded.squad_id,
			updated_at = excluded.updated_at`,
		string(player.ID), string(player.GameID), player.Subject, player.IsHuman,
		player.IsPatientZero, player.BiteCode, squadID, player.CreatedAt, player.UpdatedAt)
	return err
}

func (s *Storage) getPlayerWhere(ctx context.Context, query string, args ...any) (*model.Player, error) {
	var row playerRow
	err := sqlx.GetContext(ctx, s.ext(ctx), &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) GetPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) (*model.Player, error) {
	return s.getPlayerWhere(ctx, `SELECT * FROM players WHERE game_id = ? AND id = ?`, string(gameID), string(id))
}

func (s *Storage) GetPlayerBySubject(ctx context.Context, gameID model.GameID, subject string) (*model.Player, error) {
	return s.getPlayerWhere(ctx, `SELECT * FROM players WHERE game_id = ? AND subject = ?`, string(gameID), subject)
}

func (s *Storage) GetPlayerByBiteCode(ctx context.Context, gameID model.GameID, biteCode string) (*model.Player, error) {
	return s.getPlayerWhere(ctx, `SELECT * FROM players WHERE game_id = ? AND bite_code = ?`, string(gameID), biteCode)
}

func (s *Storage) GetPlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	var rows []playerRow
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &rows, `SELECT * FROM players WHERE game_id = ? ORDER BY created_at`, string(gameID)); err != nil {
		return nil, err
	}
	players := make([]*model.Player, len(rows))
	for i, row := range rows {
		players[i] = row.toModel()
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) error {
	_, err := s.ext(ctx).ExecContext(ctx, `DELETE FROM players WHERE game_id = ? AND id = ?`, string(gameID), string(id))
	return err
}

// Kill operations

func (s *Storage) SaveKill(ctx context.Context, kill *model.Kill) error {
	_, err := s.ext(ctx).ExecContext(ctx, `
		INSERT INTO kills (id, game_id, killer_id, victim_id, time_of_death, description, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, id) DO UPDATE SET
			killer_id = excluded.killer_id,
			victim_id = excluded.victim_id,
			time_of_death = excluded.time_of_death,
			description = excluded.description,
			location = excluded.location`,
		string(kill.ID), string(kill.GameID), string(kill.KillerID), string(kill.VictimID),
		kill.TimeOfDeath, kill.Description, kill.Location, kill.CreatedAt)
	return err
}

func (s *Storage) GetKill(ctx context.Context, gameID model.GameID, id model.KillID) (*model.Kill, error) {
	var row killRow
	err := sqlx.GetContext(ctx, s.ext(ctx), &row, `SELECT * FROM kills WHERE game_id = ? AND id = ?`, string(gameID), string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrKillNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) GetKillsForGame(ctx context.Context, gameID model.GameID) ([]*model.Kill, error) {
	var rows []killRow
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &rows, `SELECT * FROM kills WHERE game_id = ? ORDER BY time_of_death`, string(gameID)); err != nil {
		return nil, err
	}
	kills := make([]*model.Kill, len(rows))
	for i, row := range rows {
		kills[i] = row.toModel()
	}
	return kills, nil
}

func (s *Storage) DeleteKill(ctx context.Context, gameID model.GameID, id model.KillID) error {
	_, err := s.ext(ctx).ExecContext(ctx, `DELETE FROM kills WHERE game_id = ? AND id = ?`, string(gameID), string(id))
	return err
}

// Squad operations

func (s *Storage) SaveSquad(ctx context.Context, squad *model.Squad) error {
	// Reuse the unit's transaction when inside WithGameLock; otherwise the
	// squad row and its member list still need to move together
	if tx, ok := ctx.Value(txContextKey{}).(*sqlx.Tx); ok {
		return saveSquad(ctx, tx, squad)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveSquad(ctx, tx, squad); err != nil {
		return err
	}
	return tx.Commit()
}

func saveSquad(ctx context.Context, tx *sqlx.Tx, squad *model.Squad) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO squads (id, game_id, name, channel_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, id) DO UPDATE SET
			name = excluded.name,
			channel_id = excluded.channel_id,
			updated_at = excluded.updated_at`,
		string(squad.ID), string(squad.GameID), squad.Name, string(squad.ChannelID),
		squad.CreatedAt, squad.UpdatedAt)
	if err != nil {
		return err
	}

	// Rewrite the member list wholesale; it is small and order matters
	_, err = tx.ExecContext(ctx, `DELETE FROM squad_members WHERE game_id = ? AND squad_id = ?`,
		string(squad.GameID), string(squad.ID))
	if err != nil {
		return err
	}
	for i, member := range squad.Members {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO squad_members (game_id, squad_id, player_id, position) VALUES (?, ?, ?, ?)`,
			string(squad.GameID), string(squad.ID), string(member), i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) loadSquadMembers(ctx context.Context, gameID model.GameID, id model.SquadID) ([]model.PlayerID, error) {
	var memberIDs []string
	err := sqlx.SelectContext(ctx, s.ext(ctx), &memberIDs, `
		SELECT player_id FROM squad_members WHERE game_id = ? AND squad_id = ? ORDER BY position`,
		string(gameID), string(id))
	if err != nil {
		return nil, err
	}
	members := make([]model.PlayerID, len(memberIDs))
	for i, m := range memberIDs {
		members[i] = model.PlayerID(m)
	}
	return members, nil
}

func (s *Storage) squadFromRow(ctx context.Context, row squadRow) (*model.Squad, error) {
	members, err := s.loadSquadMembers(ctx, model.GameID(row.GameID), model.SquadID(row.ID))
	if err != nil {
		return nil, err
	}
	return &model.Squad{
		ID:        model.SquadID(row.ID),
		GameID:    model.GameID(row.GameID),
		Name:      row.Name,
		ChannelID: model.ChannelID(row.ChannelID),
		Members:   members,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *Storage) GetSquad(ctx context.Context, gameID model.GameID, id model.SquadID) (*model.Squad, error) {
	var row squadRow
	err := sqlx.GetContext(ctx, s.ext(ctx), &row, `SELECT * FROM squads WHERE game_id = ? AND id = ?`, string(gameID), string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSquadNotFound
		}
		return nil, err
	}
	return s.squadFromRow(ctx, row)
}

func (s *Storage) GetSquadByName(ctx context.Context, gameID model.GameID, name string) (*model.Squad, error) {
	var row squadRow
	err := sqlx.GetContext(ctx, s.ext(ctx), &row, `SELECT * FROM squads WHERE game_id = ? AND name = ?`, string(gameID), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSquadNotFound
		}
		return nil, err
	}
	return s.squadFromRow(ctx, row)
}

func (s *Storage) GetSquadsForGame(ctx context.Context, gameID model.GameID) ([]*model.Squad, error) {
	var rows []squadRow
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &rows, `SELECT * FROM squads WHERE game_id = ? ORDER BY created_at`, string(gameID)); err != nil {
		return nil, err
	}
	squads := make([]*model.Squad, len(rows))
	for i, row := range rows {
		squad, err := s.squadFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		squads[i] = squad
	}
	return squads, nil
}

func (s *Storage) DeleteSquad(ctx context.Context, gameID model.GameID, id model.SquadID) error {
	_, err := s.ext(ctx).ExecContext(ctx, `DELETE FROM squads WHERE game_id = ? AND id = ?`, string(gameID), string(id))
	return err
}

// Channel operations

func (s *Storage) SaveChannel(ctx context.Context, channel *model.Channel) error {
	_, err := s.ext(ctx).ExecContext(ctx, `
		INSERT INTO channels (id, game_id, name, squad_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, id) DO UPDATE SET
			name = excluded.name,
			squad_id = excluded.squad_id,
			updated_at = excluded.updated_at`,
		string(channel.ID), string(channel.GameID), channel.Name, string(channel.SquadID),
		channel.CreatedAt, channel.UpdatedAt)
	return err
}

func (s *Storage) GetChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) (*model.Channel, error) {
	var row channelRow
	err := sqlx.GetContext(ctx, s.ext(ctx), &row, `SELECT * FROM channels WHERE game_id = ? AND id = ?`, string(gameID), string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrChannelNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) GetChannelsForGame(ctx context.Context, gameID model.GameID) ([]*model.Channel, error) {
	var rows []channelRow
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &rows, `SELECT * FROM channels WHERE game_id = ? ORDER BY created_at`, string(gameID)); err != nil {
		return nil, err
	}
	channels := make([]*model.Channel, len(rows))
	for i, row := range rows {
		channels[i] = row.toModel()
	}
	return channels, nil
}

func (s *Storage) DeleteChannel(ctx context.Context, gameID model.GameID, id model.ChannelID) error {
	_, err := s.ext(ctx).ExecContext(ctx, `DELETE FROM channels WHERE game_id = ? AND id = ?`, string(gameID), string(id))
	return err
}

// Mission operations

func (s *Storage) SaveMission(ctx context.Context, mission *model.Mission) error {
	_, err := s.ext(ctx).ExecContext(ctx, `
		INSERT INTO missions (id, game_id, name, description, location, visible_to_humans, visible_to_zombies, start_time, end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			location = excluded.location,
			visible_to_humans = excluded.visible_to_humans,
			visible_to_zombies = excluded.visible_to_zombies,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			updated_at = excluded.updated_at`,
		string(mission.ID), string(mission.GameID), mission.Name, mission.Description,
		mission.Location, mission.VisibleToHumans, mission.VisibleToZombies,
		mission.StartTime, mission.EndTime, mission.CreatedAt, mission.UpdatedAt)
	return err
}

func (s *Storage) GetMission(ctx context.Context, gameID model.GameID, id model.MissionID) (*model.Mission, error) {
	var row missionRow
	err := sqlx.GetContext(ctx, s.ext(ctx), &row, `SELECT * FROM missions WHERE game_id = ? AND id = ?`, string(gameID), string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMissionNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) GetMissionsForGame(ctx context.Context, gameID model.GameID) ([]*model.Mission, error) {
	var rows []missionRow
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &rows, `SELECT * FROM missions WHERE game_id = ? ORDER BY start_time`, string(gameID)); err != nil {
		return nil, err
	}
	missions := make([]*model.Mission, len(rows))
	for i, row := range rows {
		missions[i] = row.toModel()
	}
	return missions, nil
}

func (s *Storage) DeleteMission(ctx context.Context, gameID model.GameID, id model.MissionID) error {
	_, err := s.ext(ctx).ExecContext(ctx, `DELETE FROM missions WHERE game_id = ? AND id = ?`, string(gameID), string(id))
	return err
}
