package model

import "time"

// GameID uniquely identifies a game session
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateRegistration GameState = "registration" // Players may still sign up
	GameStateInProgress   GameState = "in_progress"  // Game is live
	GameStateComplete     GameState = "complete"     // Game has ended
)

// Game represents one play session. Every other entity is scoped to a game,
// and cross-entity lookups are always filtered by GameID.
type Game struct {
	ID          GameID
	Name        string
	Description string
	State       GameState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
