package model

import "time"

// PlayerID uniquely identifies a player within the system
type PlayerID string

// Player is one participant in one game. The same external identity may hold
// at most one Player per game.
type Player struct {
	ID PlayerID

	// Subject is the verified external identity bound to this player.
	// It is established by the authentication layer and is the sole basis
	// for deciding which player record a caller may mutate.
	Subject string

	GameID GameID

	// IsHuman is true while the player is uninfected.
	IsHuman       bool
	IsPatientZero bool

	// BiteCode is a per-game secret a human reveals only to whoever bites them.
	BiteCode string

	// SquadID is nil when the player is not in a squad. It is non-nil exactly
	// when the referenced squad lists this player as a member; both sides are
	// always updated together.
	SquadID *SquadID

	CreatedAt time.Time
	UpdatedAt time.Time
}
