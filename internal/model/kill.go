package model

import "time"

// KillID uniquely identifies a kill
type KillID string

// Kill is an immutable record of one infection event. Creating a kill flips
// the victim from human to zombie; deleting it flips the victim back. The two
// changes always happen together.
type Kill struct {
	ID          KillID
	GameID      GameID
	KillerID    PlayerID
	VictimID    PlayerID
	TimeOfDeath time.Time
	Description string
	Location    string
	CreatedAt   time.Time
}
