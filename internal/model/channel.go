package model

import "time"

// ChannelID uniquely identifies a channel
type ChannelID string

// Channel is a communication scope within a game. Squad channels are owned by
// their squad and live exactly as long as it; global channels (SquadID empty)
// are managed by administrators. Message transport is out of scope here; this
// is only the channel record.
type Channel struct {
	ID     ChannelID
	GameID GameID
	Name   string

	// SquadID is set for squad-owned channels and empty for global ones.
	SquadID SquadID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSquadOwned reports whether the channel belongs to a squad
func (c *Channel) IsSquadOwned() bool {
	return c.SquadID != ""
}
