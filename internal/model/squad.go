package model

import "time"

// SquadID uniquely identifies a squad
type SquadID string

// Squad is a voluntary sub-team of players within one game. A squad owns
// exactly one channel for its whole lifetime; the channel is created with the
// squad and removed with it.
type Squad struct {
	ID     SquadID
	GameID GameID

	// Name is unique within the owning game only.
	Name string

	ChannelID ChannelID
	Members   []PlayerID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember reports whether the given player is in the squad's member list
func (s *Squad) HasMember(playerID PlayerID) bool {
	for _, m := range s.Members {
		if m == playerID {
			return true
		}
	}
	return false
}

// RemoveMember removes the given player from the member list, if present
func (s *Squad) RemoveMember(playerID PlayerID) {
	for i, m := range s.Members {
		if m == playerID {
			s.Members = append(s.Members[:i], s.Members[i+1:]...)
			return
		}
	}
}
