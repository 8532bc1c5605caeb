package model

import "time"

// MissionID uniquely identifies a mission
type MissionID string

// Mission is an objective posted by game administrators. Visibility is
// per-faction: a mission may be shown to humans, zombies, or both.
type Mission struct {
	ID          MissionID
	GameID      GameID
	Name        string
	Description string
	Location    string

	VisibleToHumans  bool
	VisibleToZombies bool

	StartTime time.Time
	EndTime   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VisibleTo reports whether a player of the given faction may see the mission
func (m *Mission) VisibleTo(isHuman bool) bool {
	if isHuman {
		return m.VisibleToHumans
	}
	return m.VisibleToZombies
}
