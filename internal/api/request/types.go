package request

import "time"

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateGameRequest is the request body for updating a game
type UpdateGameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	State       string `json:"state"`
}

// UpdatePlayerRequest is the request body for setting a player's state flags
type UpdatePlayerRequest struct {
	IsHuman       bool `json:"is_human"`
	IsPatientZero bool `json:"is_patient_zero"`
}

// CreateKillRequest is the request body for reporting a kill
type CreateKillRequest struct {
	KillerID    string    `json:"killer_id"`
	BiteCode    string    `json:"bite_code"`
	TimeOfDeath time.Time `json:"time_of_death,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
}

// UpdateKillRequest is the request body for correcting a kill
type UpdateKillRequest struct {
	KillerID    string    `json:"killer_id"`
	VictimID    string    `json:"victim_id"`
	TimeOfDeath time.Time `json:"time_of_death"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
}

// CreateSquadRequest is the request body for founding a squad
type CreateSquadRequest struct {
	Name     string `json:"name"`
	PlayerID string `json:"player_id"`
}

// UpdateSquadRequest is the request body for renaming a squad
type UpdateSquadRequest struct {
	Name string `json:"name"`
}

// SquadMembershipRequest is the request body for joining or leaving a squad
type SquadMembershipRequest struct {
	PlayerID string `json:"player_id"`
}

// CreateChannelRequest is the request body for creating a global channel
type CreateChannelRequest struct {
	Name string `json:"name"`
}

// UpdateChannelRequest is the request body for renaming a channel
type UpdateChannelRequest struct {
	Name string `json:"name"`
}

// MissionRequest is the request body for creating or updating a mission
type MissionRequest struct {
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	VisibleToHumans  bool      `json:"visible_to_humans"`
	VisibleToZombies bool      `json:"visible_to_zombies"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
}
