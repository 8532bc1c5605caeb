package response

import (
	"time"

	"github.com/hvzgame/hvz-server/internal/model"
)

// Game represents a game in API responses
type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:          string(g.ID),
		Name:        g.Name,
		Description: g.Description,
		State:       string(g.State),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// Player represents a player in API responses. The bite code is only
// included when the player is the caller.
type Player struct {
	ID            string    `json:"id"`
	GameID        string    `json:"game_id"`
	IsHuman       bool      `json:"is_human"`
	IsPatientZero bool      `json:"is_patient_zero"`
	BiteCode      string    `json:"bite_code,omitempty"`
	SquadID       *string   `json:"squad_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player,
// withholding the bite code
func PlayerFromModel(p *model.Player) Player {
	var squadID *string
	if p.SquadID != nil {
		s := string(*p.SquadID)
		squadID = &s
	}
	return Player{
		ID:            string(p.ID),
		GameID:        string(p.GameID),
		IsHuman:       p.IsHuman,
		IsPatientZero: p.IsPatientZero,
		SquadID:       squadID,
		CreatedAt:     p.CreatedAt,
	}
}

// OwnPlayerFromModel converts a model.Player for the player themself,
// including the bite code
func OwnPlayerFromModel(p *model.Player) Player {
	resp := PlayerFromModel(p)
	resp.BiteCode = p.BiteCode
	return resp
}

// Kill represents a kill in API responses
type Kill struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	KillerID    string    `json:"killer_id"`
	VictimID    string    `json:"victim_id"`
	TimeOfDeath time.Time `json:"time_of_death"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// KillFromModel converts a model.Kill to a response Kill
func KillFromModel(k *model.Kill) Kill {
	return Kill{
		ID:          string(k.ID),
		GameID:      string(k.GameID),
		KillerID:    string(k.KillerID),
		VictimID:    string(k.VictimID),
		TimeOfDeath: k.TimeOfDeath,
		Description: k.Description,
		Location:    k.Location,
		CreatedAt:   k.CreatedAt,
	}
}

// Squad represents a squad in API responses
type Squad struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Name      string    `json:"name"`
	ChannelID string    `json:"channel_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// SquadFromModel converts a model.Squad to a response Squad
func SquadFromModel(s *model.Squad) Squad {
	members := make([]string, len(s.Members))
	for i, m := range s.Members {
		members[i] = string(m)
	}
	return Squad{
		ID:        string(s.ID),
		GameID:    string(s.GameID),
		Name:      s.Name,
		ChannelID: string(s.ChannelID),
		Members:   members,
		CreatedAt: s.CreatedAt,
	}
}

// SquadSummary represents a squad in list responses, without the roster
type SquadSummary struct {
	ID     string `json:"id"`
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

// SquadSummaryFromModel converts a model.Squad to a SquadSummary
func SquadSummaryFromModel(s *model.Squad) SquadSummary {
	return SquadSummary{
		ID:     string(s.ID),
		GameID: string(s.GameID),
		Name:   s.Name,
	}
}

// Channel represents a channel in API responses
type Channel struct {
	ID      string `json:"id"`
	GameID  string `json:"game_id"`
	Name    string `json:"name"`
	SquadID string `json:"squad_id,omitempty"`
}

// ChannelFromModel converts a model.Channel to a response Channel
func ChannelFromModel(c *model.Channel) Channel {
	return Channel{
		ID:      string(c.ID),
		GameID:  string(c.GameID),
		Name:    c.Name,
		SquadID: string(c.SquadID),
	}
}

// Mission represents a mission in API responses
type Mission struct {
	ID               string    `json:"id"`
	GameID           string    `json:"game_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	VisibleToHumans  bool      `json:"visible_to_humans"`
	VisibleToZombies bool      `json:"visible_to_zombies"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
}

// MissionFromModel converts a model.Mission to a response Mission
func MissionFromModel(m *model.Mission) Mission {
	return Mission{
		ID:               string(m.ID),
		GameID:           string(m.GameID),
		Name:             m.Name,
		Description:      m.Description,
		Location:         m.Location,
		VisibleToHumans:  m.VisibleToHumans,
		VisibleToZombies: m.VisibleToZombies,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
	}
}
