package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case Player:
		o.printPlayer(v)
	case []Player:
		o.printPlayers(v)
	case Kill:
		o.printKill(v)
	case []Kill:
		o.printKills(v)
	case Squad:
		o.printSquad(v)
	case []SquadSummary:
		o.printSquadSummaries(v)
	case Channel:
		o.printChannel(v)
	case []Channel:
		o.printChannels(v)
	case Mission:
		o.printMission(v)
	case []Mission:
		o.printMissions(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Game response type (matches API)
type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Player response type
type Player struct {
	ID            string    `json:"id"`
	GameID        string    `json:"game_id"`
	IsHuman       bool      `json:"is_human"`
	IsPatientZero bool      `json:"is_patient_zero"`
	BiteCode      string    `json:"bite_code,omitempty"`
	SquadID       *string   `json:"squad_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Kill response type
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

// Squad response type
type Squad struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Name      string    `json:"name"`
	ChannelID string    `json:"channel_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// SquadSummary response type for list views
type SquadSummary struct {
	ID     string `json:"id"`
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

// Channel response type
type Channel struct {
	ID      string `json:"id"`
	GameID  string `json:"game_id"`
	Name    string `json:"name"`
	SquadID string `json:"squad_id,omitempty"`
}

// Mission response type
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

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Name, g.ID)
	fmt.Printf("State: %s\n", g.State)
	if g.Description != "" {
		fmt.Printf("Description: %s\n", g.Description)
	}
	fmt.Printf("Created: %s\n", g.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printGames(games []Game) {
	if len(games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range games {
		fmt.Printf("%s  %-24s %s\n", g.ID, g.Name, g.State)
	}
}

func factionString(isHuman bool) string {
	if isHuman {
		return "human"
	}
	return "zombie"
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s\n", p.ID)
	fmt.Printf("Faction: %s\n", factionString(p.IsHuman))
	if p.IsPatientZero {
		fmt.Println("Patient zero: yes")
	}
	if p.BiteCode != "" {
		fmt.Printf("Bite code: %s\n", p.BiteCode)
	}
	if p.SquadID != nil {
		fmt.Printf("Squad: %s\n", *p.SquadID)
	}
}

func (o *Output) printPlayers(players []Player) {
	if len(players) == 0 {
		fmt.Println("No players")
		return
	}
	for _, p := range players {
		markers := ""
		if p.IsPatientZero {
			markers = " [patient zero]"
		}
		fmt.Printf("%s  %s%s\n", p.ID, factionString(p.IsHuman), markers)
	}
}

func (o *Output) printKill(k Kill) {
	fmt.Printf("Kill: %s\n", k.ID)
	fmt.Printf("Killer: %s\n", k.KillerID)
	fmt.Printf("Victim: %s\n", k.VictimID)
	fmt.Printf("Time of death: %s\n", k.TimeOfDeath.Format(time.RFC3339))
	if k.Location != "" {
		fmt.Printf("Location: %s\n", k.Location)
	}
	if k.Description != "" {
		fmt.Printf("Description: %s\n", k.Description)
	}
}

func (o *Output) printKills(kills []Kill) {
	if len(kills) == 0 {
		fmt.Println("No kills reported")
		return
	}
	for _, k := range kills {
		fmt.Printf("%s  %s -> %s  %s\n", k.ID, k.KillerID, k.VictimID, k.TimeOfDeath.Format(time.RFC3339))
	}
}

func (o *Output) printSquad(s Squad) {
	fmt.Printf("Squad: %s (%s)\n", s.Name, s.ID)
	fmt.Printf("Channel: %s\n", s.ChannelID)
	fmt.Printf("Members (%d):\n", len(s.Members))
	for _, m := range s.Members {
		fmt.Printf("  - %s\n", m)
	}
}

func (o *Output) printSquadSummaries(squads []SquadSummary) {
	if len(squads) == 0 {
		fmt.Println("No squads")
		return
	}
	for _, s := range squads {
		fmt.Printf("%s  %s\n", s.ID, s.Name)
	}
}

func (o *Output) printChannel(c Channel) {
	fmt.Printf("Channel: %s (%s)\n", c.Name, c.ID)
	if c.SquadID != "" {
		fmt.Printf("Squad: %s\n", c.SquadID)
	}
}

func (o *Output) printChannels(channels []Channel) {
	if len(channels) == 0 {
		fmt.Println("No channels")
		return
	}
	for _, c := range channels {
		kind := "global"
		if c.SquadID != "" {
			kind = "squad"
		}
		fmt.Printf("%s  %-24s %s\n", c.ID, c.Name, kind)
	}
}

func missionAudience(m Mission) string {
	switch {
	case m.VisibleToHumans && m.VisibleToZombies:
		return "everyone"
	case m.VisibleToHumans:
		return "humans"
	case m.VisibleToZombies:
		return "zombies"
	default:
		return "hidden"
	}
}

func (o *Output) printMission(m Mission) {
	fmt.Printf("Mission: %s (%s)\n", m.Name, m.ID)
	if m.Description != "" {
		fmt.Printf("Description: %s\n", m.Description)
	}
	if m.Location != "" {
		fmt.Printf("Location: %s\n", m.Location)
	}
	fmt.Printf("Visible to: %s\n", missionAudience(m))
	fmt.Printf("Window: %s to %s\n", m.StartTime.Format(time.RFC3339), m.EndTime.Format(time.RFC3339))
}

func (o *Output) printMissions(missions []Mission) {
	if len(missions) == 0 {
		fmt.Println("No missions")
		return
	}
	for _, m := range missions {
		fmt.Printf("%s  %-24s %s\n", m.ID, m.Name, missionAudience(m))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", strings.TrimSpace(h.Status))
}
