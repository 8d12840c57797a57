package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MaxTeamSize is the maximum number of members plus pending invites a team
// can have.
const MaxTeamSize = 5

// User is a platform account.
type User struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Team is a competing team.
type Team struct {
	ID        int64    `json:"id"`
	Name      string   `json:"team_name"`
	Members   []User   `json:"members"`
	Invites   []string `json:"invites,omitempty"`
	Owner     string   `json:"owner"`
	Score     *int     `json:"score"`
	ActiveBot *int64   `json:"active_bot,omitempty"`
}

// Size returns the number of members plus pending invites.
func (t *Team) Size() int {
	if t == nil {
		return 0
	}
	return len(t.Members) + len(t.Invites)
}

// IsFull reports whether the team reached MaxTeamSize.
func (t *Team) IsFull() bool {
	return t.Size() >= MaxTeamSize
}

// IsOwner reports whether email owns the team.
func (t *Team) IsOwner(email string) bool {
	return t != nil && email != "" && t.Owner == email
}

// HasMember reports whether email is a member of the team.
func (t *Team) HasMember(email string) bool {
	if t == nil || email == "" {
		return false
	}
	for _, m := range t.Members {
		if m.Email == email {
			return true
		}
	}
	return false
}

// MembersFilled reports whether every member was resolved to a full user.
func (t *Team) MembersFilled() bool {
	if t == nil {
		return false
	}
	for _, m := range t.Members {
		if m.Email == "" || m.DisplayName == "" {
			return false
		}
	}
	return true
}

// BuildStatus is the server-assigned outcome of building and testing an
// uploaded bot.
type BuildStatus int

// Build statuses, in the order the server assigns them.
const (
	BuildUnqueued BuildStatus = iota
	BuildQueued
	Building
	BuildSucceeded
	PlayingTestGame
	TestGameSucceeded
	BuildFailed
	TestGameFailed
)

var buildStatusNames = map[BuildStatus]string{
	BuildUnqueued:     "unqueued",
	BuildQueued:       "queued",
	Building:          "building",
	BuildSucceeded:    "built",
	PlayingTestGame:   "playing test game",
	TestGameSucceeded: "ready",
	BuildFailed:       "build failed",
	TestGameFailed:    "test game failed",
}

// String implements fmt.Stringer.
func (s BuildStatus) String() string {
	if n, ok := buildStatusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Failed reports whether the bot can't be played.
func (s BuildStatus) Failed() bool {
	return s == BuildFailed || s == TestGameFailed
}

// Done reports whether the server finished processing the bot.
func (s BuildStatus) Done() bool {
	return s == TestGameSucceeded || s.Failed()
}

// Bot is an uploaded bot artifact.
type Bot struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	TeamID       int64       `json:"-"`
	Team         *Team       `json:"-"`
	UploadedBy   string      `json:"uploaded_by"`
	DateUploaded int64       `json:"date_uploaded"`
	BuildStatus  BuildStatus `json:"build_status"`
}

type botAlias Bot

type botWire struct {
	botAlias
	Team json.RawMessage `json:"team"`
}

// UnmarshalJSON implements json.Unmarshaler.
// The team field is either a bare team id or a full team object.
func (b *Bot) UnmarshalJSON(data []byte) error {
	var w botWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = Bot(w.botAlias)
	raw := bytes.TrimSpace(w.Team)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
	case raw[0] == '{':
		var t Team
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("decode bot team: %w", err)
		}
		b.Team = &t
		b.TeamID = t.ID
	default:
		if err := json.Unmarshal(raw, &b.TeamID); err != nil {
			return fmt.Errorf("decode bot team id: %w", err)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
// A resolved team is written as an object, otherwise as its id.
func (b Bot) MarshalJSON() ([]byte, error) {
	var team any = b.TeamID
	if b.Team != nil {
		team = b.Team
	}
	return json.Marshal(struct {
		botAlias
		Team any `json:"team"`
	}{botAlias(b), team})
}

// Uploaded returns the upload time.
func (b *Bot) Uploaded() time.Time {
	return time.Unix(b.DateUploaded, 0)
}

// GameErrorType describes why a game ended early.
type GameErrorType string

// Game error types reported by the game workers.
const (
	GameErrorInternal      GameErrorType = "INTERNAL"
	GameErrorInvalidAction GameErrorType = "INVALID_ACTION"
	GameErrorMemory        GameErrorType = "MEMORY"
	GameErrorRuntime       GameErrorType = "RUNTIME"
	GameErrorTimeout       GameErrorType = "TIMEOUT"
)

// RawGame is a game as returned by the API, with bots as bare ids.
type RawGame struct {
	ID          string         `json:"id"`
	BotA        int64          `json:"bot_a"`
	BotB        int64          `json:"bot_b"`
	ScoreChange float64        `json:"score_change"`
	Time        int64          `json:"time"`
	ErrorType   *GameErrorType `json:"error_type"`
}

// Game is a game between two fully resolved bots.
type Game struct {
	ID          string         `json:"id"`
	BotA        *Bot           `json:"bot_a"`
	BotB        *Bot           `json:"bot_b"`
	ScoreChange float64        `json:"score_change"`
	Time        int64          `json:"time"`
	ErrorType   *GameErrorType `json:"error_type"`
}

// Played returns the time the game was played.
func (g *Game) Played() time.Time {
	return time.Unix(g.Time, 0)
}

// Involves reports whether the team played in this game.
func (g *Game) Involves(teamID int64) bool {
	return (g.BotA != nil && g.BotA.TeamID == teamID) ||
		(g.BotB != nil && g.BotB.TeamID == teamID)
}

// UploadResult is the response of an upload endpoint.
type UploadResult struct {
	// ID is the id of the created bot, for bot uploads.
	ID *int64 `json:"id,omitempty"`

	// Version identifies the stored content. When set, the upload has been
	// fully processed and dependents can refetch right away.
	Version string `json:"version,omitempty"`
}
