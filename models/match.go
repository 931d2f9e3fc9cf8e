package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
)

type Match struct {
	ID           int         `json:"id" db:"id"`
	HomeTeamID   int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   int         `json:"away_team_id" db:"away_team_id"`
	MatchDate    time.Time   `json:"match_date" db:"match_date"`
	Status       MatchStatus `json:"status" db:"status"`
	HomeScore    int         `json:"home_score" db:"home_score"`
	AwayScore    int         `json:"away_score" db:"away_score"`
	WinnerTeamID *int        `json:"winner_team_id,omitempty" db:"winner_team_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	// Optional linked data, populated by the service layer, not stored on the row.
	HomeTeam *Team `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team `json:"away_team,omitempty" db:"-"`
}

// ScoreImpliedWinner returns the team id the scores dictate as winner,
// or nil when the scores are level.
func (m *Match) ScoreImpliedWinner() *int {
	switch {
	case m.HomeScore > m.AwayScore:
		id := m.HomeTeamID
		return &id
	case m.AwayScore > m.HomeScore:
		id := m.AwayTeamID
		return &id
	default:
		return nil
	}
}

// WinnerConsistent reports whether the stored winner agrees with the scores.
func (m *Match) WinnerConsistent() bool {
	implied := m.ScoreImpliedWinner()
	if implied == nil {
		return m.WinnerTeamID == nil
	}
	return m.WinnerTeamID != nil && *m.WinnerTeamID == *implied
}

type MatchResult struct {
	ID           int       `json:"id" db:"id"`
	MatchID      int       `json:"match_id" db:"match_id"`
	HomeScore    int       `json:"home_score" db:"home_score"`
	AwayScore    int       `json:"away_score" db:"away_score"`
	WinnerTeamID *int      `json:"winner_team_id,omitempty" db:"winner_team_id"`
	IsApproved   bool      `json:"is_approved" db:"is_approved"`
	SubmittedBy  *int      `json:"submitted_by,omitempty" db:"submitted_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type FrameResult struct {
	ID             int  `json:"id" db:"id"`
	MatchID        int  `json:"match_id" db:"match_id"`
	FrameNumber    int  `json:"frame_number" db:"frame_number"`
	HomePlayerID   int  `json:"home_player_id" db:"home_player_id"`
	AwayPlayerID   int  `json:"away_player_id" db:"away_player_id"`
	WinnerPlayerID *int `json:"winner_player_id,omitempty" db:"winner_player_id"`

	HomePlayer *Player `json:"home_player,omitempty" db:"-"`
	AwayPlayer *Player `json:"away_player,omitempty" db:"-"`
}
