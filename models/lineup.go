package models

type MatchLineup struct {
	ID       int `json:"id" db:"id"`
	MatchID  int `json:"match_id" db:"match_id"`
	TeamID   int `json:"team_id" db:"team_id"`
	PlayerID int `json:"player_id" db:"player_id"`
	Position int `json:"position" db:"position"`

	Player *Player `json:"player,omitempty" db:"-"`
}
