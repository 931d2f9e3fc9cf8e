package models

// Standing is derived from completed matches on every read; it is never stored.
type Standing struct {
	TeamID        int    `json:"team_id"`
	TeamName      string `json:"team_name"`
	Division      string `json:"division"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Draws         int    `json:"draws"`
	Losses        int    `json:"losses"`
	FramesFor     int    `json:"frames_for"`
	FramesAgainst int    `json:"frames_against"`
	Points        int    `json:"points"`
	Rank          int    `json:"rank"`
}

func (s *Standing) FrameDifference() int {
	return s.FramesFor - s.FramesAgainst
}
