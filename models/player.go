package models

import "time"

type Player struct {
	ID        int       `json:"id" db:"id"`
	TeamID    *int      `json:"team_id,omitempty" db:"team_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Nickname  *string   `json:"nickname,omitempty" db:"nickname"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`
}

func (p *Player) DisplayName() string {
	if p.Nickname != nil && *p.Nickname != "" {
		return *p.Nickname
	}
	name := p.FirstName
	if p.LastName != "" {
		name += " " + p.LastName
	}
	return name
}
