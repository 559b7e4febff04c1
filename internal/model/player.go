package model

import "time"

// PlayerID uniquely identifies a player. Assigned by the store, starting at 1.
type PlayerID int64

// Gender is the self-declared gender of a player
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the accepted values
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Player is a registered account
type Player struct {
	ID           PlayerID
	Name         string // unique
	Country      string
	Gender       Gender
	PasswordHash string // bcrypt hash
	BestScore    *int64 // nil until the first score is recorded
	CreatedAt    time.Time
}

// HasScore reports whether the player has recorded at least one score
func (p *Player) HasScore() bool {
	return p.BestScore != nil
}
