package model

import "time"

// ScoreEventID identifies a recorded score
type ScoreEventID int64

// ScoreEvent is a single immutable score submission
type ScoreEvent struct {
	ID        ScoreEventID
	PlayerID  PlayerID
	Value     int64
	CreatedAt time.Time
}
