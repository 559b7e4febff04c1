package sql

import (
	"time"

	"github.com/mcoot/musicchallenge/internal/model"
)

// playerRow is the players table
type playerRow struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"uniqueIndex;size:64;not null"`
	Country      string    `gorm:"size:64;not null"`
	Gender       string    `gorm:"size:16;not null"`
	PasswordHash string    `gorm:"not null"`
	BestScore    *int64    `gorm:"index"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (playerRow) TableName() string { return "players" }

func (r *playerRow) toModel() *model.Player {
	return &model.Player{
		ID:           model.PlayerID(r.ID),
		Name:         r.Name,
		Country:      r.Country,
		Gender:       model.Gender(r.Gender),
		PasswordHash: r.PasswordHash,
		BestScore:    r.BestScore,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

// scoreRow is the append-only score_events table
type scoreRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	PlayerID  int64     `gorm:"index:idx_score_player;not null"`
	Player    playerRow `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
	Value     int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (scoreRow) TableName() string { return "score_events" }

func (r *scoreRow) toModel() model.ScoreEvent {
	return model.ScoreEvent{
		ID:        model.ScoreEventID(r.ID),
		PlayerID:  model.PlayerID(r.PlayerID),
		Value:     r.Value,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// sessionRow is the sessions table
type sessionRow struct {
	Token     string    `gorm:"primaryKey;size:64"`
	PlayerID  int64     `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

func (sessionRow) TableName() string { return "sessions" }

// friendRow is the friends table
type friendRow struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Player1ID int64 `gorm:"uniqueIndex:uk_friend_pair;not null"`
	Player2ID int64 `gorm:"uniqueIndex:uk_friend_pair;not null"`
	CreatedAt time.Time
}

func (friendRow) TableName() string { return "friends" }

// friendRequestRow is the friend_requests table
type friendRequestRow struct {
	ID         int64                     `gorm:"primaryKey;autoIncrement"`
	SenderID   int64                     `gorm:"index;not null"`
	ReceiverID int64                     `gorm:"index;not null"`
	Status     model.FriendRequestStatus `gorm:"size:16;not null;default:pending"`
	CreatedAt  time.Time
}

func (friendRequestRow) TableName() string { return "friend_requests" }

// allTables lists every table managed by AutoMigrate
func allTables() []any {
	return []any{
		&playerRow{},
		&scoreRow{},
		&sessionRow{},
		&friendRow{},
		&friendRequestRow{},
	}
}
