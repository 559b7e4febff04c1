package response

import (
	"time"

	"github.com/mcoot/musicchallenge/internal/model"
)

// Player represents a player in API responses. The password hash is never exposed.
type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Gender    string    `json:"gender"`
	BestScore *int64    `json:"best_score"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:        int64(p.ID),
		Name:      p.Name,
		Country:   p.Country,
		Gender:    string(p.Gender),
		BestScore: p.BestScore,
		CreatedAt: p.CreatedAt,
	}
}

// Success is the body of endpoints that only report success
type Success struct {
	Success bool `json:"success"`
}

// OK is the shared success body
var OK = Success{Success: true}

// ProfileResponse is the response for the profile endpoint
type ProfileResponse struct {
	User Player `json:"user"`
}

// ScoreEvent represents one recorded score
type ScoreEvent struct {
	ID        int64     `json:"id"`
	Value     int64     `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreEventFromModel converts a model.ScoreEvent
func ScoreEventFromModel(e model.ScoreEvent) ScoreEvent {
	return ScoreEvent{
		ID:        int64(e.ID),
		Value:     e.Value,
		CreatedAt: e.CreatedAt,
	}
}

// ScoreHistoryResponse is the response for the score history endpoint
type ScoreHistoryResponse struct {
	Scores []ScoreEvent `json:"scores"`
}

// ScoreHistoryFromModel converts a list of events
func ScoreHistoryFromModel(events []model.ScoreEvent) ScoreHistoryResponse {
	out := make([]ScoreEvent, len(events))
	for i, e := range events {
		out[i] = ScoreEventFromModel(e)
	}
	return ScoreHistoryResponse{Scores: out}
}

// RecordScoreResponse is the response after submitting a score
type RecordScoreResponse struct {
	Success   bool   `json:"success"`
	BestScore *int64 `json:"best_score,omitempty"`
}

// LeaderboardEntry is a ranked player
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	Player
}

// LeaderboardResponse is the response for the leaderboard endpoints
type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// LeaderboardFromModel converts ranked entries
func LeaderboardFromModel(entries []model.LeaderboardEntry) LeaderboardResponse {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{Rank: e.Rank, Player: PlayerFromModel(&e.Player)}
	}
	return LeaderboardResponse{Leaderboard: out}
}

// Song represents a playable track
type Song struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"preview_url"`
	CoverURL   string `json:"cover_url,omitempty"`
}

// NextTrackResponse is the response for the next-track endpoint
type NextTrackResponse struct {
	Song Song `json:"song"`
}

// NextTrackFromModel converts a model.Song
func NextTrackFromModel(s model.Song) NextTrackResponse {
	return NextTrackResponse{Song: Song{
		ID:         s.ID,
		Title:      s.Title,
		Artist:     s.Artist,
		PreviewURL: s.PreviewURL,
		CoverURL:   s.CoverURL,
	}}
}

// PingResponse is the response for the ping endpoint
type PingResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
