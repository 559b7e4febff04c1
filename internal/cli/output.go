package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case ProfileResult:
		o.printPlayer(v.User)
	case RecordScoreResult:
		o.printRecordScore(v)
	case ScoreHistoryResult:
		o.printScoreHistory(v)
	case LeaderboardResult:
		o.printLeaderboard(v)
	case NextTrackResult:
		o.printSong(v.Song)
	case PingResult:
		o.printPing(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Gender    string    `json:"gender"`
	BestScore *int64    `json:"best_score"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResult is the profile endpoint response
type ProfileResult struct {
	User Player `json:"user"`
}

// SuccessResult is the body of endpoints that only report success
type SuccessResult struct {
	Success bool `json:"success"`
}

// RecordScoreResult is the score submission response
type RecordScoreResult struct {
	Success   bool   `json:"success"`
	BestScore *int64 `json:"best_score,omitempty"`
}

// ScoreEvent is one recorded score
type ScoreEvent struct {
	ID        int64     `json:"id"`
	Value     int64     `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreHistoryResult is the score history response
type ScoreHistoryResult struct {
	Scores []ScoreEvent `json:"scores"`
}

// LeaderboardEntry is a ranked player
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	Player
}

// LeaderboardResult is the leaderboard response
type LeaderboardResult struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// Song is a playable track
type Song struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"preview_url"`
	CoverURL   string `json:"cover_url,omitempty"`
}

// NextTrackResult is the next-track response
type NextTrackResult struct {
	Song Song `json:"song"`
}

// PingResult is the ping response
type PingResult struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func formatBest(best *int64) string {
	if best == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *best)
}

func (o *Output) printPlayer(p Player) {
	_, _ = fmt.Fprintf(o.w, "Player: %s (%d)\n", p.Name, p.ID)
	_, _ = fmt.Fprintf(o.w, "Country: %s\n", p.Country)
	_, _ = fmt.Fprintf(o.w, "Gender: %s\n", p.Gender)
	_, _ = fmt.Fprintf(o.w, "Best Score: %s\n", formatBest(p.BestScore))
}

func (o *Output) printRecordScore(r RecordScoreResult) {
	_, _ = fmt.Fprintln(o.w, "Score recorded")
	_, _ = fmt.Fprintf(o.w, "Best Score: %s\n", formatBest(r.BestScore))
}

func (o *Output) printScoreHistory(h ScoreHistoryResult) {
	if len(h.Scores) == 0 {
		_, _ = fmt.Fprintln(o.w, "No scores yet")
		return
	}
	for _, s := range h.Scores {
		_, _ = fmt.Fprintf(o.w, "%6d  %s\n", s.Value, s.CreatedAt.Format(time.RFC3339))
	}
}

func (o *Output) printLeaderboard(l LeaderboardResult) {
	if len(l.Leaderboard) == 0 {
		_, _ = fmt.Fprintln(o.w, "Leaderboard is empty")
		return
	}
	for _, e := range l.Leaderboard {
		_, _ = fmt.Fprintf(o.w, "%3d. %-32s %-16s %s\n", e.Rank, e.Name, e.Country, formatBest(e.BestScore))
	}
}

func (o *Output) printSong(s Song) {
	_, _ = fmt.Fprintf(o.w, "Song: %s - %s (%d)\n", s.Artist, s.Title, s.ID)
	_, _ = fmt.Fprintf(o.w, "Preview: %s\n", s.PreviewURL)
	if s.CoverURL != "" {
		_, _ = fmt.Fprintf(o.w, "Cover: %s\n", s.CoverURL)
	}
}

func (o *Output) printPing(p PingResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", p.Status)
	_, _ = fmt.Fprintf(o.w, "Server Time: %s\n", p.Timestamp.Format(time.RFC3339))
}
