package model

import "sort"

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank   int // 1-based
	Player Player
}

// RanksBefore reports whether a is ranked ahead of b.
// Higher best score first, players without a score last, ties by ascending ID.
func RanksBefore(a, b *Player) bool {
	switch {
	case a.BestScore != nil && b.BestScore == nil:
		return true
	case a.BestScore == nil && b.BestScore != nil:
		return false
	case a.BestScore != nil && *a.BestScore != *b.BestScore:
		return *a.BestScore > *b.BestScore
	}
	return a.ID < b.ID
}

// SortByRank orders players in leaderboard order in place
func SortByRank(players []*Player) {
	sort.Slice(players, func(i, j int) bool {
		return RanksBefore(players[i], players[j])
	})
}
