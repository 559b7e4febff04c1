package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func score(v int64) *int64 { return &v }

func TestSortByRank(t *testing.T) {
	players := []*Player{
		{ID: 1, BestScore: nil},
		{ID: 2, BestScore: score(500)},
		{ID: 3, BestScore: score(750)},
		{ID: 4, BestScore: score(500)},
		{ID: 5, BestScore: score(0)},
		{ID: 0, BestScore: nil},
	}

	SortByRank(players)

	ids := make([]PlayerID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	assert.Equal(t, []PlayerID{3, 2, 4, 5, 0, 1}, ids)
}

func TestRanksBeforeIsStrict(t *testing.T) {
	a := &Player{ID: 7, BestScore: score(10)}
	assert.False(t, RanksBefore(a, a))
}

func TestGenderValid(t *testing.T) {
	assert.True(t, GenderMale.Valid())
	assert.True(t, GenderFemale.Valid())
	assert.False(t, Gender("other").Valid())
	assert.False(t, Gender("").Valid())
}
