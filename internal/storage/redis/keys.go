package redis

import (
	"fmt"

	"github.com/mcoot/musicchallenge/internal/model"
)

// Key generation functions for each entity type

type keys struct {
	prefix string
}

// player returns the HASH key for a Player
func (k keys) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", k.prefix, id)
}

// playerPrefix is the prefix the create script appends the new ID to
func (k keys) playerPrefix() string {
	return k.prefix + ":player:"
}

// playerSeq returns the counter key used to assign player IDs
func (k keys) playerSeq() string {
	return k.prefix + ":seq:player"
}

// allPlayers returns the SET of every player ID
func (k keys) allPlayers() string {
	return k.prefix + ":idx:players"
}

// nameIndex returns the name -> player_id index key
func (k keys) nameIndex(name string) string {
	return fmt.Sprintf("%s:idx:name:%s", k.prefix, name)
}

// scores returns the LIST of encoded score events for a player
func (k keys) scores(id model.PlayerID) string {
	return fmt.Sprintf("%s:scores:%d", k.prefix, id)
}

// scoreSeq returns the counter key used to assign score event IDs
func (k keys) scoreSeq() string {
	return k.prefix + ":seq:score"
}

// leaderboard returns the ZSET of player ID -> best score
func (k keys) leaderboard() string {
	return k.prefix + ":leaderboard"
}

// session returns the key holding a session, expiring with it
func (k keys) session(token string) string {
	return fmt.Sprintf("%s:session:%s", k.prefix, token)
}
