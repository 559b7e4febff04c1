package redis

import "github.com/redis/go-redis/v9"

// createPlayerScript claims the name and writes the player in one step.
// Returns 0 when the name is taken, otherwise the new player ID.
//
// KEYS: name index, player sequence, all-players set
// ARGV: player key prefix, name, country, gender, password hash, created_at (unix ms)
var createPlayerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
local id = redis.call('INCR', KEYS[2])
redis.call('HSET', ARGV[1] .. id,
  'id', id,
  'name', ARGV[2],
  'country', ARGV[3],
  'gender', ARGV[4],
  'password_hash', ARGV[5],
  'created_at', ARGV[6])
redis.call('SET', KEYS[1], id)
redis.call('SADD', KEYS[3], id)
return id
`)

// recordScoreScript appends a score event and raises the best score only
// when the new value beats it. Returns -1 when the player does not exist,
// otherwise the new event ID.
//
// Values are compared as decimal strings: Lua numbers are doubles and lose
// integers above 2^53.
//
// KEYS: player hash, score list, score sequence, leaderboard zset
// ARGV: player id, value, created_at (unix ms)
var recordScoreScript = redis.NewScript(`
local function abs_greater(a, b)
  if #a ~= #b then
    return #a > #b
  end
  return a > b
end

local function greater(a, b)
  local a_neg = string.sub(a, 1, 1) == '-'
  local b_neg = string.sub(b, 1, 1) == '-'
  if a_neg ~= b_neg then
    return b_neg
  end
  if a_neg then
    return abs_greater(string.sub(b, 2), string.sub(a, 2))
  end
  return abs_greater(a, b)
end

if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
local id = redis.call('INCR', KEYS[3])
redis.call('RPUSH', KEYS[2], id .. ':' .. ARGV[2] .. ':' .. ARGV[3])
local best = redis.call('HGET', KEYS[1], 'best_score')
if (not best) or greater(ARGV[2], best) then
  redis.call('HSET', KEYS[1], 'best_score', ARGV[2])
  redis.call('ZADD', KEYS[4], ARGV[2], ARGV[1])
end
return id
`)
