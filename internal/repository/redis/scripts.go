package redis

import goredis "github.com/redis/go-redis/v9"

// Script status codes.
const (
	statusNotFound = 0
	statusOK       = 1
	statusConflict = 2
)

// KEYS: user hash, email index, phone index.
// ARGV: id, full_name, email, phone_number, password_hash, created_at, updated_at.
const createUserScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 2
end
if redis.call("EXISTS", KEYS[2]) == 1 or redis.call("EXISTS", KEYS[3]) == 1 then
  return 2
end
redis.call("HSET", KEYS[1],
  "id", ARGV[1],
  "full_name", ARGV[2],
  "email", ARGV[3],
  "phone_number", ARGV[4],
  "password_hash", ARGV[5],
  "created_at", ARGV[6],
  "updated_at", ARGV[7])
redis.call("SET", KEYS[2], ARGV[1])
redis.call("SET", KEYS[3], ARGV[1])
return 1
`

// KEYS: user hash, new email index, new phone index.
// ARGV: id, full_name, email, phone_number, updated_at, email index prefix, phone index prefix.
// The old index keys are derived from the stored hash. The prefixes carry the
// same hash tag as KEYS, so the derived keys live in the same cluster slot.
const updateProfileScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
local owner = redis.call("GET", KEYS[2])
if owner and owner ~= ARGV[1] then
  return 2
end
owner = redis.call("GET", KEYS[3])
if owner and owner ~= ARGV[1] then
  return 2
end
local old_email = redis.call("HGET", KEYS[1], "email")
if old_email and old_email ~= ARGV[3] then
  redis.call("DEL", ARGV[6] .. old_email)
end
local old_phone = redis.call("HGET", KEYS[1], "phone_number")
if old_phone and old_phone ~= ARGV[4] then
  redis.call("DEL", ARGV[7] .. old_phone)
end
redis.call("HSET", KEYS[1],
  "full_name", ARGV[2],
  "email", ARGV[3],
  "phone_number", ARGV[4],
  "updated_at", ARGV[5])
redis.call("SET", KEYS[2], ARGV[1])
redis.call("SET", KEYS[3], ARGV[1])
return 1
`

// KEYS: user hash.
// ARGV: "any" or "match", expected token, "set" or "clear", next token, updated_at.
const updateRefreshTokenScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
if ARGV[1] == "match" then
  local current = redis.call("HGET", KEYS[1], "refresh_token")
  if not current or current ~= ARGV[2] then
    return 2
  end
end
if ARGV[3] == "set" then
  redis.call("HSET", KEYS[1], "refresh_token", ARGV[4], "updated_at", ARGV[5])
else
  redis.call("HDEL", KEYS[1], "refresh_token")
  redis.call("HSET", KEYS[1], "updated_at", ARGV[5])
end
return 1
`

var (
	createUserLua         = goredis.NewScript(createUserScript)
	updateProfileLua      = goredis.NewScript(updateProfileScript)
	updateRefreshTokenLua = goredis.NewScript(updateRefreshTokenScript)
)
