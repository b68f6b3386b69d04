package biz

import "time"

type CtxKey string

const (
	USER_KEY CtxKey = "user_id"

	ACCESSTOKEN = "access_token"
)

const (
	SessionKeyPrefix = "assistant:session:"
	SessionLockKey   = "assistant:session:lock:"
	TryOnKeyPrefix   = "assistant:tryon:"

	SessionTTL     = time.Hour * 24 * 7
	SessionLockTTL = 60 // seconds
	TryOnResultTTL = time.Hour * 24
)
