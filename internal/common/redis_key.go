package common

import "fmt"

const (
	RedisKeyStatistics = "gamified_marketing_data:statistics"
)

func RedisKeySession(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func RedisKeySessionLock(sessionID string) string {
	return fmt.Sprintf("sessionlock:%s", sessionID)
}
