package common

const (
	// GameEventTopic carries the analytics events of every player session.
	GameEventTopic = "game_event"

	// SessionIDHeader lets non-browser clients pass the session id without a
	// cookie.
	SessionIDHeader = "X-Session-ID"

	BackupPrefix = "backups"
)
