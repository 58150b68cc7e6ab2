package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	Broadcast(msgType string, payload interface{})
}

// Message types pushed to dashboards
const (
	MsgEntryLogged = "entry_logged"
	MsgStatsUpdate = "stats_update"
)
