package otel

// Metric prefixes for each component
// Each component should define its own metric names and use these prefixes
const (
	PrefixRoomSession  = "room_session"
	PrefixSignalEngine = "signal_engine"
)
