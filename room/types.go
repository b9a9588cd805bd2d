// Package room implements the room session manager: session lifecycle,
// local publication and remote subscription bookkeeping, reconciliation of
// the remote publication set, and serialized event delivery.
package room

import (
	"time"

	"github.com/imtaco/roomkit/engine"
)

// JoinState is the lifecycle state of a RoomSession.
type JoinState int32

const (
	StateIdle JoinState = iota
	StateJoining
	StateJoined
	StateLeaving
)

func (s JoinState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	case StateLeaving:
		return "leaving"
	default:
		return "unknown"
	}
}

// Subscription binds the local member to one remote publication. The target
// publication may disappear at any time; the subscription is then dropped
// locally without a backend cancel.
type Subscription struct {
	ID            engine.SubscriptionID
	PublicationID engine.PublicationID
	Channel       engine.BoundChannel
	CreatedAt     time.Time
}

// DataMessage is one inbound data payload with its origin.
type DataMessage struct {
	Payload       []byte
	From          engine.MemberID
	PublicationID engine.PublicationID
	ReceivedAt    time.Time
}

// Text returns the payload as a string.
func (m DataMessage) Text() string {
	return string(m.Payload)
}

// Options configures a RoomSession.
type Options struct {
	// AutoSubscribe subscribes to every newly discovered remote publication.
	AutoSubscribe bool
	// EventBuffer is the dispatcher queue depth. Emission blocks when full
	// so event order is never dropped.
	EventBuffer int `validate:"gte=1,lte=4096"`
	// RecentMessageCount bounds the kept history of inbound data messages.
	RecentMessageCount int `validate:"gte=1,lte=1024"`
	// LeaveOpTimeout bounds each cancel/unpublish sub-operation during leave.
	LeaveOpTimeout time.Duration `validate:"gt=0"`
}

func DefaultOptions() Options {
	return Options{
		AutoSubscribe:      true,
		EventBuffer:        64,
		RecentMessageCount: 32,
		LeaveOpTimeout:     3 * time.Second,
	}
}

// PublishResult reports the publication IDs assigned by the backend, in
// publish order audio, video, data. A zero ID means that channel was not
// published (absent, or its publish step failed).
type PublishResult struct {
	AudioID engine.PublicationID
	VideoID engine.PublicationID
	DataID  engine.PublicationID
}

// CaptureSources names the externally supplied capture devices the local
// channels bind to. Empty fields skip that channel kind.
type CaptureSources struct {
	Microphone string
	Camera     string
	DataLabel  string
}
