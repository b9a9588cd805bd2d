// Package engine defines the media engine contract consumed by the room
// session core. An Engine owns connection establishment, media negotiation
// and the wire protocol; the session core only drives it through this
// interface and reacts to its notifications.
package engine

import (
	"context"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen -source=types.go -destination=mocks/engine.go -package=mocks

// Topology selects how media flows between members.
type Topology string

const (
	// TopologyP2P sends media directly between members.
	TopologyP2P Topology = "p2p"
	// TopologyRouted sends media through a forwarding unit.
	TopologyRouted Topology = "routed"
)

// ChannelKind tags a channel as audio, video or data.
type ChannelKind string

const (
	KindAudio ChannelKind = "audio"
	KindVideo ChannelKind = "video"
	KindData  ChannelKind = "data"
)

type (
	PublicationID  string
	SubscriptionID string
	MemberID       string
)

// Publication is a backend-visible advertisement of one published channel.
type Publication struct {
	ID        PublicationID `json:"id"`
	Publisher MemberID      `json:"publisher"`
	Kind      ChannelKind   `json:"kind"`
	Topology  Topology      `json:"topology"`
}

// LocalChannel is a locally produced channel handle bound to a capture
// source. Handles are opaque to the session core.
type LocalChannel interface {
	ID() string
	Kind() ChannelKind
	Close() error
}

// DataChannel is a local data channel that can carry outbound payloads.
type DataChannel interface {
	LocalChannel
	Send(ctx context.Context, payload []byte) error
}

// BoundChannel is the channel handle resolved for a subscription, tagged
// by kind. Exactly the field matching Kind is set.
type BoundChannel struct {
	Kind  ChannelKind
	Audio RemoteStream
	Video RemoteStream
	Data  RemoteStream
}

// RemoteStream is an opaque handle to a resolved remote channel; the
// presentation layer binds it to playback or rendering.
type RemoteStream interface {
	ID() string
}

// Hooks carries the notification callbacks an Engine raises. Callbacks are
// invoked from the engine's own goroutine and must not block on engine
// requests.
type Hooks struct {
	// OnPublicationListChanged fires when the room's publication set changed.
	OnPublicationListChanged func()
	// OnMemberListChanged fires when the room's member set changed.
	OnMemberListChanged func()
	// OnDataReceived fires for every inbound data payload.
	OnDataReceived func(pub PublicationID, payload []byte, ts time.Time)
}

// Engine is the media transport collaborator. All blocking operations take
// a context and perform network round-trips.
type Engine interface {
	// Connect opens the durable connection to the signaling backend.
	Connect(ctx context.Context, credential string) error
	// Close releases backend resources. Operations after Close fail.
	Close(ctx context.Context) error

	CreateAudioChannel(ctx context.Context, source string) (LocalChannel, error)
	CreateVideoChannel(ctx context.Context, source string) (LocalChannel, error)
	CreateDataChannel(ctx context.Context, label string) (DataChannel, error)

	JoinRoom(ctx context.Context, roomName string, topology Topology, memberName string) (MemberID, error)
	LeaveRoom(ctx context.Context, roomName string, member MemberID) error

	Publish(ctx context.Context, roomName string, ch LocalChannel, topology Topology) (PublicationID, error)
	Unpublish(ctx context.Context, id PublicationID) error

	Subscribe(ctx context.Context, id PublicationID) (SubscriptionID, BoundChannel, error)
	CancelSubscription(ctx context.Context, id SubscriptionID) error

	ListPublications(ctx context.Context, roomName string) ([]Publication, error)

	// SetHooks registers notification callbacks. Must be called before
	// notifications are expected; replacing hooks mid-session is allowed.
	SetHooks(h Hooks)
}
