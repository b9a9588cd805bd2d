package signal

import (
	"encoding/json"
	"time"

	"github.com/imtaco/roomkit/engine"
)

// message is the single wire frame. Requests carry ID+Method+Params,
// responses carry ID+Result or ID+Error, server events carry Method+Params
// without an ID.
type message struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *wireError      `json:"error,omitempty"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (m *message) isResponse() bool {
	return m.ID != "" && (m.Result != nil || m.Error != nil)
}

// request methods
const (
	methodConnect       = "session.connect"
	methodJoin          = "room.join"
	methodLeave         = "room.leave"
	methodCreateChannel = "channel.create"
	methodCloseChannel  = "channel.close"
	methodPublish       = "channel.publish"
	methodUnpublish     = "channel.unpublish"
	methodSubscribe     = "room.subscribe"
	methodUnsubscribe   = "room.unsubscribe"
	methodPublications  = "room.publications"
	methodSendData      = "data.send"
)

// server events
const (
	eventPublicationsChanged = "room.publicationsChanged"
	eventMembersChanged      = "room.membersChanged"
	eventData                = "data"
)

type connectRequest struct {
	Token string `json:"token"`
}

type joinRequest struct {
	Room       string          `json:"room"`
	Topology   engine.Topology `json:"topology"`
	MemberName string          `json:"memberName,omitempty"`
}

type joinResponse struct {
	MemberID engine.MemberID `json:"memberId"`
}

type leaveRequest struct {
	Room     string          `json:"room"`
	MemberID engine.MemberID `json:"memberId"`
}

type createChannelRequest struct {
	Kind   engine.ChannelKind `json:"kind"`
	Source string             `json:"source,omitempty"`
	Label  string             `json:"label,omitempty"`
}

type createChannelResponse struct {
	ChannelID string `json:"channelId"`
}

type closeChannelRequest struct {
	ChannelID string `json:"channelId"`
}

type publishRequest struct {
	Room      string             `json:"room"`
	ChannelID string             `json:"channelId"`
	Kind      engine.ChannelKind `json:"kind"`
	Topology  engine.Topology    `json:"topology"`
}

type publishResponse struct {
	PublicationID engine.PublicationID `json:"publicationId"`
}

type unpublishRequest struct {
	PublicationID engine.PublicationID `json:"publicationId"`
}

type subscribeRequest struct {
	PublicationID engine.PublicationID `json:"publicationId"`
}

type subscribeResponse struct {
	SubscriptionID engine.SubscriptionID `json:"subscriptionId"`
	StreamID       string                `json:"streamId"`
	Kind           engine.ChannelKind    `json:"kind"`
}

type unsubscribeRequest struct {
	SubscriptionID engine.SubscriptionID `json:"subscriptionId"`
}

type publicationsRequest struct {
	Room string `json:"room"`
}

type publicationsResponse struct {
	Publications []engine.Publication `json:"publications"`
}

type sendDataRequest struct {
	ChannelID string `json:"channelId"`
	Payload   []byte `json:"payload"`
}

type dataEvent struct {
	PublicationID engine.PublicationID `json:"publicationId"`
	Payload       []byte               `json:"payload"`
	TS            time.Time            `json:"ts"`
}
