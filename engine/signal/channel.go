package signal

import (
	"context"
	"time"

	"github.com/imtaco/roomkit/engine"
)

const closeChannelTimeout = 3 * time.Second

// localChannel is a backend-allocated channel handle. Close releases the
// backend resource with its own deadline so a dead caller context cannot
// leak channels.
type localChannel struct {
	client *Client
	id     string
	kind   engine.ChannelKind
}

var _ engine.LocalChannel = (*localChannel)(nil)

func (ch *localChannel) ID() string {
	return ch.id
}

func (ch *localChannel) Kind() engine.ChannelKind {
	return ch.kind
}

func (ch *localChannel) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeChannelTimeout)
	defer cancel()
	return ch.client.call(ctx, methodCloseChannel, &closeChannelRequest{ChannelID: ch.id}, nil)
}

type dataChannel struct {
	*localChannel
}

var _ engine.DataChannel = (*dataChannel)(nil)

func (ch *dataChannel) Send(ctx context.Context, payload []byte) error {
	return ch.client.sendData(ctx, ch.id, payload)
}

type remoteStream struct {
	id string
}

func (s *remoteStream) ID() string {
	return s.id
}
