// Package signal implements the media engine contract over a JSON
// websocket signaling protocol. One websocket carries request/response
// frames correlated by ID plus unsolicited server events.
package signal

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/internal/errors"
	"github.com/imtaco/roomkit/internal/log"
	isync "github.com/imtaco/roomkit/internal/sync"
	"github.com/imtaco/roomkit/internal/workflow"
)

const (
	// ErrRejected is a non-transport failure reported by the backend.
	ErrRejected errors.Code = "rejected by backend"
)

type pendingReply struct {
	ch chan *message
}

// Client is a websocket signaling engine. Safe for concurrent use; writes
// are serialized, replies are correlated by request ID on the read loop.
type Client struct {
	cfg    *Config
	logger *log.Logger

	limiter *rate.Limiter

	hooksMu sync.RWMutex
	hooks   engine.Hooks

	connMu   sync.Mutex
	conn     *websocket.Conn
	connCtx  context.Context
	connStop context.CancelFunc
	closed   atomic.Bool

	writeMu sync.Mutex
	pending *isync.Map[string, *pendingReply]
}

var _ engine.Engine = (*Client)(nil)

func New(cfg *Config, logger *log.Logger) *Client {
	if logger == nil {
		panic("logger is required")
	}
	return &Client{
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.SendRate), cfg.SendBurst),
		pending: isync.NewMap[string, *pendingReply](),
	}
}

func (c *Client) SetHooks(h engine.Hooks) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()
	c.hooks = h
}

func (c *Client) getHooks() engine.Hooks {
	c.hooksMu.RLock()
	defer c.hooksMu.RUnlock()
	return c.hooks
}

// Connect validates the credential, dials the backend and authenticates
// the connection. The read loop runs until Close or a read failure.
func (c *Client) Connect(ctx context.Context, credential string) error {
	claims, err := parseCredential(credential, time.Now())
	if err != nil {
		return err
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.closed.Load() {
		return errors.New(engine.ErrEngineClosed, "client closed")
	}
	if c.conn != nil {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, c.cfg.URL, nil)
	if err != nil {
		return errors.Wrap(engine.ErrNetwork, err, "dial signaling backend")
	}

	connCtx, stop := context.WithCancel(context.Background())
	c.conn = conn
	c.connCtx = connCtx
	c.connStop = stop

	go c.readLoop(connCtx, conn)

	if err := c.callOn(ctx, conn, connCtx, methodConnect, &connectRequest{Token: credential}, nil); err != nil {
		_ = conn.Close(websocket.StatusPolicyViolation, "connect rejected")
		c.teardownLocked()
		if errors.Is(err, ErrRejected) {
			return errors.Wrap(engine.ErrAuthentication, err, "backend refused credential")
		}
		return err
	}

	c.logger.Info("signaling connected",
		log.String("url", c.cfg.URL),
		log.String("member", claims.MemberName))
	return nil
}

// Close shuts the connection down. Pending calls fail with a network error.
func (c *Client) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(websocket.StatusNormalClosure, "client close")
	c.teardownLocked()
	if err != nil {
		return errors.Wrap(engine.ErrNetwork, err, "close websocket")
	}
	return nil
}

func (c *Client) teardownLocked() {
	if c.connStop != nil {
		c.connStop()
	}
	c.conn = nil
	c.connCtx = nil
	c.connStop = nil
}

func (c *Client) CreateAudioChannel(ctx context.Context, source string) (engine.LocalChannel, error) {
	return c.createChannel(ctx, engine.KindAudio, source, "")
}

func (c *Client) CreateVideoChannel(ctx context.Context, source string) (engine.LocalChannel, error) {
	return c.createChannel(ctx, engine.KindVideo, source, "")
}

func (c *Client) CreateDataChannel(ctx context.Context, label string) (engine.DataChannel, error) {
	ch, err := c.createChannel(ctx, engine.KindData, "", label)
	if err != nil {
		return nil, err
	}
	return &dataChannel{localChannel: ch.(*localChannel)}, nil
}

func (c *Client) createChannel(
	ctx context.Context,
	kind engine.ChannelKind,
	source, label string,
) (engine.LocalChannel, error) {

	resp := createChannelResponse{}
	req := &createChannelRequest{Kind: kind, Source: source, Label: label}
	if err := c.call(ctx, methodCreateChannel, req, &resp); err != nil {
		return nil, err
	}
	return &localChannel{client: c, id: resp.ChannelID, kind: kind}, nil
}

func (c *Client) JoinRoom(
	ctx context.Context,
	roomName string,
	topology engine.Topology,
	memberName string,
) (engine.MemberID, error) {

	resp := joinResponse{}
	req := &joinRequest{Room: roomName, Topology: topology, MemberName: memberName}
	if err := c.call(ctx, methodJoin, req, &resp); err != nil {
		return "", err
	}
	return resp.MemberID, nil
}

func (c *Client) LeaveRoom(ctx context.Context, roomName string, member engine.MemberID) error {
	return c.call(ctx, methodLeave, &leaveRequest{Room: roomName, MemberID: member}, nil)
}

func (c *Client) Publish(
	ctx context.Context,
	roomName string,
	ch engine.LocalChannel,
	topology engine.Topology,
) (engine.PublicationID, error) {

	resp := publishResponse{}
	req := &publishRequest{
		Room:      roomName,
		ChannelID: ch.ID(),
		Kind:      ch.Kind(),
		Topology:  topology,
	}
	if err := c.call(ctx, methodPublish, req, &resp); err != nil {
		return "", err
	}
	return resp.PublicationID, nil
}

func (c *Client) Unpublish(ctx context.Context, id engine.PublicationID) error {
	return c.call(ctx, methodUnpublish, &unpublishRequest{PublicationID: id}, nil)
}

func (c *Client) Subscribe(
	ctx context.Context,
	id engine.PublicationID,
) (engine.SubscriptionID, engine.BoundChannel, error) {

	resp := subscribeResponse{}
	if err := c.call(ctx, methodSubscribe, &subscribeRequest{PublicationID: id}, &resp); err != nil {
		return "", engine.BoundChannel{}, err
	}

	bound := engine.BoundChannel{Kind: resp.Kind}
	stream := &remoteStream{id: resp.StreamID}
	switch resp.Kind {
	case engine.KindAudio:
		bound.Audio = stream
	case engine.KindVideo:
		bound.Video = stream
	case engine.KindData:
		bound.Data = stream
	}
	return resp.SubscriptionID, bound, nil
}

func (c *Client) CancelSubscription(ctx context.Context, id engine.SubscriptionID) error {
	return c.call(ctx, methodUnsubscribe, &unsubscribeRequest{SubscriptionID: id}, nil)
}

func (c *Client) ListPublications(ctx context.Context, roomName string) ([]engine.Publication, error) {
	resp := publicationsResponse{}
	if err := c.call(ctx, methodPublications, &publicationsRequest{Room: roomName}, &resp); err != nil {
		return nil, err
	}
	return resp.Publications, nil
}

func (c *Client) sendData(ctx context.Context, channelID string, payload []byte) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(engine.ErrNetwork, err, "send rate wait")
	}
	return c.call(ctx, methodSendData, &sendDataRequest{ChannelID: channelID, Payload: payload}, nil)
}

// call issues one request and waits for its correlated response. The wait
// also ends when the connection dies.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	c.connMu.Lock()
	conn := c.conn
	connCtx := c.connCtx
	c.connMu.Unlock()

	if conn == nil {
		return errors.New(engine.ErrNetwork, "not connected")
	}
	return c.callOn(ctx, conn, connCtx, method, params, result)
}

func (c *Client) callOn(
	ctx context.Context,
	conn *websocket.Conn,
	connCtx context.Context,
	method string,
	params, result any,
) error {

	raw, err := json.Marshal(params)
	if err != nil {
		return errors.Wrapf(engine.ErrNetwork, err, "marshal %s params", method)
	}

	id := uuid.NewString()
	msg := &message{ID: id, Method: method, Params: raw}

	reply := &pendingReply{ch: make(chan *message, 1)}
	c.pending.Store(id, reply)
	defer c.pending.Delete(id)

	callCtx, cancel := workflow.WithEitherDone(ctx, connCtx)
	defer cancel()

	requestsSent.Add(ctx, 1)
	if err := c.write(callCtx, conn, msg); err != nil {
		requestsFailed.Add(ctx, 1)
		return err
	}

	waitCtx, waitCancel := context.WithTimeout(callCtx, c.cfg.RequestTimeout)
	defer waitCancel()

	select {
	case <-waitCtx.Done():
		requestsFailed.Add(ctx, 1)
		return errors.Wrapf(engine.ErrNetwork, waitCtx.Err(), "await %s reply", method)
	case resp := <-reply.ch:
		if resp.Error != nil {
			requestsFailed.Add(ctx, 1)
			return errors.Newf(ErrRejected, "%s: %s (%s)", method, resp.Error.Message, resp.Error.Code)
		}
		if result == nil || resp.Result == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return errors.Wrapf(engine.ErrNetwork, err, "decode %s result", method)
		}
		return nil
	}
}

func (c *Client) write(ctx context.Context, conn *websocket.Conn, msg *message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	writeCtx, cancel := context.WithTimeout(ctx, c.cfg.WriteTimeout)
	defer cancel()

	if err := wsjson.Write(writeCtx, conn, msg); err != nil {
		return errors.Wrapf(engine.ErrNetwork, err, "write %s", msg.Method)
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		msg := &message{}
		if err := wsjson.Read(ctx, conn, msg); err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("signaling read failed", log.Error(err))
			}
			c.connMu.Lock()
			if c.conn == conn {
				c.teardownLocked()
			}
			c.connMu.Unlock()
			return
		}

		if msg.isResponse() {
			if reply, ok := c.pending.Load(msg.ID); ok {
				reply.ch <- msg
			} else {
				c.logger.Debug("orphan response", log.String("id", msg.ID))
			}
			continue
		}
		c.handleEvent(msg)
	}
}

func (c *Client) handleEvent(msg *message) {
	eventsReceived.Add(context.Background(), 1)
	hooks := c.getHooks()

	switch msg.Method {
	case eventPublicationsChanged:
		if hooks.OnPublicationListChanged != nil {
			hooks.OnPublicationListChanged()
		}
	case eventMembersChanged:
		if hooks.OnMemberListChanged != nil {
			hooks.OnMemberListChanged()
		}
	case eventData:
		ev := dataEvent{}
		if err := json.Unmarshal(msg.Params, &ev); err != nil {
			c.logger.Warn("malformed data event", log.Error(err))
			return
		}
		if hooks.OnDataReceived != nil {
			hooks.OnDataReceived(ev.PublicationID, ev.Payload, ev.TS)
		}
	default:
		c.logger.Debug("unknown event", log.String("method", msg.Method))
	}
}
