package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/internal/errors"
	"github.com/imtaco/roomkit/internal/log"
)

// fakeBackend is an in-process signaling server speaking the wire protocol.
// Per-method handlers can be overridden by a test before Connect.
type fakeBackend struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string]func(params json.RawMessage) (any, *wireError)
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{handlers: map[string]func(json.RawMessage) (any, *wireError){}}
	b.handle(methodConnect, func(json.RawMessage) (any, *wireError) { return nil, nil })
	b.handle(methodJoin, func(json.RawMessage) (any, *wireError) {
		return &joinResponse{MemberID: "m-alice"}, nil
	})
	b.handle(methodLeave, func(json.RawMessage) (any, *wireError) { return nil, nil })
	b.handle(methodCreateChannel, func(json.RawMessage) (any, *wireError) {
		return &createChannelResponse{ChannelID: "ch-1"}, nil
	})
	b.handle(methodCloseChannel, func(json.RawMessage) (any, *wireError) { return nil, nil })
	b.handle(methodPublish, func(json.RawMessage) (any, *wireError) {
		return &publishResponse{PublicationID: "pub-1"}, nil
	})
	b.handle(methodUnpublish, func(json.RawMessage) (any, *wireError) { return nil, nil })
	b.handle(methodSubscribe, func(json.RawMessage) (any, *wireError) {
		return &subscribeResponse{
			SubscriptionID: "sub-1",
			StreamID:       "stream-1",
			Kind:           engine.KindAudio,
		}, nil
	})
	b.handle(methodUnsubscribe, func(json.RawMessage) (any, *wireError) { return nil, nil })
	b.handle(methodPublications, func(json.RawMessage) (any, *wireError) {
		return &publicationsResponse{}, nil
	})
	b.handle(methodSendData, func(json.RawMessage) (any, *wireError) { return nil, nil })
	return b
}

func (b *fakeBackend) handle(method string, h func(json.RawMessage) (any, *wireError)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method] = h
}

func (b *fakeBackend) handler(method string) (func(json.RawMessage) (any, *wireError), bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.handlers[method]
	return h, ok && h != nil
}

func (b *fakeBackend) serveHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()

	ctx := context.Background()
	for {
		req := &message{}
		if err := wsjson.Read(ctx, conn, req); err != nil {
			return
		}
		h, ok := b.handler(req.Method)
		if !ok {
			// never reply; lets tests exercise request timeouts
			continue
		}
		result, wireErr := h(req.Params)
		resp := &message{ID: req.ID, Error: wireErr}
		if result != nil {
			raw, _ := json.Marshal(result)
			resp.Result = raw
		}
		if err := wsjson.Write(ctx, conn, resp); err != nil {
			return
		}
	}
}

// push sends an unsolicited event frame to the connected client.
func (b *fakeBackend) push(method string, params any) error {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()

	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return wsjson.Write(context.Background(), conn, &message{Method: method, Params: raw})
}

type ClientTestSuite struct {
	suite.Suite
	backend *fakeBackend
	server  *httptest.Server
	client  *Client
	ctx     context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.backend = newFakeBackend()
	s.server = httptest.NewServer(http.HandlerFunc(s.backend.serveHTTP))
	s.ctx = context.Background()

	cfg := &Config{
		URL:            "ws" + strings.TrimPrefix(s.server.URL, "http"),
		DialTimeout:    2 * time.Second,
		RequestTimeout: 500 * time.Millisecond,
		WriteTimeout:   2 * time.Second,
		SendRate:       100,
		SendBurst:      100,
	}
	s.client = New(cfg, log.NewNop())
}

func (s *ClientTestSuite) TearDownTest() {
	_ = s.client.Close(s.ctx)
	s.server.Close()
}

func (s *ClientTestSuite) credential() string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		MemberName: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	s.Require().NoError(err)
	return token
}

func (s *ClientTestSuite) connect() {
	s.Require().NoError(s.client.Connect(s.ctx, s.credential()))
}

func (s *ClientTestSuite) TestConnect() {
	s.Run("rejects an invalid credential before dialing", func() {
		err := s.client.Connect(s.ctx, "garbage")
		s.Require().Error(err)
		s.True(errors.Is(err, engine.ErrAuthentication))
	})

	s.Run("authenticates and becomes usable", func() {
		s.connect()

		// second connect is a no-op
		s.NoError(s.client.Connect(s.ctx, s.credential()))
	})
}

func (s *ClientTestSuite) TestConnectRejectedByBackend() {
	s.backend.handle(methodConnect, func(json.RawMessage) (any, *wireError) {
		return nil, &wireError{Code: "unauthorized", Message: "bad token"}
	})

	err := s.client.Connect(s.ctx, s.credential())
	s.Require().Error(err)
	s.True(errors.Is(err, engine.ErrAuthentication))
}

func (s *ClientTestSuite) TestJoinRoom() {
	s.connect()

	s.backend.handle(methodJoin, func(params json.RawMessage) (any, *wireError) {
		req := joinRequest{}
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, &wireError{Code: "bad-request", Message: err.Error()}
		}
		if req.Room != "meeting" || req.Topology != engine.TopologyP2P {
			return nil, &wireError{Code: "bad-request", Message: "unexpected params"}
		}
		return &joinResponse{MemberID: "m-alice"}, nil
	})

	member, err := s.client.JoinRoom(s.ctx, "meeting", engine.TopologyP2P, "alice")
	s.Require().NoError(err)
	s.Equal(engine.MemberID("m-alice"), member)
}

func (s *ClientTestSuite) TestBackendErrorIsRejection() {
	s.connect()

	s.backend.handle(methodJoin, func(json.RawMessage) (any, *wireError) {
		return nil, &wireError{Code: "room-full", Message: "room is full"}
	})

	_, err := s.client.JoinRoom(s.ctx, "meeting", engine.TopologyP2P, "alice")
	s.Require().Error(err)
	s.True(errors.Is(err, ErrRejected))
	s.False(errors.Is(err, engine.ErrNetwork))
}

func (s *ClientTestSuite) TestRequestTimeout() {
	s.connect()

	// a nil handler makes the backend swallow the request
	s.backend.handle(methodJoin, nil)

	_, err := s.client.JoinRoom(s.ctx, "meeting", engine.TopologyP2P, "alice")
	s.Require().Error(err)
	s.True(errors.Is(err, engine.ErrNetwork))
}

func (s *ClientTestSuite) TestChannelLifecycle() {
	s.connect()

	ch, err := s.client.CreateAudioChannel(s.ctx, "mic0")
	s.Require().NoError(err)
	s.Equal("ch-1", ch.ID())
	s.Equal(engine.KindAudio, ch.Kind())

	pubID, err := s.client.Publish(s.ctx, "meeting", ch, engine.TopologyP2P)
	s.Require().NoError(err)
	s.Equal(engine.PublicationID("pub-1"), pubID)

	s.NoError(ch.Close())
}

func (s *ClientTestSuite) TestDataChannelSend() {
	s.connect()

	var got []byte
	var mu sync.Mutex
	s.backend.handle(methodSendData, func(params json.RawMessage) (any, *wireError) {
		req := sendDataRequest{}
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, &wireError{Code: "bad-request", Message: err.Error()}
		}
		mu.Lock()
		got = req.Payload
		mu.Unlock()
		return nil, nil
	})

	ch, err := s.client.CreateDataChannel(s.ctx, "chat")
	s.Require().NoError(err)

	s.Require().NoError(ch.Send(s.ctx, []byte("hello")))
	mu.Lock()
	s.Equal([]byte("hello"), got)
	mu.Unlock()
}

func (s *ClientTestSuite) TestSubscribeBindsChannelByKind() {
	s.connect()

	s.backend.handle(methodSubscribe, func(json.RawMessage) (any, *wireError) {
		return &subscribeResponse{
			SubscriptionID: "sub-1",
			StreamID:       "stream-1",
			Kind:           engine.KindVideo,
		}, nil
	})

	subID, bound, err := s.client.Subscribe(s.ctx, "pub-1")
	s.Require().NoError(err)
	s.Equal(engine.SubscriptionID("sub-1"), subID)
	s.Equal(engine.KindVideo, bound.Kind)
	s.Require().NotNil(bound.Video)
	s.Equal("stream-1", bound.Video.ID())
	s.Nil(bound.Audio)
	s.Nil(bound.Data)
}

func (s *ClientTestSuite) TestEventsReachHooks() {
	pubsChanged := make(chan struct{}, 4)
	data := make(chan dataEvent, 4)
	s.client.SetHooks(engine.Hooks{
		OnPublicationListChanged: func() { pubsChanged <- struct{}{} },
		OnDataReceived: func(pub engine.PublicationID, payload []byte, ts time.Time) {
			data <- dataEvent{PublicationID: pub, Payload: payload, TS: ts}
		},
	})
	s.connect()

	s.Require().NoError(s.backend.push(eventPublicationsChanged, nil))
	select {
	case <-pubsChanged:
	case <-time.After(2 * time.Second):
		s.FailNow("publication change hook not invoked")
	}

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.backend.push(eventData, &dataEvent{
		PublicationID: "pub-1",
		Payload:       []byte("hello"),
		TS:            ts,
	}))
	select {
	case ev := <-data:
		s.Equal(engine.PublicationID("pub-1"), ev.PublicationID)
		s.Equal([]byte("hello"), ev.Payload)
		s.True(ev.TS.Equal(ts))
	case <-time.After(2 * time.Second):
		s.FailNow("data hook not invoked")
	}
}

func (s *ClientTestSuite) TestCallAfterClose() {
	s.connect()
	s.Require().NoError(s.client.Close(s.ctx))

	_, err := s.client.JoinRoom(s.ctx, "meeting", engine.TopologyP2P, "alice")
	s.Require().Error(err)
	s.True(errors.Is(err, engine.ErrNetwork))

	err = s.client.Connect(s.ctx, s.credential())
	s.Require().Error(err)
	s.True(errors.Is(err, engine.ErrEngineClosed))
}
