package room

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/internal/errors"
	"github.com/imtaco/roomkit/internal/log"
	"github.com/imtaco/roomkit/internal/retry"
	isync "github.com/imtaco/roomkit/internal/sync"
	"github.com/imtaco/roomkit/internal/validation"
)

const (
	connectInitialInterval = 200 * time.Millisecond
	connectMaxInterval     = 2 * time.Second
	connectMaxElapsed      = 15 * time.Second
)

// SessionContext is the process-wide authenticated handle to the signaling
// backend. One live context per process is expected; sessions created from
// it share its engine connection. Engine notifications are fanned out to
// every live RoomSession, each of which reacts only to its own room.
type SessionContext struct {
	eng    engine.Engine
	logger *log.Logger

	closed   atomic.Bool
	sessions *isync.Map[string, *RoomSession]
}

// Setup authenticates against the backend and opens the durable engine
// connection, retrying transient failures with exponential backoff.
// Authentication failures are terminal and not retried.
func Setup(ctx context.Context, eng engine.Engine, credential string, logger *log.Logger) (*SessionContext, error) {
	if logger == nil {
		panic("logger is required")
	}
	if credential == "" {
		return nil, errors.New(engine.ErrAuthentication, "credential is required")
	}

	c := &SessionContext{
		eng:      eng,
		logger:   logger,
		sessions: isync.NewMap[string, *RoomSession](),
	}
	eng.SetHooks(engine.Hooks{
		OnPublicationListChanged: c.fanoutPublicationListChanged,
		OnMemberListChanged:      c.fanoutMemberListChanged,
		OnDataReceived:           c.fanoutDataReceived,
	})

	r := retry.New(logger.Module("Connect"), connectInitialInterval, connectMaxInterval, connectMaxElapsed)
	err := r.Do(ctx, func() error {
		err := eng.Connect(ctx, credential)
		if errors.Is(err, engine.ErrAuthentication) {
			return backoff.Permanent(err)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, engine.ErrAuthentication) {
			return nil, err
		}
		return nil, errors.Wrap(ErrTransport, err, "connect media engine")
	}

	logger.Info("media engine connected")
	return c, nil
}

// Ready reports whether the context can still serve sessions.
func (c *SessionContext) Ready() bool {
	return !c.closed.Load()
}

// Close tears down the engine connection. Live sessions are closed first,
// best-effort. Subsequent operations fail with ErrContextNotReady.
func (c *SessionContext) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return errors.New(ErrContextNotReady, "session context already closed")
	}

	c.sessions.Range(func(_ string, s *RoomSession) bool {
		s.Close(ctx)
		return true
	})

	if err := c.eng.Close(ctx); err != nil {
		return errors.Wrap(ErrTransport, err, "close media engine")
	}
	c.logger.Info("session context closed")
	return nil
}

// NewRoomSession creates an idle RoomSession bound to this context.
func (c *SessionContext) NewRoomSession(opts Options) (*RoomSession, error) {
	return c.newRoomSessionWithClock(opts, clockwork.NewRealClock())
}

func (c *SessionContext) newRoomSessionWithClock(opts Options, clock clockwork.Clock) (*RoomSession, error) {
	if !c.Ready() {
		return nil, errors.New(ErrContextNotReady, "session context closed")
	}
	if err := validation.Struct(&opts); err != nil {
		return nil, errors.Wrap(ErrInvalidRequest, err, "invalid session options")
	}

	id := uuid.NewString()
	s, err := newRoomSession(c, id, opts, clock, c.logger.Module("RoomSession"))
	if err != nil {
		return nil, err
	}
	c.sessions.Store(id, s)
	return s, nil
}

func (c *SessionContext) dropSession(id string) {
	c.sessions.Delete(id)
}

func (c *SessionContext) fanoutPublicationListChanged() {
	c.sessions.Range(func(_ string, s *RoomSession) bool {
		s.notifyPublicationListChanged()
		return true
	})
}

func (c *SessionContext) fanoutMemberListChanged() {
	c.sessions.Range(func(_ string, s *RoomSession) bool {
		s.notifyMemberListChanged()
		return true
	})
}

func (c *SessionContext) fanoutDataReceived(pub engine.PublicationID, payload []byte, ts time.Time) {
	c.sessions.Range(func(_ string, s *RoomSession) bool {
		s.handleData(pub, payload, ts)
		return true
	})
}
