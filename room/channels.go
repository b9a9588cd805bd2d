package room

import (
	"context"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/internal/log"
)

// LocalChannelSet owns the locally produced channel handles and, once
// published, their publication IDs. It lives for one joined cycle of a
// RoomSession and is stopped on leave.
type LocalChannelSet struct {
	audio engine.LocalChannel
	video engine.LocalChannel
	data  engine.DataChannel

	pubs map[engine.ChannelKind]engine.PublicationID
}

func newLocalChannelSet(
	ctx context.Context,
	eng engine.Engine,
	sources CaptureSources,
) (*LocalChannelSet, error) {

	set := &LocalChannelSet{
		pubs: make(map[engine.ChannelKind]engine.PublicationID),
	}

	if sources.Microphone != "" {
		ch, err := eng.CreateAudioChannel(ctx, sources.Microphone)
		if err != nil {
			set.stop(nil)
			return nil, err
		}
		set.audio = ch
	}
	if sources.Camera != "" {
		ch, err := eng.CreateVideoChannel(ctx, sources.Camera)
		if err != nil {
			set.stop(nil)
			return nil, err
		}
		set.video = ch
	}
	if sources.DataLabel != "" {
		ch, err := eng.CreateDataChannel(ctx, sources.DataLabel)
		if err != nil {
			set.stop(nil)
			return nil, err
		}
		set.data = ch
	}

	return set, nil
}

// HasData reports whether a data channel was created.
func (s *LocalChannelSet) HasData() bool {
	return s != nil && s.data != nil
}

// PublicationIDs returns the assigned publication IDs by channel kind.
func (s *LocalChannelSet) PublicationIDs() map[engine.ChannelKind]engine.PublicationID {
	out := make(map[engine.ChannelKind]engine.PublicationID, len(s.pubs))
	for k, v := range s.pubs {
		out[k] = v
	}
	return out
}

func (s *LocalChannelSet) published(kind engine.ChannelKind) (engine.PublicationID, bool) {
	id, ok := s.pubs[kind]
	return id, ok
}

func (s *LocalChannelSet) markPublished(kind engine.ChannelKind, id engine.PublicationID) {
	s.pubs[kind] = id
}

func (s *LocalChannelSet) clearPublished() {
	s.pubs = make(map[engine.ChannelKind]engine.PublicationID)
}

// stop closes every channel handle. Close failures are logged, never fatal.
func (s *LocalChannelSet) stop(logger *log.Logger) {
	channels := []engine.LocalChannel{s.audio, s.video}
	if s.data != nil {
		channels = append(channels, s.data)
	}
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		if err := ch.Close(); err != nil && logger != nil {
			logger.Warn("failed to close local channel",
				log.String("kind", string(ch.Kind())),
				log.Error(err))
		}
	}
	s.audio, s.video, s.data = nil, nil, nil
}
