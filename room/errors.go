package room

import "github.com/imtaco/roomkit/internal/errors"

const (
	ErrContextNotReady     errors.Code = "context not ready"
	ErrAlreadyJoined       errors.Code = "already joined"
	ErrNotJoined           errors.Code = "not joined"
	ErrJoinRejected        errors.Code = "join rejected"
	ErrPublicationNotFound errors.Code = "publication not found"
	ErrChannelNotCreated   errors.Code = "channel not created"
	ErrUnsupportedTopology errors.Code = "unsupported topology"
	ErrTransport           errors.Code = "transport failure"
	ErrInvalidRequest      errors.Code = "invalid request"
)
