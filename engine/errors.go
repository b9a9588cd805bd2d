package engine

import "github.com/imtaco/roomkit/internal/errors"

const (
	ErrAuthentication errors.Code = "authentication failed"
	ErrNetwork        errors.Code = "network failure"
	ErrEngineClosed   errors.Code = "engine closed"
)
