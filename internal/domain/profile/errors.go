package profile

import "errors"

var (
	ErrNotFound       = errors.New("profile not found")
	ErrForbidden      = errors.New("insufficient privilege")
	ErrInvalidRole    = errors.New("unknown role")
	ErrInvalidManager = errors.New("invalid manager reference")
)
