package rbac

import "errors"

var (
	ErrUnknownRole       = errors.New("unknown role")
	ErrUnknownPermission = errors.New("unknown permission")
	ErrInvalidRegistry   = errors.New("invalid role registry")
)
