package activity

import "errors"

var (
	ErrExportUnavailable = errors.New("activity export storage is not configured")
	ErrExportTooLarge    = errors.New("activity export exceeds the row limit")
	ErrInvalidRange      = errors.New("from must be before to")
	ErrExportNotFound    = errors.New("activity export not found")
)
