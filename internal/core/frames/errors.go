package frames

import "errors"

var (
	ErrFrameNotFound  = errors.New("frame not found")
	ErrDuplicateFrame = errors.New("frame already registered")
	ErrUnknownRef     = errors.New("unknown frame reference")
)
