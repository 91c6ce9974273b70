package state

import "errors"

var (
	// ErrChecksumMismatch is returned when a snapshot's stored checksum does
	// not match the checksum recomputed from its entries.
	ErrChecksumMismatch = errors.New("state: checksum mismatch")

	// ErrUnknownFrame is returned when a snapshot entry names a parent that
	// exists neither in the snapshot nor in the target hierarchy.
	ErrUnknownFrame = errors.New("state: unknown frame")

	// ErrInvalidSnapshot is returned for malformed snapshot data, including
	// parent cycles and truncated or oversized encodings.
	ErrInvalidSnapshot = errors.New("state: invalid snapshot")
)
