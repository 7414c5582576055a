package format

import "errors"

var (
	// ErrBadMagic indicates a slot header did not start with HeaderMagic.
	ErrBadMagic = errors.New("format: bad header magic")
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
)
