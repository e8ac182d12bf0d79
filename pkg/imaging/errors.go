package imaging

import "errors"

var (
	ErrDecodeFailed      = errors.New("imaging: failed to decode image")
	ErrEncodeFailed      = errors.New("imaging: failed to encode image")
	ErrInvalidDimensions = errors.New("imaging: invalid dimensions")
)
