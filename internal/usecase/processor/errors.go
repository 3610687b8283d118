package processor

import "errors"

var (
	ErrDecode            = errors.New("failed to decode image")
	ErrEncode            = errors.New("failed to encode image")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)
