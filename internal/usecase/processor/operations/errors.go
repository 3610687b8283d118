package operations

import "errors"

var (
	ErrDegenerateGeometry = errors.New("degenerate overlay geometry")
	ErrAssetNotLoaded     = errors.New("overlay asset not loaded")
	ErrFontNotLoaded      = errors.New("font not loaded")
)
