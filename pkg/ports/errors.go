package ports

import "errors"

// Reasons a source could not be loaded. Stages wrap these; the loader
// reports them inside its LoadError.
var (
	ErrUnknownFormat     = errors.New("unknown image format")
	ErrDecodeFailure     = errors.New("decode failure")
	ErrSourceUnavailable = errors.New("source unavailable")
)
