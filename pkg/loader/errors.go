package loader

import (
	"errors"
	"fmt"

	"github.com/user/imgload/pkg/ports"
)

// Reasons carried by a LoadError.
var (
	ErrUnknownFormat     = ports.ErrUnknownFormat
	ErrDecodeFailure     = ports.ErrDecodeFailure
	ErrSourceUnavailable = ports.ErrSourceUnavailable
)

// LoadError reports that the source identified by Source could not be
// loaded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// reason returns a short metrics label for a load failure.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownFormat):
		return "unknown_format"
	case errors.Is(err, ErrDecodeFailure):
		return "decode_failure"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	default:
		return "other"
	}
}
