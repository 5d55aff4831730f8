// ABOUTME: Clip layer error values
// ABOUTME: Sentinels for load and context failures plus native status mapping
package clip

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
)

var (
	ErrFile    = errors.New("unable to find file")
	ErrDecoder = errors.New("unable to decode file")
	ErrDevice  = errors.New("invalid device")
	ErrContext = errors.New("unable to initialize context")
	ErrUnknown = errors.New("unknown error")

	// ErrClosed is returned when a Context or Handle value is used after Close.
	ErrClosed = errors.New("clip: use of closed value")
)

// StatusError carries a native load status that has no dedicated sentinel.
type StatusError struct {
	Code engine.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (native status %d)", ErrUnknown, int32(e.Code))
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnknown
}

// statusErr maps a native load status to an error. StatusOK maps to nil.
func statusErr(status engine.Status, path string) error {
	switch status {
	case engine.StatusOK:
		return nil
	case engine.StatusDecoderError:
		return fmt.Errorf("%w: %s", ErrDecoder, path)
	case engine.StatusDeviceError:
		return fmt.Errorf("%w: %s", ErrDevice, path)
	default:
		return fmt.Errorf("%s: %w", path, &StatusError{Code: status})
	}
}

// loadResult is the metrics label for a load outcome.
func loadResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrFile):
		return "file"
	case errors.Is(err, ErrDecoder):
		return "decoder"
	case errors.Is(err, ErrDevice):
		return "device"
	default:
		return "unknown"
	}
}
