// ABOUTME: Native engine capability surface
// ABOUTME: Session, clip and device types shared by the clip layer and engine backends
package engine

import "fmt"

// Session is an opaque token for one native playback session.
type Session uint64

// ClipID identifies a loaded clip within a session. Assigned by the caller.
type ClipID uint64

// Outer is the integer key an engine passes back to its completion
// function when a clip finishes. It is never an address.
type Outer uint64

// Status is the result code of a native load.
type Status int32

const (
	StatusOK           Status = 0
	StatusDecoderError Status = -1
	StatusDeviceError  Status = -2
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDecoderError:
		return "decoder error"
	case StatusDeviceError:
		return "device error"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// DeviceIDSize is the size of the raw native device identifier.
const DeviceIDSize = 256

// DeviceInfo describes one output device as reported by the engine.
type DeviceInfo struct {
	ID        [DeviceIDSize]byte
	Name      string
	IsDefault bool
}

// IsZero reports whether d is the empty descriptor.
func (d DeviceInfo) IsZero() bool {
	return d.ID == [DeviceIDSize]byte{} && d.Name == "" && !d.IsDefault
}

// CompletionFunc is called by an engine, on one of its own goroutines,
// when a clip reaches its end. outer is the value set with SetOuter.
type CompletionFunc func(outer Outer)

// Engine is the set of native calls the clip layer relies on.
//
// Calls naming an unknown session or clip are no-ops returning zero values,
// except Load, which reports StatusDeviceError for an unknown session.
// Implementations must be safe for concurrent use.
type Engine interface {
	// OpenContext creates a session. onClipEnd receives completion
	// notifications for every clip loaded in it.
	OpenContext(onClipEnd CompletionFunc) (Session, error)
	// CloseContext destroys a session.
	CloseContext(s Session)

	DefaultDevice(s Session) DeviceInfo
	DeviceCount(s Session) int
	// Devices fills dst and returns how many entries were written. The
	// result may be smaller than a preceding DeviceCount.
	Devices(s Session, dst []DeviceInfo) int

	Load(id ClipID, s Session, path string, device DeviceInfo) Status
	// SetOuter records the key passed to the completion function for id.
	SetOuter(id ClipID, s Session, outer Outer)
	Unload(id ClipID, s Session)

	Play(id ClipID, s Session)
	Stop(id ClipID, s Session)
	// Reset stops the clip and rewinds it to the start.
	Reset(id ClipID, s Session)
	SetVolume(id ClipID, s Session, volume float32)
	Volume(id ClipID, s Session) float32
	IsPlaying(id ClipID, s Session) bool
	// Duration is the clip length in milliseconds.
	Duration(id ClipID, s Session) uint64
	SetDevice(id ClipID, s Session, device DeviceInfo)
}
