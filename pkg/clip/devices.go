// ABOUTME: Output device catalog
// ABOUTME: Default device lookup and single-pass enumeration of output devices
package clip

import (
	"iter"
	"sync"
	"unicode/utf8"

	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
)

// Undefined is returned by Name methods when no usable name exists.
const Undefined = "Undefined"

// Device is an output device descriptor. It is a copy of what the engine
// reported and stays valid after the context is closed.
type Device struct {
	info engine.DeviceInfo
}

// DeviceFromInfo wraps a raw engine descriptor.
func DeviceFromInfo(info engine.DeviceInfo) Device {
	return Device{info: info}
}

// Name returns the device name, or Undefined when the engine reported a
// name that is not valid UTF-8.
func (d Device) Name() string {
	if !utf8.ValidString(d.info.Name) {
		return Undefined
	}
	return d.info.Name
}

// ID returns the raw native device identifier.
func (d Device) ID() [engine.DeviceIDSize]byte {
	return d.info.ID
}

// IsDefault reports whether the engine flagged this device as the default.
func (d Device) IsDefault() bool {
	return d.info.IsDefault
}

// Info returns the engine descriptor.
func (d Device) Info() engine.DeviceInfo {
	return d.info
}

// IsZero reports whether d is the empty descriptor.
func (d Device) IsZero() bool {
	return d.info.IsZero()
}

func (d Device) String() string {
	return d.Name()
}

// DefaultOutputDevice asks the engine for its default output device. The
// result is not validated; an engine without devices yields an empty Device.
func DefaultOutputDevice(ctx *Context) Device {
	s, err := ctx.acquire()
	if err != nil {
		return Device{}
	}
	defer s.release()
	return Device{info: s.engine.DefaultDevice(s.token)}
}

// Devices is a single-pass sequence of output devices. It holds a context
// reference until it is exhausted or closed.
type Devices struct {
	mu    sync.Mutex
	s     *session
	items []engine.DeviceInfo
	next  int
}

// OutputDevices enumerates output devices in engine order. The engine is
// asked for a count and then filled; if devices disappear in between, only
// the filled entries are returned.
func OutputDevices(ctx *Context) *Devices {
	s, err := ctx.acquire()
	if err != nil {
		return &Devices{}
	}

	count := s.engine.DeviceCount(s.token)
	if count < 0 {
		count = 0
	}
	items := make([]engine.DeviceInfo, count)
	filled := s.engine.Devices(s.token, items)
	if filled < count {
		s.log.Debug().Int("count", count).Int("filled", filled).Msg("device list shrank during enumeration")
	}
	filled = max(0, min(filled, count))

	d := &Devices{s: s, items: items[:filled]}
	if filled == 0 {
		d.releaseLocked()
	}
	return d
}

// Next returns the next device. ok is false once the sequence is exhausted.
func (d *Devices) Next() (Device, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.next >= len(d.items) {
		d.releaseLocked()
		return Device{}, false
	}
	dev := Device{info: d.items[d.next]}
	d.items[d.next] = engine.DeviceInfo{}
	d.next++
	if d.next == len(d.items) {
		d.releaseLocked()
	}
	return dev, true
}

// Len returns the number of devices not yet produced.
func (d *Devices) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items) - d.next
}

// All yields the remaining devices, consuming them.
func (d *Devices) All() iter.Seq[Device] {
	return func(yield func(Device) bool) {
		for {
			dev, ok := d.Next()
			if !ok || !yield(dev) {
				return
			}
		}
	}
}

// Close drops the remaining devices and the context reference.
func (d *Devices) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next = len(d.items)
	d.releaseLocked()
	return nil
}

func (d *Devices) releaseLocked() {
	if d.s != nil {
		d.s.release()
		d.s = nil
	}
}
