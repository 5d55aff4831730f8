// ABOUTME: Miniaudio engine package documentation
// ABOUTME: Describes session, device and completion behavior of the malgo backend
// Package miniaudio implements engine.Engine with miniaudio through malgo.
//
// Each session owns one miniaudio context. Each clip is decoded into memory
// when it is loaded and gets its own float32 playback device at the clip's
// sample rate and channel count, on the requested output device or the
// system default. Volume is applied in software as samples are copied to
// the device.
//
// When a clip plays to its end the device is stopped, the clip is rewound
// and the session's completion function is called with the clip's outer
// key from a separate goroutine.
//
// Example:
//
//	eng := miniaudio.New(miniaudio.Config{})
//	ctx, err := clip.Open(clip.Config{Engine: eng})
package miniaudio
