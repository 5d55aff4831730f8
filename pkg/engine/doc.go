// ABOUTME: Native engine package documentation
// ABOUTME: Describes the Engine interface and the available backends
// Package engine defines the boundary between the clip layer and a native
// audio engine.
//
// An Engine owns sessions, decodes and plays clips, and reports clip
// completion through a CompletionFunc registered when the session is opened.
// The clip layer never hands an engine a Go pointer: clips are addressed by
// ClipID and completions come back as an integer Outer key.
//
// Backends:
//   - engine/miniaudio: miniaudio via malgo, one playback device per clip
//   - engine/otoplay: oto, a single default output shared by all clips
package engine
