// ABOUTME: Audio encoder package for writing decoded clips to files
// ABOUTME: Provides the Encoder interface with WAV and AIFF implementations
// Package encode writes audio.PCM clips as WAV or AIFF files.
//
// It is used to render generated clips, such as test tones, into files any
// engine can load.
//
// Example:
//
//	tone := encode.Tone(440, 48000, 2, time.Second, 0.5)
//	err := encode.WriteFile("tone.wav", tone)
package encode
