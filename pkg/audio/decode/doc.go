// ABOUTME: Clip decoder package for multiple file formats
// ABOUTME: Provides the Decoder interface, a registry by extension and format decoders
// Package decode turns audio files into in-memory clips.
//
// Supports: MP3, FLAC, Ogg Vorbis, WAV, AIFF, and Ogg Opus when built with
// the opus tag (it links libopusfile).
//
// Every decoder reads a whole file and returns an audio.PCM value with
// interleaved float32 samples. A Registry selects the decoder by file
// extension.
//
// Example:
//
//	reg := decode.DefaultRegistry()
//	pcm, err := reg.DecodeFile("clips/song.ogg")
package decode
