// ABOUTME: Audio fundamentals package for decoded clips
// ABOUTME: Defines Format, PCM, Cursor and sample conversion functions
// Package audio provides the in-memory representation of decoded clips.
//
// Clips are decoded once into PCM: interleaved float32 samples in [-1, 1]
// with the source Format. A Cursor tracks a playback position over a PCM
// value and applies a gain as samples are read, either as frames for
// callback-driven devices or as a little-endian float32 byte stream for
// pull-driven players.
//
// Example:
//
//	pcm := &audio.PCM{
//	    Format:  audio.Format{SampleRate: 48000, Channels: 2},
//	    Samples: samples,
//	}
//	cur := audio.NewCursor(pcm.Remix(2))
//	cur.SetGain(0.5)
//	n, ended := cur.ReadFrames(out)
package audio
