// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts decoded clips between sample rates
// Package resample provides sample rate conversion for decoded clips.
//
// Uses linear interpolation over interleaved float32 samples and handles
// both upsampling and downsampling. Convert resamples a whole audio.PCM
// value in one call.
//
// Example:
//
//	r := resample.New(44100, 48000, 2)
//	n := r.Resample(inputSamples, outputSamples)
//
//	clip48k := resample.Convert(clip, 48000)
package resample
