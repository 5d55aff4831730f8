// ABOUTME: Oto engine package documentation
// ABOUTME: Describes the shared output and completion behavior of the oto backend
// Package otoplay implements engine.Engine with oto.
//
// oto supports a single output context per process, so every session of
// every Engine shares it and reports one output device. Clips are decoded
// when loaded, converted to the output rate and channel count, and played
// by one oto player each. Loading on any other device fails with
// engine.StatusDeviceError.
//
// The end of a clip is reported once the player has drained its buffer;
// the clip is rewound before the completion function runs.
package otoplay
