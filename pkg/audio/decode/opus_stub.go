//go:build !opus

// ABOUTME: Stub for builds without libopusfile
// ABOUTME: Leaves .opus unregistered; build with -tags opus to enable it
package decode

func registerOpus(*Registry) {}
