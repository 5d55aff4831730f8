// ABOUTME: Tests for engine boundary types
// ABOUTME: Tests status formatting and empty device detection
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusOK, "ok"},
		{StatusDecoderError, "decoder error"},
		{StatusDeviceError, "device error"},
		{Status(-7), "status(-7)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestDeviceInfoIsZero(t *testing.T) {
	assert.True(t, DeviceInfo{}.IsZero())
	assert.False(t, DeviceInfo{Name: "speakers"}.IsZero())
	assert.False(t, DeviceInfo{IsDefault: true}.IsZero())

	var d DeviceInfo
	d.ID[3] = 1
	assert.False(t, d.IsZero())
}
