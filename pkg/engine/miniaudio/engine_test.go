// ABOUTME: Tests for the malgo engine
// ABOUTME: Tests device selection, the data callback, and playback on the null backend
package miniaudio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/Resonate-Protocol/clipdeck/pkg/audio/encode"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietEngine(config Config) *Engine {
	nop := zerolog.Nop()
	config.Logger = &nop
	return New(config)
}

func TestPickDefault(t *testing.T) {
	a := engine.DeviceInfo{Name: "A"}
	b := engine.DeviceInfo{Name: "B", IsDefault: true}
	c := engine.DeviceInfo{Name: "C"}

	assert.Equal(t, "B", pickDefault([]engine.DeviceInfo{a, b, c}).Name)
	assert.Equal(t, "A", pickDefault([]engine.DeviceInfo{a, c}).Name)
	assert.True(t, pickDefault(nil).IsZero())
}

func TestUnknownSession(t *testing.T) {
	e := quietEngine(Config{})

	assert.Equal(t, engine.StatusDeviceError, e.Load(0, 42, "clip.wav", engine.DeviceInfo{}))
	assert.True(t, e.DefaultDevice(42).IsZero())
	assert.Equal(t, 0, e.DeviceCount(42))
	assert.Equal(t, 0, e.Devices(42, make([]engine.DeviceInfo, 2)))
	assert.False(t, e.IsPlaying(0, 42))
	assert.Equal(t, float32(0), e.Volume(0, 42))
	assert.Equal(t, uint64(0), e.Duration(0, 42))

	e.Play(0, 42)
	e.Stop(0, 42)
	e.Reset(0, 42)
	e.SetVolume(0, 42, 1)
	e.SetOuter(0, 42, 1)
	e.SetDevice(0, 42, engine.DeviceInfo{})
	e.Unload(0, 42)
	e.CloseContext(42)
}

func TestClipFill(t *testing.T) {
	pcm := &audio.PCM{
		Format:  audio.Format{SampleRate: 8000, Channels: 1},
		Samples: []float32{0.5, -0.5, 0.25},
	}
	// closed keeps finish from touching the missing device
	c := &clip{cursor: audio.NewCursor(pcm), closed: true}
	c.cursor.SetGain(2)

	out := make([]byte, 8)
	c.fill(out, 2, 1)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(out[0:])))
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(out[4:])))
	assert.False(t, c.ending.Load())

	c.fill(out, 2, 1)
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(out[0:])))
	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(out[4:])))
	assert.True(t, c.ending.Load())

	out = []byte{1, 2, 3, 4, 5, 6, 7, 8}
	c.fill(out, 2, 1)
	assert.Equal(t, make([]byte, 8), out)
}

func TestFinishAfterStopIsDropped(t *testing.T) {
	pcm := &audio.PCM{
		Format:  audio.Format{SampleRate: 8000, Channels: 1},
		Samples: []float32{0.5, -0.5},
	}
	var calls int
	c := &clip{
		cursor:   audio.NewCursor(pcm),
		log:      zerolog.Nop(),
		onEnd:    func(engine.Outer) { calls++ },
		hasOuter: true,
	}

	// the clip ran out, then a stop cleared the pending end before the
	// finish goroutine got the lock
	_, ended := c.cursor.ReadFrames(make([]float32, 2))
	require.True(t, ended)
	c.finish()

	assert.Equal(t, 0, calls)
	assert.Equal(t, 2, c.cursor.Frame())
}

func writeTone(t *testing.T, d time.Duration) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, encode.WriteFile(path, encode.Tone(440, 8000, 1, d, 0.25)))
	return path
}

func TestNullBackendPlayback(t *testing.T) {
	e := quietEngine(Config{Backends: []malgo.Backend{malgo.BackendNull}})

	ended := make(chan engine.Outer, 4)
	s, err := e.OpenContext(func(o engine.Outer) { ended <- o })
	if err != nil {
		t.Skipf("null backend unavailable: %v", err)
	}
	defer e.CloseContext(s)

	path := writeTone(t, 50*time.Millisecond)
	status := e.Load(7, s, path, engine.DeviceInfo{})
	if status == engine.StatusDeviceError {
		t.Skip("null playback device unavailable")
	}
	require.Equal(t, engine.StatusOK, status)
	e.SetOuter(7, s, 99)

	assert.Equal(t, uint64(50), e.Duration(7, s))
	assert.False(t, e.IsPlaying(7, s))
	assert.Equal(t, float32(1), e.Volume(7, s))

	e.SetVolume(7, s, 0.5)
	assert.Equal(t, float32(0.5), e.Volume(7, s))

	e.Play(7, s)
	assert.True(t, e.IsPlaying(7, s))

	select {
	case o := <-ended:
		assert.Equal(t, engine.Outer(99), o)
	case <-time.After(5 * time.Second):
		t.Fatal("clip did not finish")
	}
	assert.False(t, e.IsPlaying(7, s))

	e.Play(7, s)
	e.Reset(7, s)
	assert.False(t, e.IsPlaying(7, s))

	e.Unload(7, s)
	assert.Equal(t, uint64(0), e.Duration(7, s))
}

func TestLoadUndecodable(t *testing.T) {
	e := quietEngine(Config{Backends: []malgo.Backend{malgo.BackendNull}})
	s, err := e.OpenContext(func(engine.Outer) {})
	if err != nil {
		t.Skipf("null backend unavailable: %v", err)
	}
	defer e.CloseContext(s)

	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a wav"), 0o644))

	assert.Equal(t, engine.StatusDecoderError, e.Load(1, s, path, engine.DeviceInfo{}))
}
