// ABOUTME: Oto-backed native engine
// ABOUTME: Plays every clip on the single process-wide oto context through its own player
package otoplay

import (
	"fmt"
	"sync"
	"time"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/Resonate-Protocol/clipdeck/pkg/audio/decode"
	"github.com/Resonate-Protocol/clipdeck/pkg/audio/resample"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultDeviceName is the name of the one output device this engine reports.
const DefaultDeviceName = "System Output"

// Config holds engine configuration
type Config struct {
	// SampleRate of the shared output (default: 48000)
	SampleRate int

	// Channels of the shared output (default: 2)
	Channels int

	// BufferSize is the oto buffer length (default: oto's choice)
	BufferSize time.Duration

	// Registry decodes clip files (default: decode.DefaultRegistry())
	Registry *decode.Registry

	// Logger is used for playback events (default: global zerolog logger)
	Logger *zerolog.Logger
}

// oto allows a single context per process
var shared struct {
	once     sync.Once
	ctx      *oto.Context
	err      error
	rate     int
	channels int
}

func sharedContext(config Config) (*oto.Context, error) {
	shared.once.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   config.SampleRate,
			ChannelCount: config.Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   config.BufferSize,
		})
		if err != nil {
			shared.err = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		shared.ctx = ctx
		shared.rate = config.SampleRate
		shared.channels = config.Channels
	})
	return shared.ctx, shared.err
}

// Engine implements engine.Engine on top of oto.
type Engine struct {
	config Config
	log    zerolog.Logger

	mu       sync.Mutex
	ctx      *oto.Context
	rate     int
	channels int
	next     engine.Session
	sessions map[engine.Session]*session
}

type session struct {
	onEnd engine.CompletionFunc

	mu    sync.Mutex
	clips map[engine.ClipID]*clip
}

// New creates an engine. The oto context is created when the first
// session is opened.
func New(config Config) *Engine {
	if config.SampleRate == 0 {
		config.SampleRate = 48000
	}
	if config.Channels == 0 {
		config.Channels = 2
	}
	if config.Registry == nil {
		config.Registry = decode.DefaultRegistry()
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Engine{
		config:   config,
		log:      logger.With().Str("component", "otoplay").Logger(),
		sessions: make(map[engine.Session]*session),
	}
}

// OutputDevice is the single device reported by every session.
func OutputDevice() engine.DeviceInfo {
	d := engine.DeviceInfo{Name: DefaultDeviceName, IsDefault: true}
	copy(d.ID[:], "oto:default")
	return d
}

// accepts reports whether a clip may be loaded on device.
func accepts(device engine.DeviceInfo) bool {
	return device.IsZero() || device.ID == OutputDevice().ID
}

func (e *Engine) OpenContext(onClipEnd engine.CompletionFunc) (engine.Session, error) {
	ctx, err := sharedContext(e.config)
	if err != nil {
		return 0, err
	}
	if shared.rate != e.config.SampleRate || shared.channels != e.config.Channels {
		e.log.Warn().
			Int("rate", shared.rate).
			Int("channels", shared.channels).
			Msg("oto context already created with a different format, using it")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sessions) == 0 {
		if err := ctx.Resume(); err != nil {
			return 0, fmt.Errorf("failed to resume oto context: %w", err)
		}
	}
	e.ctx = ctx
	e.rate, e.channels = shared.rate, shared.channels
	e.next++
	e.sessions[e.next] = &session{onEnd: onClipEnd, clips: make(map[engine.ClipID]*clip)}
	return e.next, nil
}

func (e *Engine) CloseContext(s engine.Session) {
	e.mu.Lock()
	ss, ok := e.sessions[s]
	delete(e.sessions, s)
	idle := len(e.sessions) == 0
	ctx := e.ctx
	e.mu.Unlock()
	if !ok {
		return
	}

	ss.mu.Lock()
	clips := ss.clips
	ss.clips = make(map[engine.ClipID]*clip)
	ss.mu.Unlock()
	for _, c := range clips {
		c.close()
	}

	if idle && ctx != nil {
		if err := ctx.Suspend(); err != nil {
			e.log.Warn().Err(err).Msg("failed to suspend oto context")
		}
	}
}

func (e *Engine) session(s engine.Session) (*session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ss, ok := e.sessions[s]
	return ss, ok
}

func (e *Engine) clip(id engine.ClipID, s engine.Session) (*clip, bool) {
	ss, ok := e.session(s)
	if !ok {
		return nil, false
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	c, ok := ss.clips[id]
	return c, ok
}

func (e *Engine) DefaultDevice(s engine.Session) engine.DeviceInfo {
	if _, ok := e.session(s); !ok {
		return engine.DeviceInfo{}
	}
	return OutputDevice()
}

func (e *Engine) DeviceCount(s engine.Session) int {
	if _, ok := e.session(s); !ok {
		return 0
	}
	return 1
}

func (e *Engine) Devices(s engine.Session, dst []engine.DeviceInfo) int {
	if _, ok := e.session(s); !ok || len(dst) == 0 {
		return 0
	}
	dst[0] = OutputDevice()
	return 1
}

// prepare converts a decoded clip to the output format.
func prepare(pcm *audio.PCM, rate, channels int) *audio.PCM {
	return resample.Convert(pcm.Remix(channels), rate)
}

func (e *Engine) Load(id engine.ClipID, s engine.Session, path string, device engine.DeviceInfo) engine.Status {
	ss, ok := e.session(s)
	if !ok || !accepts(device) {
		return engine.StatusDeviceError
	}

	pcm, err := e.config.Registry.DecodeFile(path)
	if err != nil {
		e.log.Warn().Err(err).Str("path", path).Msg("clip decode failed")
		return engine.StatusDecoderError
	}

	e.mu.Lock()
	ctx, rate, channels := e.ctx, e.rate, e.channels
	e.mu.Unlock()

	c := newClip(prepare(pcm, rate, channels), ss.onEnd, e.log.With().Uint64("clip", uint64(id)).Logger())
	c.player = ctx.NewPlayer(c.source())

	ss.mu.Lock()
	old := ss.clips[id]
	ss.clips[id] = c
	ss.mu.Unlock()
	if old != nil {
		old.close()
	}
	return engine.StatusOK
}

func (e *Engine) SetOuter(id engine.ClipID, s engine.Session, outer engine.Outer) {
	if c, ok := e.clip(id, s); ok {
		c.setOuter(outer)
	}
}

func (e *Engine) Unload(id engine.ClipID, s engine.Session) {
	ss, ok := e.session(s)
	if !ok {
		return
	}
	ss.mu.Lock()
	c, ok := ss.clips[id]
	delete(ss.clips, id)
	ss.mu.Unlock()
	if ok {
		c.close()
	}
}

func (e *Engine) Play(id engine.ClipID, s engine.Session) {
	if c, ok := e.clip(id, s); ok {
		c.play()
	}
}

func (e *Engine) Stop(id engine.ClipID, s engine.Session) {
	if c, ok := e.clip(id, s); ok {
		c.stop(false)
	}
}

func (e *Engine) Reset(id engine.ClipID, s engine.Session) {
	if c, ok := e.clip(id, s); ok {
		c.stop(true)
	}
}

func (e *Engine) SetVolume(id engine.ClipID, s engine.Session, volume float32) {
	if c, ok := e.clip(id, s); ok {
		c.setVolume(volume)
	}
}

func (e *Engine) Volume(id engine.ClipID, s engine.Session) float32 {
	if c, ok := e.clip(id, s); ok {
		return c.volume()
	}
	return 0
}

func (e *Engine) IsPlaying(id engine.ClipID, s engine.Session) bool {
	if c, ok := e.clip(id, s); ok {
		return c.isPlaying()
	}
	return false
}

func (e *Engine) Duration(id engine.ClipID, s engine.Session) uint64 {
	if c, ok := e.clip(id, s); ok {
		return c.cursor.PCM().DurationMs()
	}
	return 0
}

// SetDevice only accepts the shared output; anything else is logged and ignored.
func (e *Engine) SetDevice(id engine.ClipID, s engine.Session, device engine.DeviceInfo) {
	if _, ok := e.clip(id, s); !ok {
		return
	}
	if !accepts(device) {
		e.log.Warn().Str("device", device.Name).Msg("oto output cannot switch devices")
	}
}

var _ engine.Engine = (*Engine)(nil)
