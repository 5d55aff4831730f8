// ABOUTME: Malgo-backed native engine
// ABOUTME: One miniaudio context per session and one float32 playback device per clip
package miniaudio

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio"
	"github.com/Resonate-Protocol/clipdeck/pkg/audio/decode"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds engine configuration
type Config struct {
	// Backends restricts the miniaudio backends tried, in order (default: platform order)
	Backends []malgo.Backend

	// PeriodMs is the device period in milliseconds (default: miniaudio's choice)
	PeriodMs uint32

	// AlsaMMap enables memory-mapped ALSA access, which some drivers mishandle
	AlsaMMap bool

	// Registry decodes clip files (default: decode.DefaultRegistry())
	Registry *decode.Registry

	// Logger is used for device and decode events (default: global zerolog logger)
	Logger *zerolog.Logger
}

// Engine implements engine.Engine on top of miniaudio.
type Engine struct {
	config Config
	log    zerolog.Logger

	mu       sync.Mutex
	next     engine.Session
	sessions map[engine.Session]*session
}

type session struct {
	ctx   *malgo.AllocatedContext
	onEnd engine.CompletionFunc

	mu    sync.Mutex
	clips map[engine.ClipID]*clip
}

// New creates an engine. No native resources are allocated until a
// session is opened.
func New(config Config) *Engine {
	if config.Registry == nil {
		config.Registry = decode.DefaultRegistry()
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Engine{
		config:   config,
		log:      logger.With().Str("component", "miniaudio").Logger(),
		sessions: make(map[engine.Session]*session),
	}
}

func (e *Engine) OpenContext(onClipEnd engine.CompletionFunc) (engine.Session, error) {
	ctx, err := malgo.InitContext(e.config.Backends, malgo.ContextConfig{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.sessions[e.next] = &session{
		ctx:   ctx,
		onEnd: onClipEnd,
		clips: make(map[engine.ClipID]*clip),
	}
	e.log.Debug().Uint64("session", uint64(e.next)).Msg("malgo context initialized")
	return e.next, nil
}

func (e *Engine) CloseContext(s engine.Session) {
	e.mu.Lock()
	ss, ok := e.sessions[s]
	delete(e.sessions, s)
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
	if len(clips) > 0 {
		e.log.Warn().Int("clips", len(clips)).Msg("session closed with clips still loaded")
	}

	if err := ss.ctx.Uninit(); err != nil {
		e.log.Warn().Err(err).Msg("malgo context uninit error")
	}
	ss.ctx.Free()
	e.log.Debug().Uint64("session", uint64(s)).Msg("malgo context released")
}

func (e *Engine) session(s engine.Session) (*session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ss, ok := e.sessions[s]
	return ss, ok
}

func (e *Engine) clip(id engine.ClipID, s engine.Session) (*session, *clip, bool) {
	ss, ok := e.session(s)
	if !ok {
		return nil, nil, false
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	c, ok := ss.clips[id]
	return ss, c, ok
}

func (e *Engine) playbackDevices(ss *session) []engine.DeviceInfo {
	infos, err := ss.ctx.Devices(malgo.Playback)
	if err != nil {
		e.log.Warn().Err(err).Msg("failed to enumerate playback devices")
		return nil
	}
	out := make([]engine.DeviceInfo, len(infos))
	for i := range infos {
		out[i] = deviceInfo(&infos[i])
	}
	return out
}

func deviceInfo(d *malgo.DeviceInfo) engine.DeviceInfo {
	var info engine.DeviceInfo
	copy(info.ID[:], d.ID[:])
	info.Name = d.Name()
	info.IsDefault = d.IsDefault != 0
	return info
}

// pickDefault returns the device flagged as default, else the first one.
func pickDefault(devices []engine.DeviceInfo) engine.DeviceInfo {
	for _, d := range devices {
		if d.IsDefault {
			return d
		}
	}
	if len(devices) > 0 {
		return devices[0]
	}
	return engine.DeviceInfo{}
}

func (e *Engine) DefaultDevice(s engine.Session) engine.DeviceInfo {
	ss, ok := e.session(s)
	if !ok {
		return engine.DeviceInfo{}
	}
	return pickDefault(e.playbackDevices(ss))
}

func (e *Engine) DeviceCount(s engine.Session) int {
	ss, ok := e.session(s)
	if !ok {
		return 0
	}
	return len(e.playbackDevices(ss))
}

func (e *Engine) Devices(s engine.Session, dst []engine.DeviceInfo) int {
	ss, ok := e.session(s)
	if !ok {
		return 0
	}
	return copy(dst, e.playbackDevices(ss))
}

func (e *Engine) Load(id engine.ClipID, s engine.Session, path string, device engine.DeviceInfo) engine.Status {
	ss, ok := e.session(s)
	if !ok {
		return engine.StatusDeviceError
	}

	pcm, err := e.config.Registry.DecodeFile(path)
	if err != nil {
		e.log.Warn().Err(err).Str("path", path).Msg("clip decode failed")
		return engine.StatusDecoderError
	}

	c := &clip{
		cursor: audio.NewCursor(pcm),
		log:    e.log.With().Uint64("clip", uint64(id)).Logger(),
		onEnd:  ss.onEnd,
	}
	dev, err := e.initDevice(ss, c, device)
	if err != nil {
		e.log.Warn().Err(err).Str("path", path).Str("device", device.Name).Msg("playback device init failed")
		return engine.StatusDeviceError
	}
	c.device = dev
	c.deviceInfo = device

	ss.mu.Lock()
	old := ss.clips[id]
	ss.clips[id] = c
	ss.mu.Unlock()
	if old != nil {
		old.close()
	}

	e.log.Debug().
		Uint64("clip", uint64(id)).
		Str("codec", pcm.Format.Codec).
		Int("rate", pcm.Format.SampleRate).
		Int("channels", pcm.Format.Channels).
		Uint64("duration_ms", pcm.DurationMs()).
		Msg("clip loaded")
	return engine.StatusOK
}

func (e *Engine) initDevice(ss *session, c *clip, device engine.DeviceInfo) (*malgo.Device, error) {
	format := c.cursor.PCM().Format

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatF32
	config.Playback.Channels = uint32(format.Channels)
	config.SampleRate = uint32(format.SampleRate)
	config.PeriodSizeInMilliseconds = e.config.PeriodMs
	if !e.config.AlsaMMap {
		config.Alsa.NoMMap = 1
	}
	if !device.IsZero() {
		var id malgo.DeviceID
		copy(id[:], device.ID[:])
		config.Playback.DeviceID = id.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frames uint32) {
			c.fill(out, frames, format.Channels)
		},
	}

	return malgo.InitDevice(ss.ctx.Context, config, callbacks)
}

func (e *Engine) SetOuter(id engine.ClipID, s engine.Session, outer engine.Outer) {
	if _, c, ok := e.clip(id, s); ok {
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
	if _, c, ok := e.clip(id, s); ok {
		c.play()
	}
}

func (e *Engine) Stop(id engine.ClipID, s engine.Session) {
	if _, c, ok := e.clip(id, s); ok {
		c.stop(false)
	}
}

func (e *Engine) Reset(id engine.ClipID, s engine.Session) {
	if _, c, ok := e.clip(id, s); ok {
		c.stop(true)
	}
}

func (e *Engine) SetVolume(id engine.ClipID, s engine.Session, volume float32) {
	if _, c, ok := e.clip(id, s); ok {
		c.cursor.SetGain(volume)
	}
}

func (e *Engine) Volume(id engine.ClipID, s engine.Session) float32 {
	if _, c, ok := e.clip(id, s); ok {
		return c.cursor.Gain()
	}
	return 0
}

func (e *Engine) IsPlaying(id engine.ClipID, s engine.Session) bool {
	if _, c, ok := e.clip(id, s); ok {
		return c.playing.Load()
	}
	return false
}

func (e *Engine) Duration(id engine.ClipID, s engine.Session) uint64 {
	if _, c, ok := e.clip(id, s); ok {
		return c.cursor.PCM().DurationMs()
	}
	return 0
}

// SetDevice moves a clip to another device, keeping its position and
// whether it is playing. On failure the clip stays on its current device.
func (e *Engine) SetDevice(id engine.ClipID, s engine.Session, device engine.DeviceInfo) {
	ss, c, ok := e.clip(id, s)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	dev, err := e.initDevice(ss, c, device)
	if err != nil {
		c.log.Warn().Err(err).Str("device", device.Name).Msg("failed to switch playback device")
		return
	}

	old := c.device
	c.device = dev
	c.deviceInfo = device
	old.Uninit()

	if c.playing.Load() {
		if err := dev.Start(); err != nil {
			c.log.Warn().Err(err).Msg("failed to restart clip on new device")
			c.playing.Store(false)
		}
	}
	c.log.Debug().
		Str("device", device.Name).
		Int("frame", c.cursor.Frame()).
		Msg("clip moved to new device")
}

var _ engine.Engine = (*Engine)(nil)
