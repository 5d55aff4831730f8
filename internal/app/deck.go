// ABOUTME: Clip deck application orchestration
// ABOUTME: Loads clips on a context, applies TUI commands and reports deck status
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Resonate-Protocol/clipdeck/internal/ui"
	"github.com/Resonate-Protocol/clipdeck/pkg/clip"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrNoDevice is returned when no output device matches the requested name
var ErrNoDevice = errors.New("no matching output device")

// statusInterval is how often Run pushes a deck snapshot
const statusInterval = 250 * time.Millisecond

// Config holds deck configuration
type Config struct {
	// Paths of the clips to load, in display order
	Paths []string

	// Device is the output device for every clip (zero value: default device)
	Device clip.Device

	// Volume is the initial volume of every clip
	Volume float32

	// Backend is shown in the TUI header
	Backend string

	// Logger for deck events (default: global zerolog logger)
	Logger *zerolog.Logger
}

// ClipState is the caller state kept on every handle
type ClipState struct {
	Plays    int
	LastPlay time.Time
}

// Deck owns the handles loaded for one context
type Deck struct {
	config  Config
	ctx     *clip.Context
	handles []*clip.Handle[ClipState]
	log     zerolog.Logger
}

// New creates a deck on ctx. The deck keeps its own reference to ctx.
func New(ctx *clip.Context, config Config) *Deck {
	if config.Volume == 0 {
		config.Volume = 1
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Deck{
		config: config,
		ctx:    ctx.Clone(),
		log:    logger.With().Str("component", "deck").Logger(),
	}
}

// SelectDevice returns the first output device whose name contains query,
// case-insensitively. An empty query selects the default device.
func SelectDevice(ctx *clip.Context, query string) (clip.Device, error) {
	if query == "" {
		return clip.DefaultOutputDevice(ctx), nil
	}

	devices := clip.OutputDevices(ctx)
	defer devices.Close()

	q := strings.ToLower(query)
	for d := range devices.All() {
		if strings.Contains(strings.ToLower(d.Name()), q) {
			return d, nil
		}
	}
	return clip.Device{}, fmt.Errorf("%w: %q", ErrNoDevice, query)
}

// Load loads every configured clip concurrently. If any load fails the
// clips already loaded are closed and the first error is returned.
func (d *Deck) Load(ctx context.Context) error {
	handles := make([]*clip.Handle[ClipState], len(d.config.Paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range d.config.Paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			loader := clip.NewLoader[ClipState](path, d.ctx).
				Volume(d.config.Volume).
				OnEnd(d.onEnd(path))
			if !d.config.Device.IsZero() {
				loader = loader.Device(d.config.Device)
			}

			h, err := loader.Load()
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			handles[i] = h
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		for _, h := range handles {
			if h != nil {
				_ = h.Close()
			}
		}
		return err
	}

	d.handles = handles
	d.log.Info().Int("clips", len(handles)).Msg("deck loaded")
	return nil
}

func (d *Deck) onEnd(path string) func(*ClipState) {
	return func(s *ClipState) {
		s.Plays++
		s.LastPlay = time.Now()
		d.log.Debug().Str("path", path).Int("plays", s.Plays).Msg("clip finished")
	}
}

// Handles returns the loaded handles in display order
func (d *Deck) Handles() []*clip.Handle[ClipState] {
	return d.handles
}

// PlayAll starts every clip
func (d *Deck) PlayAll() {
	for _, h := range d.handles {
		h.Play()
	}
}

// Apply performs a TUI command
func (d *Deck) Apply(cmd ui.Command) error {
	if cmd.Index < 0 || cmd.Index >= len(d.handles) {
		return fmt.Errorf("no clip at index %d", cmd.Index)
	}
	h := d.handles[cmd.Index]

	switch cmd.Kind {
	case ui.CommandPlay:
		h.Play()
	case ui.CommandStop:
		h.Stop()
	case ui.CommandReset:
		h.Reset()
	case ui.CommandVolume:
		h.SetVolume(cmd.Volume)
	default:
		return fmt.Errorf("unknown command %s", cmd.Kind)
	}

	d.log.Debug().
		Str("clip", h.Name()).
		Stringer("command", cmd.Kind).
		Msg("applied command")
	return nil
}

// Rows snapshots the deck for display
func (d *Deck) Rows() []ui.Row {
	rows := make([]ui.Row, 0, len(d.handles))
	for _, h := range d.handles {
		rows = append(rows, ui.Row{
			Name:     h.Name(),
			Playing:  h.IsPlaying(),
			Volume:   h.Volume(),
			Duration: h.Duration(),
			Plays:    h.State().Plays,
		})
	}
	return rows
}

// Status builds a full TUI update
func (d *Deck) Status() ui.StatusMsg {
	device := d.config.Device
	if device.IsZero() {
		device = clip.DefaultOutputDevice(d.ctx)
	}
	return ui.StatusMsg{
		Backend: d.config.Backend,
		Device:  device.Name(),
		Rows:    d.Rows(),
	}
}

// Run applies commands and pushes status until ctx is done or the
// user quits. update may be nil.
func (d *Deck) Run(ctx context.Context, controls *ui.Controls, update func(ui.StatusMsg)) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	push := func(msg ui.StatusMsg) {
		if update != nil {
			update(msg)
		}
	}
	push(d.Status())

	for {
		select {
		case <-ctx.Done():
			return
		case <-controls.Quit:
			return
		case cmd := <-controls.Commands:
			if err := d.Apply(cmd); err != nil {
				d.log.Warn().Err(err).Msg("command failed")
				push(ui.StatusMsg{Err: err.Error()})
				continue
			}
			push(ui.StatusMsg{Rows: d.Rows()})
		case <-ticker.C:
			push(ui.StatusMsg{Rows: d.Rows()})
		}
	}
}

// Close closes every handle and the deck's context reference
func (d *Deck) Close() error {
	var errs []error
	for _, h := range d.handles {
		if err := h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	d.handles = nil
	if err := d.ctx.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
