// ABOUTME: Entry point for the clip deck
// ABOUTME: Parses CLI flags, loads the clips given as arguments and runs the TUI
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/clipdeck/internal/app"
	"github.com/Resonate-Protocol/clipdeck/internal/ui"
	"github.com/Resonate-Protocol/clipdeck/internal/version"
	"github.com/Resonate-Protocol/clipdeck/pkg/clip"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine/miniaudio"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine/otoplay"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	backend     = flag.String("backend", "miniaudio", "Audio engine: miniaudio or oto")
	deviceName  = flag.String("device", "", "Output device name (substring match, default: system default)")
	volume      = flag.Float64("volume", 1.0, "Initial volume for every clip")
	listDevices = flag.Bool("list-devices", false, "List output devices and exit")
	logFile     = flag.String("log-file", "clipdeck.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, play every clip once and stream logs")
	metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] clip...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	useTUI := !*noTUI && !*listDevices

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	var out io.Writer = f
	if !useTUI {
		out = io.MultiWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}, f)
	}
	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()

	if err := run(useTUI); err != nil {
		log.Error().Err(err).Msg("clipdeck failed")
		fmt.Fprintf(os.Stderr, "clipdeck: %v\n", err)
		os.Exit(1)
	}
}

func newEngine(name string) (engine.Engine, error) {
	switch name {
	case "miniaudio", "malgo":
		return miniaudio.New(miniaudio.Config{}), nil
	case "oto":
		return otoplay.New(otoplay.Config{}), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func run(useTUI bool) error {
	eng, err := newEngine(*backend)
	if err != nil {
		return err
	}

	ctx, err := clip.Open(clip.Config{Engine: eng})
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()

	if *listDevices {
		return printDevices(ctx)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		return errors.New("no clips given")
	}

	device, err := app.SelectDevice(ctx, *deviceName)
	if err != nil {
		return err
	}

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	deck := app.New(ctx, app.Config{
		Paths:   flag.Args(),
		Device:  device,
		Volume:  float32(*volume),
		Backend: *backend,
	})
	defer func() {
		if err := deck.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing deck")
		}
	}()

	runCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := deck.Load(runCtx); err != nil {
		return err
	}
	log.Info().
		Str("session", ctx.ID().String()).
		Str("device", device.Name()).
		Int("clips", len(deck.Handles())).
		Msg("clips loaded")

	if !useTUI {
		return playOnce(runCtx, deck)
	}

	controls := ui.NewControls()
	tuiProg, err := ui.Run(controls)
	if err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	go deck.Run(runCtx, controls, func(msg ui.StatusMsg) { tuiProg.Send(msg) })
	go func() {
		<-runCtx.Done()
		tuiProg.Quit()
	}()

	if _, err := tuiProg.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	cancel()
	return nil
}

// playOnce starts every clip and waits until each has finished once
func playOnce(ctx context.Context, deck *app.Deck) error {
	deck.PlayAll()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown signal received")
			return nil
		case <-ticker.C:
			done := true
			for _, h := range deck.Handles() {
				if h.State().Plays == 0 {
					done = false
					break
				}
			}
			if done {
				log.Info().Msg("all clips finished")
				return nil
			}
		}
	}
}

func printDevices(ctx *clip.Context) error {
	def := clip.DefaultOutputDevice(ctx)
	devices := clip.OutputDevices(ctx)
	defer devices.Close()

	fmt.Printf("%d output device(s)\n", devices.Len())
	for d := range devices.All() {
		marker := " "
		if d.IsDefault() || d.ID() == def.ID() {
			marker = "*"
		}
		fmt.Printf(" %s %s\n", marker, d.Name())
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
