// ABOUTME: Clip and device inspector
// ABOUTME: Prints output devices and the name, duration and format of each clip without playing it
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/Resonate-Protocol/clipdeck/pkg/audio/decode"
	"github.com/Resonate-Protocol/clipdeck/pkg/clip"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine/miniaudio"
	"github.com/Resonate-Protocol/clipdeck/pkg/engine/otoplay"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	backend = flag.String("backend", "miniaudio", "Audio engine: miniaudio or oto")
	format  = flag.Bool("format", false, "Also decode each clip and print its source format")
	debug   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [clip...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := zerolog.WarnLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	var eng engine.Engine
	switch *backend {
	case "miniaudio", "malgo":
		eng = miniaudio.New(miniaudio.Config{})
	case "oto":
		eng = otoplay.New(otoplay.Config{})
	default:
		log.Fatal().Str("backend", *backend).Msg("unknown backend")
	}

	ctx, err := clip.Open(clip.Config{Engine: eng})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open context")
	}
	defer ctx.Close()

	printDevices(ctx)

	if flag.NArg() == 0 {
		return
	}

	registry := decode.DefaultRegistry()
	fmt.Printf("\nSupported: %s\n\n", strings.Join(registry.Extensions(), " "))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDURATION\tFORMAT\tSTATUS")
	failed := false
	for _, path := range flag.Args() {
		if !describe(w, ctx, registry, path) {
			failed = true
		}
	}
	_ = w.Flush()

	if failed {
		os.Exit(1)
	}
}

func printDevices(ctx *clip.Context) {
	def := clip.DefaultOutputDevice(ctx)
	devices := clip.OutputDevices(ctx)
	defer devices.Close()

	fmt.Printf("Output devices: %d\n", devices.Len())
	fmt.Printf("Default: %s\n", def)
	for d := range devices.All() {
		fmt.Printf("  - %s\n", d)
	}
}

// describe prints one row and reports whether the clip loaded
func describe(w *tabwriter.Writer, ctx *clip.Context, registry *decode.Registry, path string) bool {
	h, err := clip.Load(path, ctx)
	if err != nil {
		fmt.Fprintf(w, "%s\t-\t-\t%v\n", filepath.Base(path), err)
		return false
	}
	defer h.Close()

	desc := "-"
	if *format {
		if pcm, err := registry.DecodeFile(path); err == nil {
			desc = fmt.Sprintf("%s %dHz %dch", pcm.Format.Codec, pcm.Format.SampleRate, pcm.Format.Channels)
			if pcm.Format.BitDepth > 0 {
				desc += fmt.Sprintf(" %d-bit", pcm.Format.BitDepth)
			}
		}
	}

	fmt.Fprintf(w, "%s\t%s\t%s\tok\n", h.Name(), h.Duration(), desc)
	return true
}
