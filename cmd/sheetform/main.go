// Command sheetform applies a forming tool to a sheet metal part described
// in a YAML job file and writes the result as an STL file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/soypat/sheetmetal/config"
	"github.com/soypat/sheetmetal/forming"
	"github.com/soypat/sheetmetal/render"
)

type options struct {
	configFile string
	stl        string
	png        string
	meshCells  int
	timeout    time.Duration
	verbose    bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "sheetform:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("sheetform", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "Path to job file (YAML). Required.")
	fs.StringVar(&opts.stl, "stl", "", "Override output STL path")
	fs.StringVar(&opts.png, "png", "", "Override output PNG preview path")
	fs.IntVar(&opts.meshCells, "cells", 0, "Override marching cubes cells along the longest side")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Abort forming after this long (0 disables)")
	fs.BoolVar(&opts.verbose, "v", false, "Log debug diagnostics")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "sheetform - stamp forming tools into sheet metal parts\n\n")
		fmt.Fprintf(stderr, "Usage: sheetform -config job.yaml [options]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.configFile == "" {
		fs.Usage()
		return opts, fmt.Errorf("-config is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	if opts.stl != "" {
		cfg.Output.STL = opts.stl
	}
	if opts.png != "" {
		cfg.Output.PNG = opts.png
	}
	if opts.meshCells != 0 {
		cfg.Output.MeshCells = opts.meshCells
	}
	job, err := cfg.Job()
	if err != nil {
		return fmt.Errorf("invalid job %s: %w", opts.configFile, err)
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	start := time.Now()
	formed, err := forming.NewFormer(forming.WithLogger(log)).Form(ctx, job)
	if err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Int("faces", len(formed.Faces())).Msg("part formed")

	start = time.Now()
	model, err := render.Mesh(formed.SDF(), cfg.Output.MeshCells)
	if err != nil {
		return fmt.Errorf("meshing: %w", err)
	}
	if err := render.CreateSTL(cfg.Output.STL, render.NewMeshReader(model)); err != nil {
		return err
	}
	log.Info().Str("path", cfg.Output.STL).Int("triangles", len(model)).
		Dur("elapsed", time.Since(start)).Msg("wrote STL")
	if cfg.Output.PNG != "" {
		if err := render.CreatePNG(cfg.Output.PNG, model, render.DefaultView()); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		log.Info().Str("path", cfg.Output.PNG).Msg("wrote preview")
	}
	return nil
}
