package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"naivemip/internal/models"
	"naivemip/pkg/animation"
	"naivemip/pkg/config"
	"naivemip/pkg/decoder"
	"naivemip/pkg/display"
	"naivemip/pkg/reconstruction"
	"naivemip/pkg/render"
	"naivemip/pkg/visualization"
)

// glfw and OpenGL calls must all come from the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "naivemip.yaml", "Path to the YAML configuration file")
	inputDir := flag.String("input", "", "Directory containing the DICOM slices (overrides input.dir)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *inputDir != "" {
		cfg.Input.Dir = *inputDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	logger := newLogger(cfg.Output.Verbose)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("naivemip failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// run owns every resource so that deferred cleanup completes before main
// decides the exit status.
func run(cfg *config.Config, logger *slog.Logger) error {
	params := &reconstruction.Params{
		InputDir: cfg.Input.Dir,
		Decode:   cfg.DecodeOptions(),
	}
	reconstructor := reconstruction.NewReconstructor(params, decoder.DicomCodec{}, logger)

	start := time.Now()
	vol, err := reconstructor.Process()
	if err != nil {
		return fmt.Errorf("build volume: %w", err)
	}
	logger.Info("volume ready", "dims", vol.Dims.String(), "elapsed", time.Since(start).Round(time.Millisecond))

	if err := export(cfg, vol, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	win, err := display.Open(cfg.Window, logger)
	if err != nil {
		return err
	}
	defer win.Close()

	dev := render.NewGLDevice(logger)
	renderer := render.NewRenderer(dev, cfg.Window.ClearRGBA(), logger)

	return animation.Session(ctx, win, renderer, vol, animation.NewDriver(nil))
}

// export writes the optional preview projection and slice sequences.
func export(cfg *config.Config, vol models.Volume, logger *slog.Logger) error {
	if cfg.Output.PreviewPath == "" && cfg.Output.SlicesDir == "" {
		return nil
	}

	viewer, err := visualization.NewViewer(vol)
	if err != nil {
		return err
	}

	if cfg.Output.PreviewPath != "" {
		mip, err := viewer.MaxProjection("z")
		if err != nil {
			return err
		}
		if err := visualization.SaveImage(mip, cfg.Output.PreviewPath); err != nil {
			return fmt.Errorf("save preview: %w", err)
		}
		logger.Info("saved axial projection", "path", cfg.Output.PreviewPath)
	}

	if cfg.Output.SlicesDir != "" {
		for _, axis := range []string{"x", "y", "z"} {
			axisDir := filepath.Join(cfg.Output.SlicesDir, axis)
			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				logger.Warn("failed to save slices", "axis", axis, "err", err)
				continue
			}
			logger.Info("saved slices", "axis", axis, "dir", axisDir)
		}
	}

	return nil
}
