// shenandoah - brute-force CPU ray caster
// Casts one ray per pixel from a pinhole camera through a triangle scene and
// writes the colored frame as text or PNG.
//
// Usage:
//
//	shenandoah [options]
//
// Without -config, ./shenandoah.yaml is used when present, otherwise the
// built-in demo quad is rendered to test.txt.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/shenandoah/internal/animate"
	"github.com/taigrr/shenandoah/internal/config"
	"github.com/taigrr/shenandoah/internal/logger"
	"github.com/taigrr/shenandoah/internal/scene"
	"github.com/taigrr/shenandoah/pkg/render"
)

func main() {
	flags := config.BindFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "shenandoah - brute-force CPU ray caster\n\n")
		fmt.Fprintf(os.Stderr, "Usage: shenandoah [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPreview keys:\n")
		fmt.Fprintf(os.Stderr, "  Esc/q       - Quit\n")
	}
	flag.Parse()

	if err := run(flags); err != nil {
		logger.Error("render failed", zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *config.Flags) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	if err := initLogging(cfg); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	sc, err := scene.Build(cfg, logger.Log)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var pv *preview
	if cfg.Output.Preview {
		pv, err = startPreview()
		if err != nil {
			return err
		}
		defer pv.close()
	}

	frame := render.NewFrameFor(sc.Camera)
	frames := max(cfg.Animation.Frames, 1)
	fps := max(int(math.Round(cfg.Animation.FPS)), 1)
	turntable := animate.NewTurntable(fps, cfg.Animation.Spin.V3())

	for i := range frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("render interrupted at frame %d: %w", i, err)
		}
		if frames > 1 {
			turntable.Apply(sc.Meshes)
		}

		stats, err := sc.Render(frame)
		if err != nil {
			return fmt.Errorf("render frame %d: %w", i, err)
		}
		logger.Info("frame rendered",
			zap.Int("frame", i),
			zap.Int("pixels", stats.Pixels),
			zap.Int("hits", stats.Hits),
			zap.Int("tests", stats.Tests),
			zap.Int("threads", stats.Threads),
			zap.Duration("setup", stats.Setup),
			zap.Duration("elapsed", stats.Duration),
		)

		if cfg.Output.Path != "" {
			path := framePath(cfg.Output.Path, i, frames)
			if err := writeFrame(frame, path, cfg.Output.Format); err != nil {
				return fmt.Errorf("write frame %d: %w", i, err)
			}
			logger.Debug("frame written", zap.String("path", path))
		}

		if pv != nil {
			if err := pv.show(frame); err != nil {
				return err
			}
		}
	}

	if pv != nil {
		pv.wait(ctx, frame)
	}
	return nil
}

// initLogging keeps the console quiet while the preview owns the terminal.
func initLogging(cfg *config.Config) error {
	if !cfg.Output.Preview {
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	}
	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	return logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, nil)
}

// framePath numbers animation frames: out.png becomes out_0003.png. A
// single frame keeps the configured path.
func framePath(path string, frame, frames int) string {
	if frames <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(path, ext), frame, ext)
}

func writeFrame(f *render.Frame, path, format string) error {
	switch format {
	case "png":
		return f.SavePNG(path)
	case "text", "":
		return f.SaveText(path)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// preview draws frames into the terminal's alternate screen.
type preview struct {
	term *uv.Terminal
}

func startPreview() (*preview, error) {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	return &preview{term: term}, nil
}

func (p *preview) show(f *render.Frame) error {
	f.Draw(p.term, p.term.Bounds())
	if err := p.term.Display(); err != nil {
		return fmt.Errorf("display preview: %w", err)
	}
	return nil
}

// wait keeps the last frame on screen until the user quits.
func (p *preview) wait(ctx context.Context, f *render.Frame) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-p.term.Events():
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				p.term.Erase()
				p.term.Resize(ev.Width, ev.Height)
				if err := p.show(f); err != nil {
					logger.Warn("redraw preview", zap.Error(err))
				}
			case uv.KeyPressEvent:
				if ev.MatchString("escape", "q", "ctrl+c") {
					return
				}
			}
		}
	}
}

func (p *preview) close() {
	p.term.ExitAltScreen()
	p.term.ShowCursor()
	p.term.Shutdown(context.Background())
}
