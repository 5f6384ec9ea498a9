package cmd

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/padscope/internal/configpaths"
	"github.com/Alia5/padscope/internal/dispatch"
	"github.com/Alia5/padscope/internal/log"
	"github.com/Alia5/padscope/internal/termview"
)

// Watch runs headless and prints the status line to the terminal.
type Watch struct {
	Source     Source        `embed:"" prefix:"source."`
	Appearance Appearance    `embed:"" prefix:"view."`
	Width      int           `help:"Canvas width" default:"1200" env:"PADSCOPE_WIDTH"`
	Height     int           `help:"Canvas height" default:"900" env:"PADSCOPE_HEIGHT"`
	Duration   time.Duration `help:"Stop after this long; 0 runs until interrupted" default:"0s"`
	Snapshot   string        `help:"Write the final frame as PNG to this path"`
	NoColor    bool          `help:"Disable coloured output" env:"NO_COLOR"`
}

// Run is called by Kong when the watch command is executed.
func (w *Watch) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if w.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Duration)
		defer cancel()
	}

	p, err := newPipeline(w.Source, w.Appearance, logger, rawLogger)
	if err != nil {
		return err
	}
	defer p.close()

	p.canvas.Resize(w.Width, w.Height)
	status := termview.New(os.Stdout, !w.NoColor)
	_ = status.Render(p.view.Indicators)

	p.start(ctx)
	runErr := p.loop.Run(ctx, func(int) {
		if err := status.Render(p.view.Indicators); err != nil {
			logger.Debug("status line", "error", err)
		}
	})
	_ = status.Close()

	if w.Snapshot != "" {
		if err := w.writeSnapshot(p); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", w.Snapshot)
	}
	if errors.Is(runErr, dispatch.ErrHalted) {
		return runErr
	}
	return nil
}

func (w *Watch) writeSnapshot(p *pipeline) error {
	if err := configpaths.EnsureDir(w.Snapshot); err != nil {
		return err
	}
	f, err := os.Create(w.Snapshot)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, p.canvas.Snapshot()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}
