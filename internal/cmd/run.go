package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/padscope/internal/log"
	"github.com/Alia5/padscope/internal/util"
	"github.com/Alia5/padscope/internal/window"
)

// Run opens the visualizer window.
type Run struct {
	Source     Source     `embed:"" prefix:"source."`
	Appearance Appearance `embed:"" prefix:"view."`
	Width      int        `help:"Initial canvas width" default:"1200" env:"PADSCOPE_WIDTH"`
	Height     int        `help:"Initial canvas height" default:"900" env:"PADSCOPE_HEIGHT"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := newPipeline(r.Source, r.Appearance, logger, rawLogger)
	if err != nil {
		return err
	}
	defer p.close()

	w, err := window.New(ctx, p.loop, p.view, p.canvas, logger.With("component", "window"))
	if err != nil {
		return err
	}
	p.start(ctx)

	util.DetachConsole(250 * time.Millisecond)

	logger.Info("starting padscope", "source", r.Source.Driver)
	return w.Run(window.Options{
		Title:     "padscope",
		Width:     r.Width,
		Height:    r.Height,
		MinWidth:  r.Appearance.MinWidth,
		MinHeight: r.Appearance.MinHeight,
	})
}
