package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/padscope/internal/log"
	"github.com/Alia5/padscope/internal/source/netpad"
	"github.com/Alia5/padscope/internal/source/sdlpad"
	"github.com/Alia5/padscope/pad"
)

// Feed streams a local gamepad to a remote padscope.
type Feed struct {
	Addr        string             `arg:"" help:"netpad listener address (host:port)"`
	Credentials netpad.Credentials `embed:""`
	Poll        time.Duration      `help:"Gamepad sampling interval" default:"4ms" env:"PADSCOPE_SDL_POLL"`
	Heartbeat   time.Duration      `help:"Resend an unchanged state this often" default:"1s"`
	Discover    time.Duration      `help:"Gamepad discovery interval" default:"1s"`
	Connection  string             `help:"Connection type to report" enum:"unknown,usb,bluetooth" default:"unknown"`
}

// Run is called by Kong when the feed command is executed.
func (f *Feed) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drv := sdlpad.New(logger, f.Poll)
	defer drv.Close()

	ctrl, err := f.waitGamepad(ctx, drv, logger)
	if err != nil || ctrl == nil {
		return err
	}
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	ctrl.Callbacks().OnError(func(err error) { cancel(err) })
	if err := ctrl.Activate(); err != nil {
		return err
	}
	defer ctrl.Deactivate()

	client, err := netpad.Dial(ctx, f.Addr, f.Credentials, logger, rawLogger)
	if err != nil {
		return err
	}
	defer client.Close()

	conn := pad.ParseConnection(f.Connection)
	ticker := time.NewTicker(f.Poll)
	defer ticker.Stop()

	var last pad.InputState
	var lastSent time.Time
	for {
		select {
		case <-ctx.Done():
			if cause := context.Cause(ctx); cause != ctx.Err() {
				return cause
			}
			return nil
		case now := <-ticker.C:
			st := ctrl.State()
			st.Connection = conn
			if !lastSent.IsZero() && st == last && now.Sub(lastSent) < f.Heartbeat {
				continue
			}
			if err := client.Send(st); err != nil {
				return err
			}
			last, lastSent = st, now
		}
	}
}

func (f *Feed) waitGamepad(ctx context.Context, drv *sdlpad.Driver, logger *slog.Logger) (*sdlpad.Controller, error) {
	ticker := time.NewTicker(f.Discover)
	defer ticker.Stop()
	warned := false
	for {
		cands, err := drv.Enumerate()
		if err != nil {
			return nil, err
		}
		if len(cands) > 0 {
			ctrl, err := drv.OpenGamepad(cands[0])
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", cands[0].Name, err)
			}
			logger.Info("streaming gamepad", "name", cands[0].Name, "to", f.Addr)
			return ctrl, nil
		}
		if !warned {
			logger.Info("waiting for a gamepad")
			warned = true
		}
		select {
		case <-ctx.Done():
			return nil, nil
		case <-ticker.C:
		}
	}
}
