package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Alia5/padscope/assets"
	"github.com/Alia5/padscope/internal/auth"
	"github.com/Alia5/padscope/internal/canvas"
	"github.com/Alia5/padscope/internal/configpaths"
	"github.com/Alia5/padscope/internal/dispatch"
	"github.com/Alia5/padscope/internal/event"
	"github.com/Alia5/padscope/internal/log"
	"github.com/Alia5/padscope/internal/monitor"
	"github.com/Alia5/padscope/internal/source"
	"github.com/Alia5/padscope/internal/source/netpad"
	"github.com/Alia5/padscope/internal/source/sdlpad"
	"github.com/Alia5/padscope/internal/view"
)

const keyFileName = "padscope.key.txt"

// Source selects where controller input comes from.
type Source struct {
	Driver   string              `help:"Controller source" enum:"sdl,netpad" default:"sdl" env:"PADSCOPE_SOURCE"`
	Discover time.Duration       `help:"Controller discovery interval" default:"1s" env:"PADSCOPE_DISCOVER_INTERVAL"`
	Poll     time.Duration       `help:"SDL gamepad sampling interval" default:"4ms" env:"PADSCOPE_SDL_POLL"`
	InvertY  bool                `help:"Flip stick Y values" env:"PADSCOPE_INVERT_Y"`
	NoAuth   bool                `help:"Accept netpad feeders without a password" env:"PADSCOPE_NETPAD_NO_AUTH"`
	Netpad   netpad.ServerConfig `embed:"" prefix:"netpad."`
}

// Appearance tunes the reference image and the indicators drawn over it.
type Appearance struct {
	Asset       string  `help:"Reference controller image (PNG or JPEG); built-in when empty" env:"PADSCOPE_ASSET"`
	MarkerColor string  `help:"Pressed button marker colour" default:"red" env:"PADSCOPE_MARKER_COLOR"`
	ArrowColor  string  `help:"Stick vector colour" default:"red" env:"PADSCOPE_ARROW_COLOR"`
	Background  string  `help:"Canvas background colour" default:"white" env:"PADSCOPE_BACKGROUND"`
	DeadZone    float64 `help:"Stick magnitude at or below which no vector is drawn" default:"0.1" env:"PADSCOPE_DEAD_ZONE"`
	Epsilon     float64 `help:"Stick change below which the vector is not redrawn" default:"0.01" env:"PADSCOPE_EPSILON"`
	MinWidth    int     `help:"Minimum scaled image width" default:"800" env:"PADSCOPE_MIN_WIDTH"`
	MinHeight   int     `help:"Minimum scaled image height" default:"500" env:"PADSCOPE_MIN_HEIGHT"`
}

func (a Appearance) viewConfig() (view.Config, error) {
	cfg := view.DefaultConfig()
	var err error
	if cfg.MarkerColor, err = canvas.ParseColor(a.MarkerColor); err != nil {
		return cfg, fmt.Errorf("%w: marker colour: %v", view.ErrConfiguration, err)
	}
	if cfg.ArrowColor, err = canvas.ParseColor(a.ArrowColor); err != nil {
		return cfg, fmt.Errorf("%w: arrow colour: %v", view.ErrConfiguration, err)
	}
	if a.DeadZone < 0 || a.DeadZone >= 1 {
		return cfg, fmt.Errorf("%w: dead zone %v outside [0, 1)", view.ErrConfiguration, a.DeadZone)
	}
	if a.Epsilon < 0 {
		return cfg, fmt.Errorf("%w: negative epsilon", view.ErrConfiguration)
	}
	if a.MinWidth < 2 || a.MinHeight < 2 {
		return cfg, fmt.Errorf("%w: minimum size %dx%d", view.ErrConfiguration, a.MinWidth, a.MinHeight)
	}
	cfg.DeadZone, cfg.Epsilon = a.DeadZone, a.Epsilon
	cfg.MinWidth, cfg.MinHeight = a.MinWidth, a.MinHeight
	return cfg, nil
}

func (a Appearance) reference() (image.Image, error) {
	if a.Asset == "" {
		return view.LoadReference(bytes.NewReader(assets.Controller))
	}
	return view.LoadReferenceFile(a.Asset)
}

// pipeline is the wired core: queue, view, canvas, loop and the producer side.
type pipeline struct {
	queue   *event.Queue
	view    *view.View
	canvas  *canvas.Canvas
	loop    *dispatch.Loop
	monitor *monitor.Monitor
	driver  source.Driver
	server  *netpad.Server
	logger  *slog.Logger
}

func newPipeline(src Source, app Appearance, logger *slog.Logger, raw log.RawLogger) (*pipeline, error) {
	cfg, err := app.viewConfig()
	if err != nil {
		return nil, err
	}
	bg, err := canvas.ParseColor(app.Background)
	if err != nil {
		return nil, fmt.Errorf("%w: background colour: %v", view.ErrConfiguration, err)
	}
	ref, err := app.reference()
	if err != nil {
		return nil, err
	}
	logger.Debug("reference image loaded", "size", ref.Bounds().Size(), "asset", app.Asset)

	p := &pipeline{
		queue:  event.NewQueue(),
		canvas: canvas.New(0, 0, bg),
		logger: logger,
	}
	p.view = view.New(view.NewStore(ref, cfg.MinWidth, cfg.MinHeight), p.canvas, cfg, logger.With("component", "view"))
	p.canvas.OnResize(func(w, h int) {
		if err := p.view.Resize(w, h); err != nil {
			logger.Warn("resize not applied", "width", w, "height", h, "error", err)
		}
	})
	p.loop = dispatch.New(p.queue, p.view, logger.With("component", "dispatch"))

	switch src.Driver {
	case "netpad":
		if err := src.resolvePassword(logger); err != nil {
			return nil, err
		}
		srv, err := netpad.Listen(src.Netpad, logger, raw)
		if err != nil {
			return nil, err
		}
		p.server, p.driver = srv, srv
	default:
		p.driver = sdlpad.New(logger, src.Poll)
	}
	p.monitor = monitor.New(p.driver, p.queue, logger,
		monitor.WithInterval(src.Discover),
		monitor.WithInvertY(src.InvertY))
	return p, nil
}

// start launches the producers. They stop when ctx is done.
func (p *pipeline) start(ctx context.Context) {
	if p.server != nil {
		go func() {
			if err := p.server.Serve(ctx); err != nil {
				p.logger.Error("netpad server stopped", "error", err)
				p.queue.Enqueue(event.ErrorEvent(err.Error()))
			}
		}()
	}
	go func() { _ = p.monitor.Run(ctx) }()
}

func (p *pipeline) close() {
	p.monitor.Close()
	if err := p.driver.Close(); err != nil {
		p.logger.Warn("driver close", "error", err)
	}
}

// resolvePassword fills in the netpad password from the key file, creating
// one on first use, unless authentication is disabled.
func (s *Source) resolvePassword(logger *slog.Logger) error {
	if s.NoAuth || s.Netpad.Password != "" {
		return nil
	}
	pwd, created, err := loadOrCreateKey()
	if err != nil {
		return err
	}
	s.Netpad.Password = pwd
	if created {
		logger.Info("-------------------------------------")
		logger.Info("Your netpad feed password is:")
		logger.Info(pwd)
		logger.Info("-------------------------------------")
		logger.Info("Pass it to 'padscope feed --password' on the sending machine")
	}
	return nil
}

func keyFilePath() (string, error) {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve key file path: %w", err)
	}
	return filepath.Join(dir, keyFileName), nil
}

func loadOrCreateKey() (pwd string, created bool, err error) {
	path, err := keyFilePath()
	if err != nil {
		return "", false, err
	}
	if data, err := os.ReadFile(path); err == nil {
		if pwd := strings.TrimSpace(string(data)); pwd != "" {
			return pwd, false, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("read key file: %w", err)
	}

	pwd = auth.NewPassword()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", false, fmt.Errorf("create config dir for key file: %w", err)
	}
	if err := os.WriteFile(path, []byte(pwd), 0o600); err != nil {
		return "", false, fmt.Errorf("write key file: %w", err)
	}
	return pwd, true, nil
}
