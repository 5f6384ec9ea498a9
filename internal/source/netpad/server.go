// Package netpad receives controller snapshots over TCP from remote feeders
// and exposes each feeder as a source.Controller.
package netpad

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/Alia5/padscope/internal/auth"
	plog "github.com/Alia5/padscope/internal/log"
	"github.com/Alia5/padscope/internal/source"
	"github.com/Alia5/padscope/pad"
)

// ErrDisconnected is reported through OnError when an active feeder goes away.
var ErrDisconnected = errors.New("controller disconnected")

// Credentials authenticate a feed. An empty Password skips the handshake.
type Credentials struct {
	Password string   `help:"Shared netpad password; empty means unauthenticated" env:"PADSCOPE_NETPAD_PASSWORD"`
	KDF      auth.KDF `embed:"" prefix:"kdf."`
}

func (c Credentials) key() ([]byte, error) {
	if c.Password == "" {
		return nil, nil
	}
	key, err := c.KDF.Key(c.Password)
	if err != nil {
		return nil, fmt.Errorf("netpad key: %w", err)
	}
	return key, nil
}

// ServerConfig configures the listener.
type ServerConfig struct {
	Addr        string `help:"Address to accept feeders on" default:":3250" env:"PADSCOPE_NETPAD_ADDR"`
	Credentials `embed:""`
}

// Server accepts feeders. It implements source.Driver.
type Server struct {
	config ServerConfig
	key    []byte
	logger *slog.Logger
	raw    plog.RawLogger

	ln net.Listener

	mu    sync.Mutex
	feeds []*feed
	conns map[net.Conn]struct{}
}

// Listen binds the listener. Call Serve to start accepting.
func Listen(cfg ServerConfig, logger *slog.Logger, raw plog.RawLogger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = plog.NewRaw(nil)
	}
	s := &Server{
		config: cfg,
		logger: logger.With("driver", "netpad"),
		raw:    raw,
		conns:  make(map[net.Conn]struct{}),
	}
	key, err := cfg.key()
	if err != nil {
		return nil, err
	}
	s.key = key
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("netpad listen: %w", err)
	}
	s.ln = ln
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve accepts feeders until ctx is done or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("listening for feeders", "addr", s.ln.Addr().String(), "auth", s.key != nil)
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				_ = s.Close()
				return nil
			}
			return fmt.Errorf("netpad accept: %w", err)
		}
		if !s.track(conn) {
			_ = conn.Close()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *Server) handle(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	logger := s.logger.With("remote", remote)
	defer s.untrack(conn)

	r := bufio.NewReader(conn)
	var stream io.Reader = r
	isAuth, err := auth.IsHandshake(r)
	if err != nil {
		logger.Debug("feeder left before first frame", "error", err)
		return
	}
	switch {
	case s.key != nil && !isAuth:
		logger.Warn("rejecting unauthenticated feeder")
		_, _ = io.WriteString(conn, "ERR\x00authentication required\n")
		return
	case s.key == nil && isAuth:
		logger.Warn("rejecting authenticated feeder, no password configured")
		_, _ = io.WriteString(conn, "ERR\x00authentication not configured\n")
		return
	case isAuth:
		clientNonce, serverNonce, err := auth.ServerHandshake(r, conn, s.key)
		if err != nil {
			logger.Warn("handshake failed", "error", err)
			return
		}
		secured, err := auth.WrapConn(&bufferedConn{Conn: conn, r: r}, auth.SessionKey(s.key, serverNonce, clientNonce))
		if err != nil {
			logger.Error("wrap conn", "error", err)
			return
		}
		stream = secured
	}

	f := &feed{id: remote, name: "Remote controller (" + remote + ")"}
	s.add(f)
	defer s.remove(f)
	logger.Info("feeder connected")

	buf := make([]byte, pad.InputStateSize)
	for {
		if _, err := io.ReadFull(stream, buf); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logger.Warn("feeder read failed", "error", err)
			}
			logger.Info("feeder disconnected")
			f.lost()
			return
		}
		s.raw.Frame(remote, true, buf)

		var next pad.InputState
		if err := next.UnmarshalBinary(buf); err != nil {
			logger.Warn("bad frame", "error", err)
			continue
		}
		logger.Log(context.Background(), plog.LevelTrace, "frame", "state", next)
		f.update(next)
	}
}

func (s *Server) add(f *feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds = append(s.feeds, f)
}

func (s *Server) remove(f *feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.feeds {
		if o == f {
			s.feeds = append(s.feeds[:i], s.feeds[i+1:]...)
			return
		}
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	if s.conns != nil {
		delete(s.conns, conn)
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// Name implements source.Driver.
func (s *Server) Name() string { return "netpad" }

// Enumerate implements source.Driver. Feeders already bound to a controller
// are not listed.
func (s *Server) Enumerate() ([]source.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []source.Candidate
	for _, f := range s.feeds {
		if c, ok := f.candidate(); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Open implements source.Driver.
func (s *Server) Open(c source.Candidate) (source.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feeds {
		if f.id == c.ID {
			return f.bind()
		}
	}
	return nil, fmt.Errorf("%w: %s", source.ErrNoDevice, c.ID)
}

// Close implements source.Driver. It stops accepting and drops every
// feeder; active controllers report ErrDisconnected.
func (s *Server) Close() error {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()
	for c := range conns {
		_ = c.Close()
	}

	err := s.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// bufferedConn reads through the bufio.Reader that already holds handshake
// lookahead.
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) { return c.r.Read(p) }
