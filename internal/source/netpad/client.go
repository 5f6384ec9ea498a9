package netpad

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/Alia5/padscope/internal/auth"
	plog "github.com/Alia5/padscope/internal/log"
	"github.com/Alia5/padscope/pad"
)

// Client streams snapshots to a netpad server.
type Client struct {
	conn   net.Conn
	remote string
	raw    plog.RawLogger
	logger *slog.Logger

	mu sync.Mutex
}

// Dial connects to addr. A non-empty creds.Password runs the auth handshake and
// encrypts the stream.
func Dial(ctx context.Context, addr string, creds Credentials, logger *slog.Logger, raw plog.RawLogger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = plog.NewRaw(nil)
	}

	key, err := creds.key()
	if err != nil {
		return nil, err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if key != nil {
		r := bufio.NewReader(conn)
		clientNonce, serverNonce, err := auth.ClientHandshake(r, conn, key)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		secured, err := auth.WrapConn(&bufferedConn{Conn: conn, r: r}, auth.SessionKey(key, serverNonce, clientNonce))
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		conn = secured
	}

	logger.Info("connected to netpad server", "addr", addr, "auth", key != nil)
	return &Client{conn: conn, remote: addr, raw: raw, logger: logger}, nil
}

// Send writes one snapshot frame.
func (c *Client) Send(s pad.InputState) error {
	b, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw.Frame(c.remote, false, b)
	if _, err := c.conn.Write(b); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
