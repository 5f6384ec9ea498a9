package auth_test

import (
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/Alia5/padscope/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionPair(t *testing.T, clientKey, serverKey []byte) (client, server net.Conn) {
	t.Helper()
	c, s := net.Pipe()
	t.Cleanup(func() {
		_ = c.Close()
		_ = s.Close()
	})
	client, err := auth.WrapConn(c, clientKey)
	require.NoError(t, err)
	server, err = auth.WrapConn(s, serverKey)
	require.NoError(t, err)
	return client, server
}

func TestConnRoundTrip(t *testing.T) {
	key, err := auth.DeriveKey("test123")
	require.NoError(t, err)
	client, server := sessionPair(t, key, key)

	msgs := [][]byte{[]byte("Hello, World!"), make([]byte, 16), []byte("x")}
	go func() {
		for _, m := range msgs {
			_, _ = client.Write(m)
		}
	}()

	for _, m := range msgs {
		buf := make([]byte, len(m))
		_, err := io.ReadFull(server, buf)
		require.NoError(t, err)
		assert.Equal(t, m, buf)
	}
}

func TestConnDifferingKeys(t *testing.T) {
	key, err := auth.DeriveKey("test123")
	require.NoError(t, err)
	key2, err := auth.DeriveKey("123test")
	require.NoError(t, err)
	client, server := sessionPair(t, key, key2)

	go func() { _, _ = client.Write([]byte("x")) }()
	_, err = server.Read(make([]byte, 1))
	assert.ErrorContains(t, err, "message authentication failed")
}

func TestConnBadKeyLength(t *testing.T) {
	c, s := net.Pipe()
	defer c.Close()
	defer s.Close()
	_, err := auth.WrapConn(c, []byte{1, 2, 3})
	assert.ErrorContains(t, err, "bad key length")
}

func TestConnRejectsReplay(t *testing.T) {
	key, err := auth.DeriveKey("test123")
	require.NoError(t, err)

	c, s := net.Pipe()
	defer c.Close()
	defer s.Close()
	server, err := auth.WrapConn(s, key)
	require.NoError(t, err)

	// capture one sealed record from a sender and deliver it twice
	rc, rs := net.Pipe()
	defer rc.Close()
	defer rs.Close()
	sender, err := auth.WrapConn(rc, key)
	require.NoError(t, err)
	go func() { _, _ = sender.Write([]byte("frame")) }()

	var hdr [4]byte
	_, err = io.ReadFull(rs, hdr[:])
	require.NoError(t, err)
	body := make([]byte, binary.BigEndian.Uint32(hdr[:]))
	_, err = io.ReadFull(rs, body)
	require.NoError(t, err)
	record := append(hdr[:], body...)

	go func() {
		_, _ = c.Write(record)
		_, _ = c.Write(record)
	}()

	buf := make([]byte, 5)
	_, err = io.ReadFull(server, buf)
	require.NoError(t, err)
	assert.Equal(t, "frame", string(buf))

	_, err = server.Read(buf)
	assert.ErrorIs(t, err, auth.ErrReplay)
}

func TestConnClosedPeer(t *testing.T) {
	key, err := auth.DeriveKey("test123")
	require.NoError(t, err)
	client, server := sessionPair(t, key, key)

	require.NoError(t, client.Close())
	_, err = server.Read(make([]byte, 1))
	assert.Error(t, err)
}
