package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// maxRecord bounds one sealed record. Feed records are tiny.
const maxRecord = 64 * 1024

// ErrReplay is returned when a record's counter does not advance.
var ErrReplay = errors.New("auth: record counter did not advance")

// Conn seals every Write into one record: a 4 byte big-endian length, a
// 12 byte nonce carrying a send counter, then the ciphertext.
type Conn struct {
	net.Conn
	aead cipher.AEAD

	wmu     sync.Mutex
	sendCtr uint64

	rmu     sync.Mutex
	recvBuf bytes.Buffer
	recvCtr uint64
	started bool
}

// WrapConn secures conn with a 32 byte session key.
func WrapConn(conn net.Conn, sessionKey []byte) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn, aead: aead}, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if len(p)+c.aead.NonceSize()+c.aead.Overhead() > maxRecord {
		return 0, fmt.Errorf("auth: record of %d bytes too large", len(p))
	}

	rec := make([]byte, 4+c.aead.NonceSize(), 4+c.aead.NonceSize()+len(p)+c.aead.Overhead())
	nonce := rec[4:]
	binary.BigEndian.PutUint64(nonce[4:], c.sendCtr)
	c.sendCtr++

	rec = c.aead.Seal(rec, nonce, p, nil)
	binary.BigEndian.PutUint32(rec[:4], uint32(len(rec)-4))

	if _, err := c.Conn.Write(rec); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Conn) Read(p []byte) (int, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()

	for c.recvBuf.Len() == 0 {
		if err := c.readRecord(); err != nil {
			return 0, err
		}
	}
	return c.recvBuf.Read(p)
}

func (c *Conn) readRecord() error {
	var hdr [4]byte
	if _, err := io.ReadFull(c.Conn, hdr[:]); err != nil {
		return err
	}
	length := binary.BigEndian.Uint32(hdr[:])
	if length > maxRecord || int(length) < c.aead.NonceSize()+c.aead.Overhead() {
		return io.ErrUnexpectedEOF
	}

	rec := make([]byte, length)
	if _, err := io.ReadFull(c.Conn, rec); err != nil {
		return err
	}
	nonce, ct := rec[:c.aead.NonceSize()], rec[c.aead.NonceSize():]

	ctr := binary.BigEndian.Uint64(nonce[4:])
	if c.started && ctr <= c.recvCtr {
		return ErrReplay
	}

	pt, err := c.aead.Open(ct[:0], nonce, ct, nil)
	if err != nil {
		return err
	}
	c.started = true
	c.recvCtr = ctr
	c.recvBuf.Write(pt)
	return nil
}
