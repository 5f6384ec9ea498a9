// Package auth secures the netpad feed: a shared key, an HMAC handshake and a
// chacha20poly1305 framed connection.
package auth

import (
	"crypto/hmac"
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	DefaultSalt       = "padscope-feed-key-v1"
	DefaultIterations = 100_000
	// MinIterations rejects configurations that make the key cheap to guess.
	MinIterations = 1_000

	sessionLabel = "padscope-session-v1"
)

var (
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrWeakKDF       = errors.New("kdf iterations too low")
)

// KDF stretches a feed password into a key. The listener and every feeder
// must use the same parameters. Zero fields take the defaults.
type KDF struct {
	Salt       string `help:"Salt mixed into the feed key; must match on both ends" default:"padscope-feed-key-v1" env:"PADSCOPE_NETPAD_KDF_SALT"`
	Iterations int    `help:"PBKDF2 rounds for the feed key; must match on both ends" default:"100000" env:"PADSCOPE_NETPAD_KDF_ITERATIONS"`
}

func (k KDF) resolved() KDF {
	if k.Salt == "" {
		k.Salt = DefaultSalt
	}
	if k.Iterations == 0 {
		k.Iterations = DefaultIterations
	}
	return k
}

// Key derives the feed key. Surrounding whitespace in password is ignored, so
// a key file with a trailing newline matches the same password given as a flag.
func (k KDF) Key(password string) ([]byte, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return nil, ErrEmptyPassword
	}
	k = k.resolved()
	if k.Iterations < MinIterations {
		return nil, fmt.Errorf("%w: %d < %d", ErrWeakKDF, k.Iterations, MinIterations)
	}
	return pbkdf2.Key(sha256.New, password, []byte(k.Salt), k.Iterations, chacha20poly1305.KeySize)
}

// DeriveKey derives the feed key with default parameters.
func DeriveKey(password string) ([]byte, error) {
	return KDF{}.Key(password)
}

// NewPassword returns a random password for a freshly created key file.
func NewPassword() string {
	return rand.Text()
}

// SessionKey binds the feed key to one connection's handshake nonces.
func SessionKey(key, serverNonce, clientNonce []byte) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(sessionLabel))
	_, _ = mac.Write(serverNonce)
	_, _ = mac.Write(clientNonce)
	return mac.Sum(nil)
}
