// Package authcookie signs and verifies opaque session cookie values.
//
// A value has the form subject|expiration|token|mac where the expiration is
// a unix timestamp, the token is a random nonce and the mac is a hex encoded
// HMAC-SHA256 over the first three fields. The MAC key is derived from the
// shared secret and the scheme, so a value signed for one scheme never
// verifies for another.
package authcookie

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	SchemeAuth     = "auth"
	SchemeLoggedIn = "logged_in"

	// MinSecretLength is the minimum length of the shared secret in bytes.
	MinSecretLength = 32

	tokenLength = 32
	separator   = "|"
)

var (
	ErrSecretTooShort   = errors.New("cookie secret must be at least 32 bytes")
	ErrInvalidSubject   = errors.New("invalid cookie subject")
	ErrInvalidScheme    = errors.New("invalid cookie scheme")
	ErrExpirationInPast = errors.New("cookie expiration is not in the future")
)

type Signer struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Signer)

// WithClock replaces the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

func NewSigner(secret []byte, opts ...Option) (*Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}

	s := &Signer{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Sign returns a cookie value binding subjectID to the scheme until expiration.
func (s *Signer) Sign(subjectID, scheme string, expiration time.Time) (string, error) {
	if subjectID == "" || strings.Contains(subjectID, separator) {
		return "", ErrInvalidSubject
	}
	if scheme == "" {
		return "", ErrInvalidScheme
	}
	if !expiration.After(s.now()) {
		return "", ErrExpirationInPast
	}

	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	exp := strconv.FormatInt(expiration.Unix(), 10)

	mac := s.mac(scheme, subjectID, exp, token)

	return strings.Join([]string{subjectID, exp, token, hex.EncodeToString(mac)}, separator), nil
}

// Verify reports whether value was signed for scheme and has not expired.
func (s *Signer) Verify(value, scheme string) bool {
	parts := strings.Split(value, separator)
	if len(parts) != 4 || scheme == "" {
		return false
	}
	subjectID, exp, token, macHex := parts[0], parts[1], parts[2], parts[3]
	if subjectID == "" || token == "" {
		return false
	}

	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return false
	}
	if !time.Unix(expUnix, 0).After(s.now()) {
		return false
	}

	received, err := hex.DecodeString(macHex)
	if err != nil {
		return false
	}

	return hmac.Equal(received, s.mac(scheme, subjectID, exp, token))
}

func (s *Signer) mac(scheme, subjectID, exp, token string) []byte {
	keyMAC := hmac.New(sha256.New, s.secret)
	keyMAC.Write([]byte(scheme))
	key := keyMAC.Sum(nil)

	h := hmac.New(sha256.New, key)
	h.Write([]byte(subjectID + separator + exp + separator + token))
	return h.Sum(nil)
}

// Names are the deterministic cookie names of one deployment.
type Names struct {
	Auth     string
	LoggedIn string
}

// NamesFor derives the cookie names from the prefix and installation hash.
func NamesFor(prefix, hash string) Names {
	return Names{
		Auth:     prefix + "_" + hash,
		LoggedIn: prefix + "_logged_in_" + hash,
	}
}
