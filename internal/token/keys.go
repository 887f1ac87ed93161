package token

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-jose/go-jose/v4"
	"github.com/openkcm/common-sdk/pkg/commoncfg"

	"github.com/gordonnow/session-issuer/internal/config"
)

var (
	ErrMissingKeyMaterial   = errors.New("private key and audience must be configured")
	ErrUnsupportedAlgorithm = errors.New("unsupported signature algorithm")
	ErrKeyMismatch          = errors.New("key does not match the signature algorithm")
)

// asymmetric lists the algorithms the issuer accepts. The public key is
// handed out to relying parties, so symmetric schemes are never allowed.
var asymmetric = map[jose.SignatureAlgorithm]bool{
	jose.RS256: true,
	jose.RS384: true,
	jose.RS512: true,
	jose.PS256: true,
	jose.ES256: true,
	jose.EdDSA: true,
}

// KeyMaterial is the process wide signing configuration.
type KeyMaterial struct {
	Algorithm  jose.SignatureAlgorithm
	KeyID      string
	PrivateKey crypto.Signer
	PublicKey  crypto.PublicKey
	Audience   string
}

// LoadKeyMaterial resolves the key material from the issuer configuration.
// It returns ErrMissingKeyMaterial if the private key or the audience is
// unset, blank, or refers to an environment variable that is not set.
func LoadKeyMaterial(cfg config.Issuer) (KeyMaterial, error) {
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		return KeyMaterial{}, fmt.Errorf("%w: audience is empty", ErrMissingKeyMaterial)
	}

	privPEM, err := loadOptional(cfg.PrivateKey)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("loading private key: %w", err)
	}
	if privPEM == nil {
		return KeyMaterial{}, fmt.Errorf("%w: private key is empty", ErrMissingKeyMaterial)
	}

	alg := jose.SignatureAlgorithm(cfg.Algorithm)
	if alg == "" {
		alg = jose.RS256
	}
	if !asymmetric[alg] {
		return KeyMaterial{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}

	priv, err := ParsePrivateKey(privPEM)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("parsing private key: %w", err)
	}

	if err := checkKeyType(alg, priv.Public()); err != nil {
		return KeyMaterial{}, err
	}

	pub := priv.Public()
	pubPEM, err := loadOptional(cfg.PublicKey)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("loading public key: %w", err)
	}
	if pubPEM != nil {
		configured, err := ParsePublicKey(pubPEM)
		if err != nil {
			return KeyMaterial{}, fmt.Errorf("parsing public key: %w", err)
		}

		if !publicKeysEqual(pub, configured) {
			return KeyMaterial{}, errors.New("public key does not belong to the private key")
		}
	}

	keyID := cfg.KeyID
	if keyID == "" {
		keyID, err = thumbprint(pub)
		if err != nil {
			return KeyMaterial{}, fmt.Errorf("computing key id: %w", err)
		}
	}

	return KeyMaterial{
		Algorithm:  alg,
		KeyID:      keyID,
		PrivateKey: priv,
		PublicKey:  pub,
		Audience:   audience,
	}, nil
}

// ParsePrivateKey parses a PEM encoded PKCS#1, PKCS#8 or SEC1 private key.
func ParsePrivateKey(data []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		return x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}

		signer, ok := key.(crypto.Signer)
		if !ok {
			return nil, fmt.Errorf("unsupported private key type %T", key)
		}

		return signer, nil
	default:
		return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}
}

// ParsePublicKey parses a PEM encoded PKIX or PKCS#1 public key.
func ParsePublicKey(data []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	switch block.Type {
	case "PUBLIC KEY":
		return x509.ParsePKIXPublicKey(block.Bytes)
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}
}

func checkKeyType(alg jose.SignatureAlgorithm, pub crypto.PublicKey) error {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		if strings.HasPrefix(string(alg), "RS") || strings.HasPrefix(string(alg), "PS") {
			return nil
		}
	case *ecdsa.PublicKey:
		if alg == jose.ES256 && k.Curve == elliptic.P256() {
			return nil
		}
	case ed25519.PublicKey:
		if alg == jose.EdDSA {
			return nil
		}
	}

	return fmt.Errorf("%w: %s with %T", ErrKeyMismatch, alg, pub)
}

func publicKeysEqual(a, b crypto.PublicKey) bool {
	type equaler interface {
		Equal(x crypto.PublicKey) bool
	}

	eq, ok := a.(equaler)
	return ok && eq.Equal(b)
}

func thumbprint(pub crypto.PublicKey) (string, error) {
	jwk := jose.JSONWebKey{Key: pub}

	sum, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(sum), nil
}

// loadOptional resolves ref and returns nil if it carries no value: the
// source is unset, the value is blank or the environment variable is unset.
func loadOptional(ref commoncfg.SourceRef) ([]byte, error) {
	switch ref.Source {
	case "":
		return nil, nil
	case commoncfg.EnvSourceValue:
		if envUnset(ref.Value) && envUnset(ref.Env) {
			return nil, nil
		}
	}

	data, err := commoncfg.LoadValueFromSourceRef(ref)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	return data, nil
}

func envUnset(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || os.Getenv(name) == ""
}
