// Package token mints and verifies the signed assertion tokens handed out
// together with the session cookies.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// AssertionToken is a signed JWT together with the claims it carries.
type AssertionToken struct {
	Raw    string
	Claims jwt.Claims
}

type Issuer struct {
	signer    jose.Signer
	algorithm jose.SignatureAlgorithm
	issuer    string
	audience  string
	publicJWK jose.JSONWebKey
	publicKey any
}

func NewIssuer(km KeyMaterial, issuerURL string) (*Issuer, error) {
	if km.PrivateKey == nil || km.Audience == "" {
		return nil, ErrMissingKeyMaterial
	}
	if !asymmetric[km.Algorithm] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, km.Algorithm)
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{
			Algorithm: km.Algorithm,
			Key:       jose.JSONWebKey{Key: km.PrivateKey, KeyID: km.KeyID},
		},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating signer: %w", err)
	}

	pub := km.PublicKey
	if pub == nil {
		pub = km.PrivateKey.Public()
	}

	return &Issuer{
		signer:    signer,
		algorithm: km.Algorithm,
		issuer:    issuerURL,
		audience:  km.Audience,
		publicKey: pub,
		publicJWK: jose.JSONWebKey{
			Key:       pub,
			KeyID:     km.KeyID,
			Algorithm: string(km.Algorithm),
			Use:       "sig",
		},
	}, nil
}

// Mint signs a token for subject that is valid from issuedAt until expiresAt.
// nbf always equals iat.
func (i *Issuer) Mint(subject string, issuedAt, expiresAt time.Time) (AssertionToken, error) {
	if subject == "" {
		return AssertionToken{}, errors.New("token subject must not be empty")
	}
	if !expiresAt.After(issuedAt) {
		return AssertionToken{}, errors.New("token expiry must be after issuance")
	}

	claims := jwt.Claims{
		Issuer:    i.issuer,
		Subject:   subject,
		Audience:  jwt.Audience{i.audience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		Expiry:    jwt.NewNumericDate(expiresAt),
	}

	raw, err := jwt.Signed(i.signer).Claims(claims).Serialize()
	if err != nil {
		return AssertionToken{}, fmt.Errorf("signing token: %w", err)
	}

	return AssertionToken{Raw: raw, Claims: claims}, nil
}

// Verify checks the signature, issuer, audience and validity window of raw
// at the given time without leeway. Relying parties holding only the public
// key do the same.
func (i *Issuer) Verify(raw string, now time.Time) (jwt.Claims, error) {
	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{i.algorithm})
	if err != nil {
		return jwt.Claims{}, fmt.Errorf("parsing token: %w", err)
	}

	var claims jwt.Claims
	if err := tok.Claims(i.publicKey, &claims); err != nil {
		return jwt.Claims{}, fmt.Errorf("verifying token signature: %w", err)
	}

	err = claims.ValidateWithLeeway(jwt.Expected{
		Issuer:      i.issuer,
		AnyAudience: jwt.Audience{i.audience},
		Time:        now,
	}, 0)
	if err != nil {
		return jwt.Claims{}, fmt.Errorf("validating token claims: %w", err)
	}

	return claims, nil
}

// KeySet returns the public key set relying parties verify tokens with.
func (i *Issuer) KeySet() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{i.publicJWK}}
}
