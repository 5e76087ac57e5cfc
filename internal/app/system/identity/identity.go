// Package identity verifies bearer tokens from the external identity provider
// and carries the resulting identity on the request context.
//
// The provider issues JWTs whose subject is the stable user identifier and
// whose email claim is the address invites are matched against.
package identity

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal for one request.
type Identity struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
	Picture    string
}

// Claims is the token payload accepted from the provider.
type Claims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Picture    string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrNoToken      = errors.New("identity: no bearer token")
	ErrInvalidToken = errors.New("identity: invalid token")
)

// Verifier validates provider tokens.
type Verifier struct {
	key  interface{}
	opts []jwt.ParserOption
}

// VerifierConfig selects the signing key and expected claims.
// Exactly one of HMACSecret or PublicKeyPath must be set.
type VerifierConfig struct {
	Issuer        string
	Audience      string
	HMACSecret    string
	PublicKeyPath string
}

var (
	rsaMethods  = []string{"RS256", "RS384", "RS512"}
	hmacMethods = []string{"HS256", "HS384", "HS512"}
)

// NewVerifier builds a Verifier from cfg.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	switch {
	case cfg.PublicKeyPath != "":
		pem, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read public key: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		return NewRSAVerifier(key, cfg.Issuer, cfg.Audience), nil
	case cfg.HMACSecret != "":
		return newVerifier([]byte(cfg.HMACSecret), hmacMethods, cfg.Issuer, cfg.Audience), nil
	default:
		return nil, errors.New("identity: no signing key configured")
	}
}

// NewRSAVerifier builds a Verifier for an already-parsed public key.
func NewRSAVerifier(key *rsa.PublicKey, issuer, audience string) *Verifier {
	return newVerifier(key, rsaMethods, issuer, audience)
}

func newVerifier(key interface{}, methods []string, issuer, audience string) *Verifier {
	opts := []jwt.ParserOption{jwt.WithValidMethods(methods), jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &Verifier{key: key, opts: opts}
}

// Verify parses and validates raw, returning the caller identity.
func (v *Verifier) Verify(raw string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	}, v.opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		Subject:    claims.Subject,
		Email:      claims.Email,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Picture:    claims.Picture,
	}, nil
}

// ExtractBearer returns the token from an Authorization header value.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity on ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.Subject != ""
}
