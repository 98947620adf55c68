// Package token issues and verifies the signed bearer tokens carrying a principal's authorities.
//
// Tokens are HS512 JWTs. Roles and permissions travel in separate claims and are a
// snapshot taken at issuance, so grants
// and revocations become visible with the next token. There is no revocation list:
// a token stays valid until it expires.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLen is the shortest accepted signing key for HS512.
const MinSecretLen = 32

var (
	// ErrInvalidArgument is returned for an empty token or a token without subject.
	ErrInvalidArgument = errors.New("token is empty or has no subject")
	// ErrMalformedToken is returned when the token can not be parsed.
	ErrMalformedToken = errors.New("token is malformed")
	// ErrExpiredToken is returned when the token is past its expiry.
	ErrExpiredToken = errors.New("token is expired")
	// ErrUnsupportedToken is returned for tokens signed with any other algorithm or by another issuer.
	ErrUnsupportedToken = errors.New("token signing method is not supported")
	// ErrBadSignature is returned when the signature does not match the key.
	ErrBadSignature = errors.New("token signature is invalid")

	// ErrSecretTooShort is returned by New for keys shorter than MinSecretLen.
	ErrSecretTooShort = fmt.Errorf("token secret must have at least %d bytes", MinSecretLen)
)

// Claims of an access token.
type Claims struct {
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Service signs and verifies access tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	method *jwt.SigningMethodHMAC
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the time source. It is sampled at every call.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIssuer sets the iss claim of issued tokens.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		s.issuer = issuer
	}
}

// New returns a Service signing with secret. Issued tokens expire after ttl.
func New(secret string, ttl time.Duration, opts ...Option) (*Service, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrSecretTooShort
	}

	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		method: jwt.SigningMethodHS512,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// TTL returns the lifetime of issued tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject carrying its role names and permission names.
// It returns the token and its expiry.
func (s *Service) Issue(subject, email string, roles, permissions []string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrInvalidArgument
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	if roles == nil {
		roles = []string{}
	}

	if permissions == nil {
		permissions = []string{}
	}

	claims := Claims{
		Email:       email,
		Roles:       roles,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature and expiry of token and returns its claims.
// Failures wrap one of the package sentinels.
func (s *Service) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidArgument
	}

	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	_, err := jwt.ParseWithClaims(token, &claims, s.keyFunc, opts...)
	if err != nil {
		return nil, classify(err)
	}

	if claims.Subject == "" {
		return nil, ErrInvalidArgument
	}

	return &claims, nil
}

func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != s.method.Alg() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedToken, t.Method.Alg())
	}

	return s.secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedToken), errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %w", ErrUnsupportedToken, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpiredToken, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
}

// IsTokenError reports whether err is one of the verification failures.
func IsTokenError(err error) bool {
	for _, target := range []error{
		ErrInvalidArgument,
		ErrMalformedToken,
		ErrExpiredToken,
		ErrUnsupportedToken,
		ErrBadSignature,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// Kind names the verification failure of err for logging.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrExpiredToken):
		return "expired"
	case errors.Is(err, ErrUnsupportedToken):
		return "unsupported"
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	default:
		return "unknown"
	}
}
