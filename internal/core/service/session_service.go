package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/infrastructure/metrics"
	"github.com/openshelf/catalog-api/internal/pkg/signature"
)

const defaultSessionTTL = 24 * time.Hour

// SessionOptions configures a SessionService.
type SessionOptions struct {
	TTL          time.Duration
	SecureCookie bool
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionService issues and validates signed session tokens. Tokens are
// JWT-shaped (header.payload.signature) and signed by the codec.
type SessionService struct {
	codec  *signature.Codec
	parser *jwt.Parser
	ttl    time.Duration
	secure bool
	now    func() time.Time
	log    zerolog.Logger
}

func NewSessionService(codec *signature.Codec, opts SessionOptions, log zerolog.Logger) *SessionService {
	if opts.TTL <= 0 {
		opts.TTL = defaultSessionTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionService{
		codec:  codec,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{codec.Alg()})),
		ttl:    opts.TTL,
		secure: opts.SecureCookie,
		now:    opts.Now,
		log:    log,
	}
}

// Issue mints a token for role that expires after the configured TTL.
func (s *SessionService) Issue(role domain.Role) (string, time.Time, error) {
	if !role.CanWrite() {
		return "", time.Time{}, domain.ErrAuthorizationDenied
	}

	now := s.now()
	claims := sessionClaims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signingString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SigningString()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue session: %w", err)
	}
	sig, err := s.codec.Sign(signingString)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue session: %w", err)
	}

	return signingString + "." + sig, claims.ExpiresAt.Time, nil
}

// Validate checks the signature before trusting any payload field, then the
// expiry and the role. It never panics; every failure yields Valid == false.
func (s *SessionService) Validate(token string) (result domain.SessionValidation) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("session validation panicked")
			result = domain.Invalid(domain.ErrInvalidSession)
		}
		outcome := "valid"
		switch {
		case result.Valid:
		case result.Reason == domain.ErrExpiredSession:
			outcome = "expired"
		default:
			outcome = "invalid"
		}
		metrics.SessionValidationsTotal.WithLabelValues(outcome).Inc()
	}()

	token = strings.TrimSpace(token)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.Invalid(domain.ErrInvalidSession)
	}
	if err := s.codec.Verify(parts[0]+"."+parts[1], parts[2]); err != nil {
		return domain.Invalid(domain.ErrInvalidSession)
	}

	var claims sessionClaims
	parsed, _, err := s.parser.ParseUnverified(token, &claims)
	if err != nil || parsed.Method.Alg() != s.codec.Alg() {
		return domain.Invalid(domain.ErrInvalidSession)
	}
	if claims.ExpiresAt == nil {
		return domain.Invalid(domain.ErrInvalidSession)
	}
	if s.now().After(claims.ExpiresAt.Time) {
		return domain.Invalid(domain.ErrExpiredSession)
	}

	role := domain.Role(claims.Role)
	if !role.CanWrite() {
		return domain.Invalid(domain.ErrInvalidSession)
	}

	v := domain.SessionValidation{Valid: true, Role: role, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		v.IssuedAt = claims.IssuedAt.Time
	}
	return v
}

// Cookie wraps token in the session cookie.
func (s *SessionService) Cookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(expiresAt.Sub(s.now()).Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearCookie returns a cookie that makes the client drop the session.
func (s *SessionService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
