package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/northfit/installops/internal/identity/domain"
	"github.com/northfit/installops/internal/identity/metrics"
	"github.com/northfit/installops/internal/identity/store"
	"github.com/northfit/installops/pkg/cryptox"
	"github.com/northfit/installops/pkg/httpx"
	"github.com/northfit/installops/pkg/idx"
	"github.com/northfit/installops/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalid     = errors.New("session invalid")
)

const tokenIssuer = "installops-identity"

// AuthService owns the login lifecycle: verifying credentials, minting
// sessions, resolving session tokens back to identities, and revocation.
//
// The token handed to the browser is an HS256 JWT that carries only the
// session id and user id. All authority lives in the sessions table, so a
// token is dead the moment its session row is revoked.
type AuthService struct {
	Store       store.Store
	TokenSecret []byte
	SessionTTL  time.Duration
	Metrics     metrics.Recorder
}

func (s *AuthService) recorder() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}

// Login verifies the email/password pair, creates a session, and returns the
// user together with a signed session token. Unknown emails, wrong passwords,
// and inactive users all collapse to ErrInvalidCredentials so callers cannot
// probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.recorder().RecordLoginFailure("unknown_email")
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if !u.IsActive() {
		l.Warn("login attempt for inactive user", slog.String("user_id", u.ID))
		s.recorder().RecordLoginFailure("inactive")
		return domain.User{}, "", ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			s.recorder().RecordLoginFailure("bad_password")
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	now := time.Now().UTC()
	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    u.ID,
		ExpiresAt: now.Add(s.SessionTTL),
		CreatedAt: now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.signSessionToken(sess)
	if err != nil {
		return domain.User{}, "", err
	}

	l.Info("user logged in",
		slog.String("user_id", u.ID),
		slog.String("session_id", sess.ID),
	)
	s.recorder().RecordLoginSuccess()

	return u, token, nil
}

// Identify resolves a session token back to the identity it represents.
// It satisfies httpx.Identifier so it can sit behind the session middleware.
func (s *AuthService) Identify(ctx context.Context, token string) (httpx.Identity, error) {
	claims, err := s.parseSessionToken(token)
	if err != nil {
		return httpx.Identity{}, ErrSessionInvalid
	}

	sess, err := s.Store.Sessions().GetSessionByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.Identity{}, ErrSessionInvalid
		}
		return httpx.Identity{}, err
	}

	if !sess.Live(time.Now().UTC()) {
		return httpx.Identity{}, ErrSessionInvalid
	}

	u, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.Identity{}, ErrSessionInvalid
		}
		return httpx.Identity{}, err
	}
	if !u.IsActive() {
		return httpx.Identity{}, ErrSessionInvalid
	}

	return httpx.Identity{
		UserID:    u.ID,
		Role:      string(u.Role),
		SessionID: sess.ID,
	}, nil
}

// Logout revokes the session behind the token. Invalid or already-dead
// tokens are not an error so logout stays idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseSessionToken(token)
	if err != nil {
		return nil
	}

	if err := s.Store.Sessions().RevokeSession(ctx, claims.ID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("session revoked", slog.String("session_id", claims.ID))
	s.recorder().RecordSessionRevoked()
	return nil
}

func (s *AuthService) signSessionToken(sess domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   sess.UserID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.TokenSecret)
}

func (s *AuthService) parseSessionToken(token string) (jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.TokenSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return jwt.RegisteredClaims{}, err
	}
	return claims, nil
}
