package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/benevole/benevole/internal/db/models"
	"github.com/benevole/benevole/internal/token"
)

// Authentication is the result of a successful login.
type Authentication struct {
	PrincipalID string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Authorities []string  `json:"authorities"`
	Token       string    `json:"token"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Service provides authentication and authorization functionality.
type Service struct {
	dir    Directory
	tokens *token.Service
	local  *LocalProvider
}

// NewService creates a new auth service.
func NewService(dir Directory, tokens *token.Service) *Service {
	return &Service{
		dir:    dir,
		tokens: tokens,
		local:  NewLocalProvider(dir),
	}
}

// Local returns the password provider of the service.
func (s *Service) Local() *LocalProvider {
	return s.local
}

// Authenticate checks email and password, resolves the authority set and issues a token.
// Unknown email, disabled account and wrong password all return ErrAuthenticationFailed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Authentication, error) {
	user, err := s.local.Authenticate(ctx, email, password)
	if err != nil {
		authentications.WithLabelValues(resultFailure).Inc()

		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrUserAccountDisabled) || errors.Is(err, ErrInvalidPassword) {
			log.Warn().Err(err).Str("email", email).Msg("authentication failed")
			return nil, ErrAuthenticationFailed
		}

		return nil, err
	}

	set := Resolve(user)
	authorities := set.Strings()

	signed, expiresAt, err := s.tokens.Issue(user.ID.String(), user.Email, set.Roles(), set.Permissions())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	authentications.WithLabelValues(resultSuccess).Inc()
	log.Info().Str("user_id", user.ID.String()).Int("authorities", len(authorities)).Msg("user authenticated")

	return &Authentication{
		PrincipalID: user.ID.String(),
		Email:       user.Email,
		Username:    user.Username,
		Authorities: authorities,
		Token:       signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// VerifyToken checks a bearer token and returns the principal it was issued for.
func (s *Service) VerifyToken(raw string) (*Principal, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		log.Debug().Err(err).Str("kind", token.Kind(err)).Msg("token rejected")
		return nil, err
	}

	return &Principal{
		ID:          claims.Subject,
		Email:       claims.Email,
		Authorities: FromGrants(claims.Roles, claims.Permissions),
	}, nil
}

// Authorize evaluates reqs for p in order and stops at the first denial.
// The denying requirement is logged, the returned error only matches ErrAccessDenied.
func (s *Service) Authorize(p *Principal, reqs ...Requirement) error {
	err := Decide(p, reqs...)
	if err == nil {
		decisions.WithLabelValues(resultAllow).Inc()
		return nil
	}

	decisions.WithLabelValues(resultDeny).Inc()

	ev := log.Warn().Err(err)
	if p != nil {
		ev = ev.Str("user_id", p.ID)
	}

	var denied *DeniedError
	if errors.As(err, &denied) {
		if pc, ok := denied.Requirement.(PermissionCheck); ok && p != nil {
			ev = ev.Strs("missing", pc.Missing(p.Authorities))
		}
	}

	ev.Msg("access denied")

	return err
}

// ResolveUser returns the current authority set of the stored user with id.
func (s *Service) ResolveUser(ctx context.Context, id uuid.UUID) (AuthoritySet, error) {
	u, err := s.dir.FindUserByID(ctx, id)
	if err != nil {
		return AuthoritySet{}, err
	}

	return Resolve(u), nil
}

// Register creates an enabled account holding only the baseline user role.
func (s *Service) Register(ctx context.Context, u *models.User, password string) (*models.User, error) {
	baseline, err := s.dir.FindRoleByName(ctx, RoleUser)
	if err != nil {
		return nil, fmt.Errorf("baseline role %q: %w", RoleUser, err)
	}

	u.Enabled = true
	u.Permissions = nil

	created, err := s.local.CreateUser(ctx, u, password, *baseline)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", created.ID.String()).Msg("user registered")

	return created, nil
}
