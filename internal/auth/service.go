// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/middleware"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserInfo is the slice of a stored user the gate needs.
type UserInfo struct {
	Name     string
	Role     string
	Password string
}

// UserProvider returns every stored user with exactly the given name.
// Names are not unique.
type UserProvider interface {
	FindByName(ctx context.Context, name string) ([]UserInfo, error)
}

type Service struct {
	jwt       *JWTManager
	users     UserProvider
	verifier  CredentialVerifier
	blacklist Blacklist
}

func NewService(
	jwt *JWTManager,
	users UserProvider,
	verifier CredentialVerifier,
	blacklist Blacklist,
) *Service {
	return &Service{
		jwt:       jwt,
		users:     users,
		verifier:  verifier,
		blacklist: blacklist,
	}
}

// NormalizeName is the canonical form of a login name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Authenticate checks a name and password and returns the matching identity.
// Every failure, including an unknown name, is ErrInvalidCredentials.
func (s *Service) Authenticate(
	ctx context.Context,
	name, password string,
) (*Identity, error) {
	name = NormalizeName(name)
	if name == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	candidates, err := s.users.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	for _, u := range candidates {
		ok, verr := s.verifier.Verify(password, u.Password)
		if verr != nil || !ok {
			continue
		}
		return &Identity{
			Name:  u.Name,
			Role:  u.Role,
			Pages: PagesFor(u.Role),
		}, nil
	}

	return nil, ErrInvalidCredentials
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	identity, err := s.Authenticate(ctx, req.Name, req.Password)
	core.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	issued, err := s.jwt.CreateAccessToken(identity.Name, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &LoginResponse{
		Identity:    *identity,
		AccessToken: issued.Token,
		TokenType:   "Bearer",
		ExpiresAt:   issued.ExpiresAt,
	}, nil
}

// Logout revokes the token behind claims until it would have expired.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	if err := s.blacklist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// VerifyAccessToken parses the token and rejects it if it was logged out.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) Me(claims *middleware.AccessTokenClaims) Identity {
	return Identity{
		Name:  claims.Name,
		Role:  claims.Role,
		Pages: PagesFor(claims.Role),
	}
}
