package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mallexplorer/sme-backend/internal/users"
	pkgAuth "github.com/mallexplorer/sme-backend/pkg/auth"
	"github.com/mallexplorer/sme-backend/pkg/auth/session"
	"github.com/mallexplorer/sme-backend/pkg/config"
	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	users     userRepository
	approvals approvalsReader
	sessions  sessionManager
	jwtCfg    config.JWTConfig
	adminCfg  config.AdminConfig
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type approvalsReader interface {
	HasApprovals(ctx context.Context, userID uuid.UUID) (bool, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, identity session.Identity) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Lookup(ctx context.Context, accessID string) (*session.Record, bool, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	ApprovalsRepo  approvalsReader
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	AdminConfig    config.AdminConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ApprovalsRepo == nil {
		return nil, fmt.Errorf("approvals repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:     params.UserRepo,
		approvals: params.ApprovalsRepo,
		sessions:  params.SessionManager,
		jwtCfg:    params.JWTConfig,
		adminCfg:  params.AdminConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveRole(ctx, user)
	if err != nil {
		return nil, err
	}

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID, session.Identity{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
		Role:   role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store session")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         role,
		IsAdmin:      role == enums.RoleAdmin,
		User:         users.FromModel(user),
	}, nil
}

// Refresh rotates the session behind an expired access token. The role
// frozen at login rides along; admin requests are re-validated against
// the allow-list at the gate regardless.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	record, found, err := s.sessions.Lookup(ctx, newAccessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rotated session")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked")
	}

	userID, err := uuid.Parse(record.Identity.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse session user id")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Email:  record.Identity.Email,
		Role:   record.Identity.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}

// Logout revokes the session. Revoking a session that is already gone
// succeeds, so repeated logouts are safe.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// A corrupt stored hash reads the same as a wrong password;
		// the account is unusable either way until the hash is reset.
		if errors.Is(err, security.ErrInvalidHash) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// resolveRole computes the effective role at login time. Roles are never
// stored on the user row: the allow-list decides admin, approvals decide
// owner, everyone else is a plain user.
func (s *service) resolveRole(ctx context.Context, user *models.User) (enums.Role, error) {
	if s.adminCfg.IsAllowed(user.Email) {
		return enums.RoleAdmin, nil
	}
	approved, err := s.approvals.HasApprovals(ctx, user.ID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check seller approvals")
	}
	if approved {
		return enums.RoleOwner, nil
	}
	return enums.RoleUser, nil
}

func (s *service) recordLogin(ctx context.Context, user *models.User) (time.Time, error) {
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}
