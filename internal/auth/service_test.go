package auth

import (
	"context"
	"testing"
	"time"

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

var testJWTConfig = config.JWTConfig{
	Secret:                 "secret",
	Issuer:                 "sme-backend",
	ExpirationMinutes:      30,
	RefreshTokenTTLMinutes: 43200,
}

func TestServiceLoginResolvesAdminFromAllowList(t *testing.T) {
	password := "admin-secret"
	user := testUser(t, "boss@mall.example", password)

	svc, _ := buildTestService(t, user, false, config.AdminConfig{
		AllowedEmails: []string{"Boss@Mall.example"},
	})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role claim, got %s", claims.Role)
	}
	if !resp.IsAdmin {
		t.Fatalf("expected is_admin to be true")
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
}

func TestServiceLoginResolvesOwnerFromApprovals(t *testing.T) {
	password := "owner-secret"
	user := testUser(t, "seller@mall.example", password)

	svc, _ := buildTestService(t, user, true, config.AdminConfig{})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != enums.RoleOwner {
		t.Fatalf("expected owner role, got %s", resp.Role)
	}
	if resp.IsAdmin {
		t.Fatalf("owner must not be flagged admin")
	}
}

func TestServiceLoginDefaultsToUserRole(t *testing.T) {
	password := "plain-secret"
	user := testUser(t, "shopper@mall.example", password)

	svc, _ := buildTestService(t, user, false, config.AdminConfig{})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != enums.RoleUser {
		t.Fatalf("expected user role, got %s", resp.Role)
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	user := testUser(t, "shopper@mall.example", "right-password")
	svc, _ := buildTestService(t, user, false, config.AdminConfig{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginRejectsCorruptStoredHash(t *testing.T) {
	user := testUser(t, "shopper@mall.example", "right-password")
	user.PasswordHash = "not-an-argon2id-hash"

	svc, _ := buildTestService(t, user, false, config.AdminConfig{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "right-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginRejectsInactiveAccount(t *testing.T) {
	password := "right-password"
	user := testUser(t, "gone@mall.example", password)
	user.IsActive = false

	svc, _ := buildTestService(t, user, false, config.AdminConfig{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	password := "refresh-secret"
	user := testUser(t, "shopper@mall.example", password)
	svc, sessions := buildTestService(t, user, false, config.AdminConfig{})

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected rotated token pair")
	}
	if resp.RefreshToken == login.RefreshToken {
		t.Fatalf("refresh token must rotate")
	}

	oldClaims, err := pkgAuth.ParseAccessToken(testJWTConfig, login.AccessToken)
	if err != nil {
		t.Fatalf("parse old access token: %v", err)
	}
	if _, ok := sessions.records[oldClaims.ID]; ok {
		t.Fatalf("old session must be invalidated after rotation")
	}
}

func TestServiceRefreshRejectsWrongToken(t *testing.T) {
	password := "refresh-secret"
	user := testUser(t, "shopper@mall.example", password)
	svc, _ := buildTestService(t, user, false, config.AdminConfig{})

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "not-the-token",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLogoutIsIdempotent(t *testing.T) {
	password := "logout-secret"
	user := testUser(t, "shopper@mall.example", password)
	svc, sessions := buildTestService(t, user, false, config.AdminConfig{})

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, login.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := sessions.records[claims.ID]; ok {
		t.Fatalf("session must be revoked on logout")
	}
	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func buildTestService(t *testing.T, user *models.User, hasApprovals bool, adminCfg config.AdminConfig) (Service, *stubSessionManager) {
	t.Helper()
	sessions := &stubSessionManager{records: map[string]*session.Record{}}
	svc, err := NewService(ServiceParams{
		UserRepo:       stubUserRepo{user: user},
		ApprovalsRepo:  stubApprovalsRepo{hasApprovals: hasApprovals},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		AdminConfig:    adminCfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sessions
}

func testUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		IsActive:     true,
	}
}

type stubUserRepo struct {
	user *models.User
}

func (s stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubApprovalsRepo struct {
	hasApprovals bool
	err          error
}

func (s stubApprovalsRepo) HasApprovals(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.hasApprovals, s.err
}

type stubSessionManager struct {
	records map[string]*session.Record
	counter int
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string, identity session.Identity) (string, error) {
	s.counter++
	token := "refresh-" + accessID
	s.records[accessID] = &session.Record{
		Identity:     identity,
		IsAdmin:      identity.Role == enums.RoleAdmin,
		RefreshToken: token,
		CreatedAt:    time.Now().UTC(),
	}
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	record, ok := s.records[oldAccessID]
	if !ok || record.RefreshToken != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	newAccessID := session.NewAccessID()
	token, err := s.Generate(ctx, newAccessID, record.Identity)
	if err != nil {
		return "", "", err
	}
	delete(s.records, oldAccessID)
	return newAccessID, token, nil
}

func (s *stubSessionManager) Lookup(ctx context.Context, accessID string) (*session.Record, bool, error) {
	record, ok := s.records[accessID]
	return record, ok, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.records, accessID)
	return nil
}
