package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"devasthan/internal/config"
	"devasthan/internal/domain"
	"devasthan/internal/service"
	"devasthan/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "devasthan-test",
	}
}

func testUser(t *testing.T, orgID uuid.UUID, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		OrgID:        orgID,
		Email:        "operator@example.org",
		PasswordHash: string(hash),
		FullName:     "Test Operator",
		Role:         domain.RoleOperator,
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	orgID := uuid.New()
	org := &domain.Organization{ID: orgID, Slug: "ganesh-mandir", IsActive: true}
	user := testUser(t, orgID, "correct-password")

	orgRepo.On("GetBySlug", mock.Anything, "ganesh-mandir").Return(org, nil)
	userRepo.On("GetByEmail", mock.Anything, orgID, "operator@example.org").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug:  "ganesh-mandir",
		Email:    "operator@example.org",
		Password: "correct-password",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The access token round-trips through validation with org context intact.
	claims, err := svc.ValidateToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, orgID, claims.OrgID)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleOperator, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	orgID := uuid.New()
	org := &domain.Organization{ID: orgID, Slug: "ganesh-mandir", IsActive: true}
	user := testUser(t, orgID, "correct-password")

	orgRepo.On("GetBySlug", mock.Anything, "ganesh-mandir").Return(org, nil)
	userRepo.On("GetByEmail", mock.Anything, orgID, "operator@example.org").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug:  "ganesh-mandir",
		Email:    "operator@example.org",
		Password: "wrong-password",
	})

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownOrg(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	orgRepo.On("GetBySlug", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "nope", Email: "x@example.org", Password: "irrelevant",
	})

	assert.Nil(t, pair)
	// Unknown org is indistinguishable from bad credentials.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveOrg(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	org := &domain.Organization{ID: uuid.New(), Slug: "ganesh-mandir", IsActive: false}
	orgRepo.On("GetBySlug", mock.Anything, "ganesh-mandir").Return(org, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "ganesh-mandir", Email: "x@example.org", Password: "irrelevant",
	})

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, domain.ErrOrgInactive)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	orgID := uuid.New()
	org := &domain.Organization{ID: orgID, Slug: "ganesh-mandir", IsActive: true}
	user := testUser(t, orgID, "correct-password")

	orgRepo.On("GetBySlug", mock.Anything, "ganesh-mandir").Return(org, nil)
	userRepo.On("GetByEmail", mock.Anything, orgID, "operator@example.org").Return(user, nil)
	userRepo.On("GetByID", mock.Anything, orgID, user.ID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "ganesh-mandir", Email: "operator@example.org", Password: "correct-password",
	})
	assert.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	orgRepo := new(mocks.MockOrgRepo)
	svc := service.NewAuthService(userRepo, orgRepo, testJWTConfig())

	orgID := uuid.New()
	org := &domain.Organization{ID: orgID, Slug: "ganesh-mandir", IsActive: true}
	user := testUser(t, orgID, "correct-password")

	orgRepo.On("GetBySlug", mock.Anything, "ganesh-mandir").Return(org, nil)
	userRepo.On("GetByEmail", mock.Anything, orgID, "operator@example.org").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		OrgSlug: "ganesh-mandir", Email: "operator@example.org", Password: "correct-password",
	})
	assert.NoError(t, err)

	// Audience check: an access token is not a refresh token.
	refreshed, err := svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.Nil(t, refreshed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockUserRepo), new(mocks.MockOrgRepo), testJWTConfig())

	claims, err := svc.ValidateToken("not.a.token")
	assert.Nil(t, claims)
	assert.Error(t, err)
}
