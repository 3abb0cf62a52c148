package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumni-platform/internal/core/domain"
	"alumni-platform/internal/core/ports"
	"alumni-platform/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T) (
	*AuthServiceImpl,
	*mocks.MockAccountRepository,
	*mocks.MockHashService,
	*mocks.MockTokenService,
) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	return NewAuthService(accountRepo, hashSvc, tokenSvc), accountRepo, hashSvc, tokenSvc
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, accountRepo, hashSvc, tokenSvc := setupAuthService(t)
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	req := ports.RegisterRequest{
		Email:          "  Asha.Rao@Example.COM ",
		Password:       "StrongP@ss123",
		FirstName:      "Asha",
		LastName:       "Rao",
		GraduationYear: 2012,
		Major:          "Physics",
	}

	accountRepo.EXPECT().GetByEmail(ctx, "asha.rao@example.com").Return(nil, nil)
	hashSvc.EXPECT().Hash("StrongP@ss123").Return("$argon2id$hashed", nil)
	accountRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, a *domain.Account) error {
			assert.Equal(t, "asha.rao@example.com", a.Email)
			assert.Equal(t, "$argon2id$hashed", a.PasswordHash)
			assert.Equal(t, 2012, a.GraduationYear)
			assert.NotEqual(t, uuid.Nil, a.ID)
			return nil
		},
	)
	tokenSvc.EXPECT().Generate(gomock.Any()).Return("jwt-token", expiry, nil)

	result, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", result.Token)
	assert.Equal(t, expiry, result.ExpiresAt)
	assert.Equal(t, "Asha Rao", result.Account.FullName())
}

func TestAuthService_Register_EmailExists(t *testing.T) {
	svc, accountRepo, _, _ := setupAuthService(t)
	ctx := context.Background()

	accountRepo.EXPECT().GetByEmail(ctx, "taken@example.com").Return(&domain.Account{ID: uuid.New()}, nil)

	_, err := svc.Register(ctx, ports.RegisterRequest{Email: "taken@example.com", Password: "password123"})
	requireAppCode(t, err, "AUTH_002")
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	svc, accountRepo, hashSvc, _ := setupAuthService(t)
	ctx := context.Background()

	accountRepo.EXPECT().GetByEmail(ctx, "race@example.com").Return(nil, nil)
	hashSvc.EXPECT().Hash(gomock.Any()).Return("h", nil)
	accountRepo.EXPECT().Create(ctx, gomock.Any()).Return(domain.ErrDuplicateEmail)

	_, err := svc.Register(ctx, ports.RegisterRequest{Email: "race@example.com", Password: "password123"})
	requireAppCode(t, err, "AUTH_002")
}

func TestAuthService_Register_RepoError(t *testing.T) {
	svc, accountRepo, _, _ := setupAuthService(t)
	ctx := context.Background()

	accountRepo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.Register(ctx, ports.RegisterRequest{Email: "a@example.com"})
	requireAppCode(t, err, "SYS_001")
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, accountRepo, hashSvc, tokenSvc := setupAuthService(t)
	ctx := context.Background()

	account := &domain.Account{ID: uuid.New(), Email: "a@example.com", PasswordHash: "$argon2id$hashed"}
	accountRepo.EXPECT().GetByEmail(ctx, "a@example.com").Return(account, nil)
	hashSvc.EXPECT().Verify("correct", "$argon2id$hashed").Return(true, nil)
	tokenSvc.EXPECT().Generate(account.ID).Return("jwt", time.Now().Add(time.Hour), nil)

	result, err := svc.Login(ctx, "A@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, "jwt", result.Token)
	assert.Equal(t, account, result.Account)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, accountRepo, _, _ := setupAuthService(t)
	ctx := context.Background()

	accountRepo.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, nil)

	_, err := svc.Login(ctx, "nobody@example.com", "password")
	requireAppCode(t, err, "AUTH_001")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, accountRepo, hashSvc, _ := setupAuthService(t)
	ctx := context.Background()

	account := &domain.Account{ID: uuid.New(), PasswordHash: "$argon2id$hashed"}
	accountRepo.EXPECT().GetByEmail(ctx, "a@example.com").Return(account, nil)
	hashSvc.EXPECT().Verify("wrong_password", "$argon2id$hashed").Return(false, nil)

	_, err := svc.Login(ctx, "a@example.com", "wrong_password")
	requireAppCode(t, err, "AUTH_001")
}

func TestAuthService_GetAccount(t *testing.T) {
	svc, accountRepo, _, _ := setupAuthService(t)
	ctx := context.Background()
	id := uuid.New()

	accountRepo.EXPECT().GetByID(ctx, id).Return(&domain.Account{ID: id}, nil)
	account, err := svc.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)

	accountRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)
	_, err = svc.GetAccount(ctx, id)
	requireAppCode(t, err, "AUTH_003")
}
