package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmajor/mealmajor/backend/internal/models"
	"github.com/mealmajor/mealmajor/backend/internal/service"
	"github.com/mealmajor/mealmajor/backend/internal/testhelpers"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

func signUp(email string) *types.SignUpRequest {
	return &types.SignUpRequest{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "secret1",
	}
}

func TestRegister(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), signUp("  Ada@Example.COM "))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, signUp("ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, signUp("ADA@example.com"))
	assert.ErrorIs(t, err, service.ErrEmailTaken)
	assert.Equal(t, service.KindConflict, service.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret", time.Hour)

	tests := []struct {
		name    string
		mutate  func(*types.SignUpRequest)
		message string
	}{
		{"missing email", func(r *types.SignUpRequest) { r.Email = " " }, "Email is required."},
		{"invalid email", func(r *types.SignUpRequest) { r.Email = "ada@example" }, "Email is invalid."},
		{"email with spaces", func(r *types.SignUpRequest) { r.Email = "ada lovelace@example.com" }, "Email is invalid."},
		{"missing name", func(r *types.SignUpRequest) { r.LastName = "" }, "All fields are required."},
		{"short password", func(r *types.SignUpRequest) { r.Password = "abc" }, "Password must be at least 6 characters."},
		{"password over bcrypt limit", func(r *types.SignUpRequest) { r.Password = strings.Repeat("x", 80) }, "Password must be at most 72 bytes."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signUp("ada@example.com")
			tt.mutate(req)
			_, err := svc.Register(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, service.KindValidation, service.KindOf(err))
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestLoginAndValidateToken(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret", time.Hour)
	ctx := context.Background()

	registered, err := svc.Register(ctx, signUp("ada@example.com"))
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret", time.Hour)
	user := &models.User{ID: 7, Email: "x@example.com"}

	other := service.NewAuthService(db, "another-secret", time.Hour)
	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)

	expired := service.NewAuthService(db, "test-secret", time.Nanosecond)
	stale, err := expired.GenerateToken(user)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &types.TokenClaims{UserID: 7})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      stale,
		"unsigned":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, service.KindUnauthorized, service.KindOf(err))
		})
	}
}

func TestGetUserByID(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret", 0)
	created := testhelpers.CreateTestUser(t, db, "Ada", "Lovelace", "ada@example.com")

	user, err := svc.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err = svc.GetUserByID(context.Background(), created.ID+1)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
