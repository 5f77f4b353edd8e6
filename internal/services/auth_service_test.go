package services

import (
	"context"
	"testing"

	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, &dto.RegisterRequest{
		Email:     "  Sam@Example.com ",
		Password:  "pw",
		FirstName: "Sam",
		LastName:  "Seeker",
		Role:      models.UserRoleJobseeker,
		Company:   "ignored",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "sam@example.com", resp.User.Email)
	assert.Empty(t, resp.User.Company)
	assert.NotEqual(t, "pw", resp.User.PasswordHash)

	identity, err := f.auth.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.UserID)
	assert.Equal(t, models.UserRoleJobseeker, identity.Role)

	login, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "SAM@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dup@example.com", models.UserRoleJobseeker)

	_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{
		Email:     "DUP@example.com",
		Password:  "other",
		FirstName: "D",
		LastName:  "U",
		Role:      models.UserRoleJobseeker,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicateEmail))
}

func TestAuthService_EmployerNeedsCompany(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{
		Email:     "boss@example.com",
		Password:  "pw",
		FirstName: "B",
		LastName:  "O",
		Role:      models.UserRoleEmployer,
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.register(t, "known@example.com", models.UserRoleJobseeker)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "nobody@example.com", "pw"},
		{"wrong password", "known@example.com", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Login(context.Background(), &dto.LoginRequest{Email: tt.email, Password: tt.pass})
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrInvalidCredentials.Message, appErr.Message)
			assert.Equal(t, 401, appErr.HTTPCode)
		})
	}
}

func TestAuthService_VerifyRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Verify("not.a.token")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidToken))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeker := f.register(t, "sam@example.com", models.UserRoleJobseeker)

	phone := "+1 555 0100"
	bio := "Gopher"
	user, err := f.auth.UpdateProfile(ctx, seeker, &dto.UpdateProfileRequest{
		Phone:  &phone,
		Bio:    &bio,
		Skills: []string{"go", "mongodb"},
	})
	require.NoError(t, err)
	assert.Equal(t, phone, user.Profile.Phone)
	assert.Equal(t, "Test", user.FirstName)

	stored, err := f.auth.GetProfile(ctx, seeker)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "mongodb"}, stored.Profile.Skills)
	assert.Equal(t, models.UserRoleJobseeker, stored.Role)

	company := "Nope Inc"
	_, err = f.auth.UpdateProfile(ctx, seeker, &dto.UpdateProfileRequest{Company: &company})
	assert.Error(t, err)
}
