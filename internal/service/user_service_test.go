package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	db := setupTestDB(t)
	return NewUserService(repository.NewUserRepository(db))
}

func TestCreateUserAndLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "chef.anna",
		Email:    "anna@kitchen.local",
		Phone:    "0901234567",
		Password: "secret123",
		Role:     model.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, "chef.anna", user.Username)
	assert.Equal(t, model.RoleManager, user.Role)

	tokenRes, err := svc.Login(ctx, LoginUserRequest{Email: "anna@kitchen.local", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, tokenRes.Token)

	// Token carries the user's id and role
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenRes.Token, jwt.MapClaims{})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, model.RoleManager, claims["role"])

	_, err = svc.Login(ctx, LoginUserRequest{Email: "anna@kitchen.local", Password: "wrong"})
	assert.Error(t, err)
}

func TestCreateUserEmailValidation(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	// Internal domains have TLDs longer than four letters and must pass.
	user, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "chef.dana",
		Email:    "Dana@Kitchen.LOCAL",
		Phone:    "0900000003",
		Password: "secret123",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@kitchen.local", user.Email)

	// Login folds case the same way the stored address was folded.
	_, err = svc.Login(ctx, LoginUserRequest{Email: "DANA@kitchen.local", Password: "secret123"})
	require.NoError(t, err)

	for _, email := range []string{"not-an-email", "dana@", "@kitchen.local", "dana@kitchen"} {
		_, err := svc.CreateUser(ctx, CreateUserRequest{
			Username: "chef." + email,
			Email:    email,
			Phone:    "0900000004",
			Password: "secret123",
			Role:     model.RoleStaff,
		})
		assert.ErrorContains(t, err, "invalid email format", email)
	}
}

func TestCreateUserRejectsDuplicatesAndBadRoles(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Username: "chef.anna",
		Email:    "anna@kitchen.local",
		Phone:    "0901234567",
		Password: "secret123",
		Role:     model.RoleStaff,
	}
	_, err := svc.CreateUser(ctx, req)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, req)
	assert.ErrorContains(t, err, "username already exists")

	req.Username = "chef.bella"
	_, err = svc.CreateUser(ctx, req)
	assert.ErrorContains(t, err, "email already exists")

	req.Email = "bella@kitchen.local"
	req.Role = "superuser"
	_, err = svc.CreateUser(ctx, req)
	assert.ErrorContains(t, err, "invalid role")
}

func TestUpdateAndDeleteUser(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "chef.carl",
		Email:    "carl@kitchen.local",
		Phone:    "0900000001",
		Password: "secret123",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, user.ID.String(), UpdateUserRequest{Role: model.RoleManager, Phone: "0900000002"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, updated.Role)
	assert.Equal(t, "0900000002", updated.Phone)

	require.NoError(t, svc.DeleteUser(ctx, user.ID.String()))

	_, err = svc.GetUserByID(ctx, user.ID.String())
	assert.Error(t, err)
}
