package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/devanshjhaa/TicketsManage/internal/auth"
	"github.com/devanshjhaa/TicketsManage/internal/domain"
)

func newAuthService(users *fakeUserRepo) *AuthService {
	tokens := auth.NewTokenManager("test-secret", 60)
	return NewAuthService(users, tokens, bcrypt.MinCost)
}

func TestRegister(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "New.User@Example.com",
		Password:  "hunter2hunter2",
		FirstName: "New",
		LastName:  "User",
	})
	require.NoError(t, err)

	assert.Equal(t, "new.user@example.com", result.User.Email, "emails are normalized")
	assert.Equal(t, domain.RoleUser, result.User.Role, "self-registration never grants elevated roles")
	assert.True(t, result.User.Active)
	assert.NotEmpty(t, result.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter2hunter2"})
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "hunter2hunter2"})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "short"})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "a@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(ctx, "a@example.com", "wrong-password")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))

	_, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestLoginSuspendedAccount(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	result.User.Active = false
	require.NoError(t, users.Update(ctx, result.User))

	_, err = svc.Login(ctx, "a@example.com", "hunter2hunter2")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, result.User, "wrong", "newpassword1")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))

	require.NoError(t, svc.ChangePassword(ctx, result.User, "hunter2hunter2", "newpassword1"))

	_, err = svc.Login(ctx, "a@example.com", "newpassword1")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "a@example.com", "hunter2hunter2")
	assert.Error(t, err)
}
