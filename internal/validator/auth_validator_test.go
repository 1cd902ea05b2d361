package validator

import (
	"context"
	"testing"

	"godent-be/internal/domain/model"
	"godent-be/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in validator tests")
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	panic("not used in validator tests")
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func TestAuthValidator_ValidateSignup_OK(t *testing.T) {
	users := new(userRepoMock)
	v := NewAuthValidator(users)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, nil)
	users.On("FindByUsername", mock.Anything, "taro").Return(nil, nil)

	err := v.ValidateSignup(context.Background(), "taro", "taro@example.com", "password123")
	assert.NoError(t, err)
}

func TestAuthValidator_ValidateSignup_BlankFields(t *testing.T) {
	v := NewAuthValidator(new(userRepoMock))

	err := v.ValidateSignup(context.Background(), "", "taro@example.com", "password123")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	err = v.ValidateSignup(context.Background(), "taro", "", "password123")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	err = v.ValidateSignup(context.Background(), "taro", "taro@example.com", "")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestAuthValidator_ValidateSignup_BadEmail(t *testing.T) {
	v := NewAuthValidator(new(userRepoMock))

	err := v.ValidateSignup(context.Background(), "taro", "not-an-email", "password123")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestAuthValidator_ValidateSignup_DuplicateEmail(t *testing.T) {
	users := new(userRepoMock)
	v := NewAuthValidator(users)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{UserID: 1}, nil)

	err := v.ValidateSignup(context.Background(), "taro", "taro@example.com", "password123")
	assert.ErrorIs(t, err, usecase.ErrEmailAlreadyUsed)
}

func TestAuthValidator_ValidateSignup_DuplicateUsername(t *testing.T) {
	users := new(userRepoMock)
	v := NewAuthValidator(users)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, nil)
	users.On("FindByUsername", mock.Anything, "taro").Return(&model.User{UserID: 1}, nil)

	err := v.ValidateSignup(context.Background(), "taro", "taro@example.com", "password123")
	assert.ErrorIs(t, err, usecase.ErrUsernameAlreadyUsed)
}

func TestAuthValidator_ValidateLogin(t *testing.T) {
	v := NewAuthValidator(new(userRepoMock))

	assert.NoError(t, v.ValidateLogin(context.Background(), "taro@example.com", "password123"))
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "", "password123"), usecase.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "taro@example.com", ""), usecase.ErrInvalidInput)
}
