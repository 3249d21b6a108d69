package validator_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/usecase"
	"app/internal/validator"

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

func (m *userRepoMock) EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error) {
	panic("not used in validator tests")
}

func (m *userRepoMock) Update(ctx context.Context, user *model.User) error {
	panic("not used in validator tests")
}

func (m *userRepoMock) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	panic("not used in validator tests")
}

func (m *userRepoMock) Delete(ctx context.Context, userID int64) error {
	panic("not used in validator tests")
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	return he.Status
}

func TestValidateSignup_Required(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateSignup(context.Background(), "", "secret1", "A")
	assert.Error(t, err)
	assert.Equal(t, 400, httpStatus(t, err))
	assert.Contains(t, err.Error(), "Email, password, and name are required")
}

func TestValidateSignup_BadEmailFormat(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	for _, email := range []string{"not-an-email", "a@b", "a b@c.com", "@b.com"} {
		err := v.ValidateSignup(context.Background(), email, "secret1", "A")
		assert.Error(t, err, email)
		assert.Contains(t, err.Error(), "Invalid email format")
	}
}

func TestValidateSignup_ShortPassword(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateSignup(context.Background(), "a@b.com", "12345", "A")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
}

func TestValidateSignup_DuplicateEmail(t *testing.T) {
	users := new(userRepoMock)
	users.On("FindByEmail", mock.Anything, "a@b.com").Return(&model.User{ID: 1}, nil)

	v := validator.NewAuthValidator(users)

	err := v.ValidateSignup(context.Background(), "a@b.com", "secret1", "A")
	assert.Error(t, err)
	assert.Equal(t, 409, httpStatus(t, err))
}

func TestValidateSignup_OK(t *testing.T) {
	users := new(userRepoMock)
	users.On("FindByEmail", mock.Anything, "a@b.com").Return(nil, repository.ErrUserNotFound)

	v := validator.NewAuthValidator(users)

	err := v.ValidateSignup(context.Background(), "a@b.com", "secret1", "A")
	assert.NoError(t, err)
}

func TestValidateLogin_Required(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateLogin(context.Background(), "a@b.com", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Email and password are required")
}

func TestValidateChangePassword_ShortNew(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateChangePassword(context.Background(), "secret1", "12345")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
}
