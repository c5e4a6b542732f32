package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/mocks"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceFixture struct {
	svc       UserService
	users     *mocks.TestifyMockUserStore
	tokens    *mocks.MockJWTService
	passwords *mocks.MockPasswordVerifier
	sqlMock   sqlmock.Sqlmock
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &userServiceFixture{
		users:     &mocks.TestifyMockUserStore{},
		tokens:    &mocks.MockJWTService{Token: "signed-token"},
		passwords: &mocks.MockPasswordVerifier{ShouldSucceed: true},
		sqlMock:   sqlMock,
	}
	f.svc, err = NewUserService(f.users, db, f.tokens, f.passwords, nil)
	require.NoError(t, err)
	return f
}

func requireUserServiceError(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.Error(t, err)
	var svcErr *UserServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.ErrorIs(t, err, kind)
	assert.Equal(t, message, svcErr.Message)
}

func signupInput() SignupInput {
	return SignupInput{
		Name:     "Max",
		Email:    "Max@Example.com",
		Password: "supersecret",
		Image:    "uploads/images/max.png",
	}
}

func TestNewUserServiceRequiresDependencies(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewUserService(nil, db, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewUserService(&mocks.TestifyMockUserStore{}, nil, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewUserService(&mocks.TestifyMockUserStore{}, db, nil, &mocks.MockPasswordVerifier{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewUserService(&mocks.TestifyMockUserStore{}, db, &mocks.MockJWTService{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues token", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "max@example.com" && u.Password == "supersecret"
		})).Return(nil)

		var tokenFor uuid.UUID
		f.tokens.GenerateTokenFn = func(_ context.Context, userID uuid.UUID, email string) (string, error) {
			tokenFor = userID
			return "signed-token", nil
		}

		res, err := f.svc.Signup(ctx, signupInput())
		require.NoError(t, err)
		assert.Equal(t, "signed-token", res.Token)
		assert.Equal(t, res.User.ID, tokenFor)
		assert.Empty(t, res.User.PlaceIDs)
		f.users.AssertExpectations(t)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newUserServiceFixture(t)
		in := signupInput()
		in.Password = "short"

		_, err := f.svc.Signup(ctx, in)
		requireUserServiceError(t, err, ErrInvalidInput, msgSignupInvalidInput)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing image", func(t *testing.T) {
		f := newUserServiceFixture(t)
		in := signupInput()
		in.Image = ""

		_, err := f.svc.Signup(ctx, in)
		requireUserServiceError(t, err, ErrInvalidInput, msgSignupInvalidInput)
	})

	t.Run("existing email", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.users.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		_, err := f.svc.Signup(ctx, signupInput())
		requireUserServiceError(t, err, ErrEmailTaken, msgUserExists)
	})

	t.Run("storage fault", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.users.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := f.svc.Signup(ctx, signupInput())
		requireUserServiceError(t, err, ErrUnavailable, msgSignupFailed)
	})

	t.Run("token failure", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.users.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.tokens.Err = errors.New("signing failed")

		_, err := f.svc.Signup(ctx, signupInput())
		requireUserServiceError(t, err, ErrUnavailable, msgSignupFailed)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	existing := func(t *testing.T) *domain.User {
		user := newUser(t)
		user.Password = ""
		user.HashedPassword = "$2a$04$stored"
		return user
	}

	t.Run("valid credentials", func(t *testing.T) {
		f := newUserServiceFixture(t)
		user := existing(t)
		f.users.On("GetByEmail", mock.Anything, "max@example.com").Return(user, nil)

		res, err := f.svc.Login(ctx, "max@example.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, res.User.ID)
		assert.Equal(t, "signed-token", res.Token)
		assert.Equal(t, "$2a$04$stored", f.passwords.CompareCalledWith.HashedPassword)
		assert.Equal(t, "supersecret", f.passwords.CompareCalledWith.Password)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, store.ErrUserNotFound)

		_, err := f.svc.Login(ctx, "nobody@example.com", "supersecret")
		requireUserServiceError(t, err, ErrInvalidCredentials, msgInvalidCredentials)
		assert.Zero(t, f.passwords.CompareCallCount)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.passwords.ShouldSucceed = false
		f.users.On("GetByEmail", mock.Anything, mock.Anything).Return(existing(t), nil)

		res, err := f.svc.Login(ctx, "max@example.com", "wrong")
		assert.Nil(t, res)
		requireUserServiceError(t, err, ErrInvalidCredentials, msgInvalidCredentials)
	})

	t.Run("lookup fault", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		_, err := f.svc.Login(ctx, "max@example.com", "supersecret")
		requireUserServiceError(t, err, ErrUnavailable, msgLoginFailed)
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("returns users", func(t *testing.T) {
		f := newUserServiceFixture(t)
		users := []*domain.User{newUser(t)}
		f.users.On("List", mock.Anything).Return(users, nil)

		got, err := f.svc.ListUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, users, got)
	})

	t.Run("storage fault", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.users.On("List", mock.Anything).Return(nil, errors.New("timeout"))

		_, err := f.svc.ListUsers(ctx)
		requireUserServiceError(t, err, ErrUnavailable, msgFetchUsersFailed)
	})
}
