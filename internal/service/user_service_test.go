package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/auth"
	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/user"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*user.User)}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	u.ID = f.nextID
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) ListAll(_ context.Context) ([]*user.User, error) {
	var out []*user.User
	for _, u := range f.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func testJWT() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", ExpiresIn: time.Hour}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testJWT())

	u, token, err := svc.Register(context.Background(), "Asha@Example.COM", "Asha", "s3cret99")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, user.RoleCustomer, u.Role)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "s3cret99", u.Password)
	assert.NotEmpty(t, u.Salt)

	claims, err := auth.ParseToken(testJWT(), token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)

	// Login accepts any casing of the email.
	u2, token2, err := svc.Login(context.Background(), "ASHA@example.com", "s3cret99")
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)
	assert.NotEmpty(t, token2)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testJWT())

	_, _, err := svc.Register(context.Background(), "asha@example.com", "Asha", "s3cret99")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "asha@example.com", "Other", "different1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testJWT())

	_, _, err := svc.Register(context.Background(), "", "Asha", "s3cret99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Register(context.Background(), "asha@example.com", "", "s3cret99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Register(context.Background(), "asha@example.com", "Asha", "short")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testJWT())

	_, _, err := svc.Register(context.Background(), "asha@example.com", "Asha", "s3cret99")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "asha@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "s3cret99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordHashUsesSalt(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testJWT())

	a, _, err := svc.Register(context.Background(), "a@example.com", "A", "same-pass1")
	require.NoError(t, err)
	b, _, err := svc.Register(context.Background(), "b@example.com", "B", "same-pass1")
	require.NoError(t, err)

	// Same password, different salts, different hashes.
	assert.NotEqual(t, a.Password, b.Password)
}
