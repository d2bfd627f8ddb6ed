package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalabin-backend/internal/domain"
	"kalabin-backend/pkg/utils"
)

type mockUserRepo struct {
	users  map[string]*domain.User
	tokens map[string]*domain.RefreshToken
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  map[string]*domain.User{},
		tokens: map[string]*domain.RefreshToken{},
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.Conflict("an account with this email already exists")
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetAll(_ context.Context, limit, offset int) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(m.users)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return domain.NotFound("user not found")
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id, firstName, lastName, phone string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	u.FirstName, u.LastName, u.Phone = firstName, lastName, phone
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, token *domain.RefreshToken) error {
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *mockUserRepo) GetRefreshToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	if rt, ok := m.tokens[token]; ok {
		cp := *rt
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepo) RevokeRefreshToken(_ context.Context, token string) error {
	if rt, ok := m.tokens[token]; ok {
		rt.Revoked = true
	}
	return nil
}

func newTestAuthUsecase(t *testing.T) (*AuthUsecase, *mockUserRepo) {
	t.Helper()
	utils.SetSecret("test-secret")
	repo := newMockUserRepo()
	return NewAuthUsecase(repo, 15*time.Minute, 7*24*time.Hour), repo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	user, err := uc.Register(ctx, "  Admin@Example.com ", "correct-horse", "Ada", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, "admin", user.Role, "the first account becomes admin")
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	second, err := uc.Register(ctx, "staff@example.com", "correct-horse", "Bob", "")
	require.NoError(t, err)
	assert.Equal(t, "staff", second.Role)

	access, refresh, got, err := uc.Login(ctx, "admin@example.com", "correct-horse", "Chrome on Linux")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, user.ID, got.ID)

	claims, err := utils.ValidateJWT(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["sub"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	uc, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "a@b.com", "correct-horse", "", "")
	require.NoError(t, err)

	_, _, _, err = uc.Login(ctx, "a@b.com", "wrong-password", "")
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
	wrongPassword := err.Error()

	_, _, _, err = uc.Login(ctx, "nobody@b.com", "correct-horse", "")
	require.Error(t, err)
	// unknown email and wrong password are indistinguishable
	assert.Equal(t, wrongPassword, err.Error())
}

func TestRegister_Validation(t *testing.T) {
	uc, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "not-an-email", "correct-horse", "", "")
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))

	_, err = uc.Register(ctx, "a@b.com", "short", "", "")
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))

	_, err = uc.Register(ctx, "a@b.com", "correct-horse", "", "")
	require.NoError(t, err)
	_, err = uc.Register(ctx, "A@B.com", "correct-horse", "", "")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestRefreshRotation(t *testing.T) {
	uc, repo := newTestAuthUsecase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "a@b.com", "correct-horse", "", "")
	require.NoError(t, err)
	_, refresh, _, err := uc.Login(ctx, "a@b.com", "correct-horse", "")
	require.NoError(t, err)

	_, rotated, _, err := uc.RefreshAccessToken(ctx, refresh, "")
	require.NoError(t, err)
	assert.NotEqual(t, refresh, rotated)

	// replaying the old token fails; it was revoked by the rotation
	_, _, _, err = uc.RefreshAccessToken(ctx, refresh, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))

	// expired tokens are rejected even when unrevoked
	repo.tokens[rotated].ExpiresAt = time.Now().Add(-time.Minute)
	_, _, _, err = uc.RefreshAccessToken(ctx, rotated, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
}

func TestLogout(t *testing.T) {
	uc, repo := newTestAuthUsecase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "a@b.com", "correct-horse", "", "")
	require.NoError(t, err)
	_, refresh, _, err := uc.Login(ctx, "a@b.com", "correct-horse", "")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, refresh))
	assert.True(t, repo.tokens[refresh].Revoked)

	// logging out without a token is a no-op
	require.NoError(t, uc.Logout(ctx, ""))
}
