package usecase

import (
	"context"
	"strings"
	"time"

	"kalabin-backend/internal/domain"
	"kalabin-backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthUsecase implements email/password login for the back office with a
// short-lived JWT access token and rotating refresh tokens.
type AuthUsecase struct {
	userRepo           domain.UserRepository
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

func NewAuthUsecase(userRepo domain.UserRepository, atExpiry, rtExpiry time.Duration) *AuthUsecase {
	return &AuthUsecase{
		userRepo:           userRepo,
		accessTokenExpiry:  atExpiry,
		refreshTokenExpiry: rtExpiry,
	}
}

// Login verifies the credentials and returns (accessToken, refreshToken, user).
// A wrong email and a wrong password produce the same error.
func (u *AuthUsecase) Login(ctx context.Context, email, password, device string) (string, string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", nil, domain.BadRequest("email and password are required")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", nil, asDomainError(err)
	}
	if user == nil {
		return "", "", nil, domain.BadRequest("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, domain.BadRequest("invalid email or password")
	}

	return u.issueTokens(ctx, user, device)
}

// Register creates a new back office account. The first registered user
// becomes admin; everyone after that is staff.
func (u *AuthUsecase) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.BadRequest("a valid email is required")
	}
	if len(password) < 8 {
		return nil, domain.BadRequest("password must be at least 8 characters")
	}

	existing, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, asDomainError(err)
	}
	if existing != nil {
		return nil, domain.Conflict("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Internal(err)
	}

	role := "staff"
	_, total, err := u.userRepo.GetAll(ctx, 1, 0)
	if err != nil {
		return nil, asDomainError(err)
	}
	if total == 0 {
		role = "admin"
	}

	user := &domain.User{
		ID:           utils.GenerateUUID(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, asDomainError(err)
	}
	return user, nil
}

// RefreshAccessToken rotates the refresh token: the presented token is
// revoked and a fresh pair is issued. A replayed token fails here, which is
// the point of rotating.
func (u *AuthUsecase) RefreshAccessToken(ctx context.Context, refreshTokenStr, device string) (string, string, *domain.User, error) {
	rt, err := u.userRepo.GetRefreshToken(ctx, refreshTokenStr)
	if err != nil {
		return "", "", nil, asDomainError(err)
	}
	if rt == nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		return "", "", nil, domain.BadRequest("invalid refresh token")
	}

	user, err := u.userRepo.GetByID(ctx, rt.UserID)
	if err != nil {
		return "", "", nil, asDomainError(err)
	}
	if user == nil {
		return "", "", nil, domain.BadRequest("invalid refresh token")
	}

	if err := u.userRepo.RevokeRefreshToken(ctx, refreshTokenStr); err != nil {
		return "", "", nil, asDomainError(err)
	}
	return u.issueTokens(ctx, user, device)
}

func (u *AuthUsecase) Logout(ctx context.Context, refreshTokenStr string) error {
	if refreshTokenStr == "" {
		return nil
	}
	return asDomainError(u.userRepo.RevokeRefreshToken(ctx, refreshTokenStr))
}

func (u *AuthUsecase) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asDomainError(err)
	}
	if user == nil {
		return nil, domain.NotFound("user not found")
	}
	return user, nil
}

func (u *AuthUsecase) GetAllUsers(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	users, total, err := u.userRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, asDomainError(err)
	}
	return users, total, nil
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID, firstName, lastName, phone string) (*domain.User, error) {
	user, err := u.userRepo.UpdateProfile(ctx, userID, firstName, lastName, phone)
	if err != nil {
		return nil, asDomainError(err)
	}
	return user, nil
}

func (u *AuthUsecase) issueTokens(ctx context.Context, user *domain.User, device string) (string, string, *domain.User, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Email, user.Role, u.accessTokenExpiry)
	if err != nil {
		return "", "", nil, domain.Internal(err)
	}

	refreshTokenStr := utils.GenerateUUID()
	if device == "" {
		device = "unknown"
	}
	refreshToken := &domain.RefreshToken{
		Token:     refreshTokenStr,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.refreshTokenExpiry),
		CreatedAt: time.Now(),
		Device:    device,
	}
	if err := u.userRepo.SaveRefreshToken(ctx, refreshToken); err != nil {
		return "", "", nil, asDomainError(err)
	}
	return accessToken, refreshTokenStr, user, nil
}
