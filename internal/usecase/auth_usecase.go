package usecase

import (
	"context"
	"errors"
	"strings"

	"skillsync/internal/domain/user"
	"skillsync/internal/pkg/jwt"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type RegisterRequest struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	AgreedToTerms bool
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Register(ctx context.Context, req RegisterRequest) (user.User, TokenPair, error)
	Login(ctx context.Context, email, password string) (user.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

type Auth struct {
	users  repository.UserRepository
	tokens jwt.Service
}

func NewAuthUsecase(users repository.UserRepository, tokens jwt.Service) *Auth {
	return &Auth{users: users, tokens: tokens}
}

func (u *Auth) Register(ctx context.Context, req RegisterRequest) (user.User, TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") || len(req.Password) < 8 {
		return user.User{}, TokenPair{}, ErrInvalidInput
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return user.User{}, TokenPair{}, ErrInvalidInput
	}

	taken, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}
	if taken {
		return user.User{}, TokenPair{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}

	acct := user.User{
		ID:            uuid.New(),
		Email:         email,
		PasswordHash:  string(hash),
		Role:          user.RoleUser,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		AgreedToTerms: req.AgreedToTerms,
	}
	if err := u.users.Create(ctx, acct); err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}

	pair, err := u.issueTokens(acct)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}
	return acct, pair, nil
}

func (u *Auth) Login(ctx context.Context, email, password string) (user.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return user.User{}, TokenPair{}, ErrInvalidInput
	}

	acct, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return user.User{}, TokenPair{}, ErrInternal
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return user.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := u.issueTokens(acct)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}
	return acct, pair, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := u.tokens.ValidateToken(refreshToken)
	if err != nil || !u.tokens.IsRefreshToken(claims) {
		return TokenPair{}, ErrInvalidToken
	}

	// Re-read the account so a role change since issuance lands in the new
	// access token.
	acct, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, ErrInternal
	}

	return u.issueTokens(acct)
}

func (u *Auth) issueTokens(acct user.User) (TokenPair, error) {
	access, err := u.tokens.GenerateAccessToken(acct.ID, acct.Email, string(acct.Role))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := u.tokens.GenerateRefreshToken(acct.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
