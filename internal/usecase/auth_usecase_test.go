package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillsync/internal/domain/user"
	"skillsync/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func testJWT() jwt.Service {
	return jwt.NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	users := newMockUserRepo()
	uc := NewAuthUsecase(users, testJWT())

	acct, pair, err := uc.Register(context.Background(), RegisterRequest{
		Email:         "  Jordan@Example.com ",
		Password:      "a longer password",
		FirstName:     "Jordan",
		LastName:      "Reed",
		AgreedToTerms: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acct.Email != "jordan@example.com" {
		t.Fatalf("email not normalized: %s", acct.Email)
	}
	if acct.Role != user.RoleUser {
		t.Fatalf("role = %s, want user", acct.Role)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("token pair missing")
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte("a longer password")) != nil {
		t.Fatalf("stored hash does not verify")
	}

	_, loginPair, err := uc.Login(context.Background(), "jordan@example.com", "a longer password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loginPair.AccessToken == "" {
		t.Fatalf("login issued no access token")
	}
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	existing := user.User{ID: uuid.New(), Email: "taken@example.com"}
	uc := NewAuthUsecase(newMockUserRepo(existing), testJWT())

	_, _, err := uc.Register(context.Background(), RegisterRequest{
		Email: "taken@example.com", Password: "a longer password", FirstName: "A",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuth_Register_WeakInput(t *testing.T) {
	uc := NewAuthUsecase(newMockUserRepo(), testJWT())

	cases := []RegisterRequest{
		{Email: "", Password: "a longer password", FirstName: "A"},
		{Email: "no-at-sign", Password: "a longer password", FirstName: "A"},
		{Email: "a@b.com", Password: "short", FirstName: "A"},
		{Email: "a@b.com", Password: "a longer password", FirstName: "  "},
	}
	for i, req := range cases {
		if _, _, err := uc.Register(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("the real password"), bcrypt.MinCost)
	existing := user.User{ID: uuid.New(), Email: "u@example.com", PasswordHash: string(hash)}
	uc := NewAuthUsecase(newMockUserRepo(existing), testJWT())

	_, _, err := uc.Login(context.Background(), "u@example.com", "a wrong password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_Login_UnknownEmail(t *testing.T) {
	uc := NewAuthUsecase(newMockUserRepo(), testJWT())
	_, _, err := uc.Login(context.Background(), "ghost@example.com", "whatever pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_Refresh(t *testing.T) {
	existing := user.User{ID: uuid.New(), Email: "u@example.com", Role: user.RoleEmployerAdmin}
	svc := testJWT()
	uc := NewAuthUsecase(newMockUserRepo(existing), svc)

	refresh, err := svc.GenerateRefreshToken(existing.ID)
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}

	pair, err := uc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := svc.ValidateToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate new access token: %v", err)
	}
	if claims.UserID != existing.ID || claims.Role != string(user.RoleEmployerAdmin) {
		t.Fatalf("claims = %+v, want user %s role employer_admin", claims, existing.ID)
	}
}

func TestAuth_Refresh_AccessTokenRejected(t *testing.T) {
	existing := user.User{ID: uuid.New(), Email: "u@example.com"}
	svc := testJWT()
	uc := NewAuthUsecase(newMockUserRepo(existing), svc)

	access, err := svc.GenerateAccessToken(existing.ID, existing.Email, "user")
	if err != nil {
		t.Fatalf("generate access: %v", err)
	}
	if _, err := uc.Refresh(context.Background(), access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}
