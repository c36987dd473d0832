package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/razi5474/Task-manager/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestService builds an AuthService backed by an in-memory database
// and a low-cost hasher so the suite stays fast.
func setupTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	config := testJWTConfig()
	return NewAuthService(NewUserRepository(db), testHasher(), NewJWTManager(config))
}

func TestAuthService_Register(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"valid registration", "Alice", "alice@example.com", "password123", nil},
		{"missing name", "  ", "bob@example.com", "password123", ErrNameRequired},
		{"invalid email", "Bob", "not-an-email", "password123", ErrInvalidEmail},
		{"short password", "Bob", "bob@example.com", "short", ErrWeakPassword},
		{"overlong password", "Bob", "bob@example.com", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if user.ID == "" {
				t.Error("expected generated user ID")
			}
			if user.PasswordHash == tt.password {
				t.Error("password stored in plaintext")
			}
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Alice Again", "alice@example.com", "password123")
		if !errors.Is(err, ErrUserExists) {
			t.Errorf("Register() error = %v, want ErrUserExists", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		pair, err := svc.Login(ctx, "alice@example.com", "password123")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Error("expected both tokens to be issued")
		}
		if pair.TokenType != "Bearer" {
			t.Errorf("TokenType = %q, want Bearer", pair.TokenType)
		}
		if pair.ExpiresIn <= 0 {
			t.Errorf("ExpiresIn = %d, want positive", pair.ExpiresIn)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestAuthService_RefreshTokens(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	pair, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	t.Run("valid refresh token", func(t *testing.T) {
		renewed, err := svc.RefreshTokens(ctx, pair.RefreshToken)
		if err != nil {
			t.Fatalf("RefreshTokens() error = %v", err)
		}
		if renewed.AccessToken == "" || renewed.RefreshToken == "" {
			t.Error("expected a complete new token pair")
		}
	})

	t.Run("access token rejected", func(t *testing.T) {
		if _, err := svc.RefreshTokens(ctx, pair.AccessToken); err == nil {
			t.Error("expected error when refreshing with an access token")
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		if _, err := svc.RefreshTokens(ctx, "not-a-token"); err == nil {
			t.Error("expected error for malformed refresh token")
		}
	})
}

func TestAuthService_ValidateTokenAndGetUser(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	pair, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	claims, err := svc.ValidateToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != registered.ID {
		t.Errorf("UserID = %q, want %q", claims.UserID, registered.ID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", claims.Email)
	}

	user, err := svc.GetUser(ctx, claims.UserID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user.Name != "Alice" {
		t.Errorf("Name = %q, want Alice", user.Name)
	}
	if user.CreatedAt.After(time.Now()) {
		t.Errorf("CreatedAt in the future: %v", user.CreatedAt)
	}

	if _, err := svc.GetUser(ctx, "no-such-user"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
	}
}
