package api

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	domainuser "github.com/razi5474/Task-manager/domain/user"
	"github.com/gofiber/fiber/v2"
)

// mockAuthPort is a test double for auth.AuthPort.
type mockAuthPort struct {
	validateTokenFunc func(ctx context.Context, token string) (*domainuser.Claims, error)
	getUserFunc       func(ctx context.Context, userID string) (*domainuser.User, error)
}

func (m *mockAuthPort) ValidateToken(ctx context.Context, token string) (*domainuser.Claims, error) {
	return m.validateTokenFunc(ctx, token)
}

func (m *mockAuthPort) GetUser(ctx context.Context, userID string) (*domainuser.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func TestAuthMiddleware(t *testing.T) {
	validClaims := &domainuser.Claims{UserID: "user-123", Email: "test@example.com"}

	tests := []struct {
		name           string
		authHeader     string
		validateResult *domainuser.Claims
		validateErr    error
		wantStatus     int
		wantBody       string
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: fiber.StatusUnauthorized,
			wantBody:   "Authorization header is required",
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: fiber.StatusUnauthorized,
			wantBody:   "Invalid authorization header format",
		},
		{
			name:       "empty token",
			authHeader: "Bearer ",
			wantStatus: fiber.StatusUnauthorized,
			wantBody:   "Token is required",
		},
		{
			name:        "rejected token",
			authHeader:  "Bearer bad-token",
			validateErr: errors.New("invalid token"),
			wantStatus:  fiber.StatusUnauthorized,
			wantBody:    "Invalid or expired token",
		},
		{
			name:           "valid token",
			authHeader:     "Bearer good-token",
			validateResult: validClaims,
			wantStatus:     fiber.StatusOK,
			wantBody:       "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authPort := &mockAuthPort{
				validateTokenFunc: func(_ context.Context, _ string) (*domainuser.Claims, error) {
					return tt.validateResult, tt.validateErr
				},
			}

			app := fiber.New()
			app.Get("/protected", AuthMiddleware(authPort), func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", body, tt.wantBody)
			}
		})
	}
}

func TestAuthMiddleware_StoresClaims(t *testing.T) {
	wantClaims := &domainuser.Claims{UserID: "user-456", Email: "claims@example.com"}
	authPort := &mockAuthPort{
		validateTokenFunc: func(_ context.Context, token string) (*domainuser.Claims, error) {
			if token != "the-token" {
				t.Errorf("middleware passed token %q, want %q", token, "the-token")
			}
			return wantClaims, nil
		},
	}

	var gotClaims *domainuser.Claims
	app := fiber.New()
	app.Get("/protected", AuthMiddleware(authPort), func(c *fiber.Ctx) error {
		gotClaims, _ = c.Locals(UserContextKey).(*domainuser.Claims)
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer the-token")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if gotClaims == nil {
		t.Fatal("claims not stored in context")
	}
	if gotClaims.UserID != wantClaims.UserID || gotClaims.Email != wantClaims.Email {
		t.Errorf("stored claims = %+v, want %+v", gotClaims, wantClaims)
	}
}
