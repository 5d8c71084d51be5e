package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret"

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", AuthMiddleware(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c), "is_admin": IsAdmin(c)})
	})
	app.Get("/admin", AuthMiddleware(testSecret), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	validToken, err := GenerateAccessToken("user-1", false, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	adminToken, err := GenerateAccessToken("admin-1", true, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	expiredToken, err := GenerateAccessToken("user-1", false, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	wrongSecretToken, err := GenerateAccessToken("user-1", false, "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "/protected", "", 401},
		{"malformed header", "/protected", "Token abc", 401},
		{"garbage token", "/protected", "Bearer not-a-token", 401},
		{"expired token", "/protected", "Bearer " + expiredToken, 401},
		{"wrong secret", "/protected", "Bearer " + wrongSecretToken, 401},
		{"valid token", "/protected", "Bearer " + validToken, 200},
		{"non-admin on admin route", "/admin", "Bearer " + validToken, 403},
		{"admin on admin route", "/admin", "Bearer " + adminToken, 200},
	}

	app := newProtectedApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
