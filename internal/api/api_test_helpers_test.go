package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testSecretKey = "0123456789abcdef0123456789abcdef"
	testPassword  = "StrongPass1"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type testApp struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
}

func newTestApp(t *testing.T, configure func(*Options)) *testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cradle-api-test.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	options := Options{SecretKey: testSecretKey, Location: time.UTC, HashCost: bcrypt.MinCost}
	if configure != nil {
		configure(&options)
	}
	handler, err := NewHandler(database, options)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return testNow }

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return &testApp{app: app, handler: handler, database: database}
}

// do sends a JSON request and decodes a JSON object response.
func (ta *testApp) do(t *testing.T, method string, path string, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := ta.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	payload := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, raw, err)
		}
	}
	return response.StatusCode, payload
}

func (ta *testApp) expectStatus(t *testing.T, method string, path string, token string, body any, want int) map[string]any {
	t.Helper()
	status, payload := ta.do(t, method, path, token, body)
	if status != want {
		t.Fatalf("%s %s: expected status %d, got %d (%v)", method, path, want, status, payload)
	}
	return payload
}

func (ta *testApp) register(t *testing.T, email string) (string, string) {
	t.Helper()
	payload := ta.expectStatus(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":            email,
		"password":         testPassword,
		"confirm_password": testPassword,
	}, http.StatusCreated)
	return stringField(t, payload, "token"), stringField(t, payload, "recovery_code")
}

// onboardedUser registers an account with a last period on 2026-03-01 and a
// 28/5 cycle, and completes onboarding.
func (ta *testApp) onboardedUser(t *testing.T, email string) string {
	t.Helper()
	token, _ := ta.register(t, email)
	ta.expectStatus(t, http.MethodPut, "/api/profile", token, map[string]any{
		"display_name":      "Ana",
		"age":               29,
		"last_period_start": "2026-03-01",
		"cycle_length":      28,
		"period_length":     5,
	}, http.StatusOK)
	ta.expectStatus(t, http.MethodPost, "/api/profile/complete", token, nil, http.StatusOK)
	return token
}

func stringField(t *testing.T, payload map[string]any, key string) string {
	t.Helper()
	value, ok := payload[key].(string)
	if !ok {
		t.Fatalf("expected string field %q in %v", key, payload)
	}
	return value
}

func objectField(t *testing.T, payload map[string]any, key string) map[string]any {
	t.Helper()
	value, ok := payload[key].(map[string]any)
	if !ok {
		t.Fatalf("expected object field %q in %v", key, payload)
	}
	return value
}

func listField(t *testing.T, payload map[string]any, key string) []any {
	t.Helper()
	value, ok := payload[key].([]any)
	if !ok {
		t.Fatalf("expected list field %q in %v", key, payload)
	}
	return value
}
