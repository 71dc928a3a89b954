package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, role string, secret []byte) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func wrapped() (http.Handler, *bool) {
	called := false
	middleware := NewMiddleware(testSecret, NewDefaultPolicy([]string{"/healthz"}, nil))
	handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &called
}

func TestMiddlewareAllowsExemptPath(t *testing.T) {
	handler, called := wrapped()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !*called || rec.Code != http.StatusOK {
		t.Fatalf("exempt path blocked: called=%v status=%d", *called, rec.Code)
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	handler, called := wrapped()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))

	if *called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got called=%v status=%d", *called, rec.Code)
	}
}

func TestMiddlewareViewerCanRead(t *testing.T) {
	handler, called := wrapped()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "viewer", testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !*called || rec.Code != http.StatusOK {
		t.Fatalf("viewer read blocked: called=%v status=%d", *called, rec.Code)
	}
}

func TestMiddlewareViewerCannotWrite(t *testing.T) {
	handler, called := wrapped()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "viewer", testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if *called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got called=%v status=%d", *called, rec.Code)
	}
}

func TestMiddlewareAdminCanWrite(t *testing.T) {
	handler, called := wrapped()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin", testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !*called || rec.Code != http.StatusOK {
		t.Fatalf("admin write blocked: called=%v status=%d", *called, rec.Code)
	}
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	handler, called := wrapped()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin", []byte("other-secret")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if *called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got called=%v status=%d", *called, rec.Code)
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := ParseJWT(token, testSecret); err == nil {
		t.Fatalf("expected expired token rejected")
	}
}

func TestParseJWTRejectsUnknownRole(t *testing.T) {
	token := signToken(t, "superuser", testSecret)
	if _, err := ParseJWT(token, testSecret); err == nil {
		t.Fatalf("expected unknown role rejected")
	}
}

func TestRoleAtLeast(t *testing.T) {
	if !RoleAtLeast(RoleAdmin, RoleViewer) {
		t.Fatalf("admin must satisfy viewer")
	}
	if RoleAtLeast(RoleViewer, RoleAdmin) {
		t.Fatalf("viewer must not satisfy admin")
	}
	if RoleAtLeast(Role("other"), RoleViewer) {
		t.Fatalf("unknown role must not satisfy viewer")
	}
}
