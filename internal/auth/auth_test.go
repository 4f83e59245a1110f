package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return NewService("admin", string(hash), "test-secret")
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t)
	token, err := svc.Login(context.Background(), "admin", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	sub, err := svc.ValidateToken(context.Background(), token)
	if err != nil || sub != "admin" {
		t.Fatalf("ValidateToken = %q, %v", sub, err)
	}
}

func TestLogin_Rejections(t *testing.T) {
	svc := newTestService(t)
	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"someone", "hunter2"},
	} {
		if _, err := svc.Login(context.Background(), tc.user, tc.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) err = %v", tc.user, tc.pass, err)
		}
	}
	if _, err := NewService("admin", "", "s").Login(context.Background(), "admin", "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("unconfigured err = %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(t)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, err := svc.Login(context.Background(), "admin", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return issued.Add(13 * time.Hour) }
	if _, err := svc.ValidateToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestService(t)
	token, _ := svc.Login(context.Background(), "admin", "hunter2")
	other := newTestService(t)
	other.secret = []byte("different")
	if _, err := other.ValidateToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v", err)
	}
}

func TestHandler_Login(t *testing.T) {
	h := NewHandler(newTestService(t), nil)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"admin","password":"hunter2"}`)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"token"`) {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"admin","password":"nope"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/login", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("code = %d", rec.Code)
	}
}
