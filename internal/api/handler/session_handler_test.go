package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

func newSessionHandler(sessions *stubSessions, creds *stubCreds) *SessionHandler {
	return NewSessionHandler(sessions, creds, zerolog.Nop())
}

func findCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == domain.SessionCookieName {
			return ck
		}
	}
	return nil
}

func TestSessionHandler_Login_Success(t *testing.T) {
	e := newEcho()
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h := newSessionHandler(
		&stubSessions{issueFn: func(role domain.Role) (string, time.Time, error) {
			if role != domain.RoleOwner {
				t.Fatalf("unexpected role %q", role)
			}
			return "tok", exp, nil
		}},
		&stubCreds{authFn: func(password string) (domain.Role, error) {
			if password != "hunter2" {
				t.Fatalf("unexpected password %q", password)
			}
			return domain.RoleOwner, nil
		}},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(e, h.Login, req, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true || resp["role"] != "owner" || resp["token"] != "tok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["expires_at"] != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected expires_at: %v", resp["expires_at"])
	}

	ck := findCookie(rec)
	if ck == nil || ck.Value != "tok" || !ck.HttpOnly {
		t.Fatalf("expected http-only session cookie, got %+v", ck)
	}
}

func TestSessionHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	h := newSessionHandler(
		&stubSessions{issueFn: func(domain.Role) (string, time.Time, error) {
			t.Fatalf("should not issue")
			return "", time.Time{}, nil
		}},
		&stubCreds{authFn: func(string) (domain.Role, error) { return "", domain.ErrInvalidCredentials }},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(e, h.Login, req, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if findCookie(rec) != nil {
		t.Fatalf("no cookie expected on failed login")
	}
}

func TestSessionHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	h := newSessionHandler(&stubSessions{}, &stubCreds{authFn: func(string) (domain.Role, error) {
		t.Fatalf("should not be called")
		return "", nil
	}})

	for _, body := range []string{"{", `{}`, `{"password":""}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(e, h.Login, req, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestSessionHandler_Verify(t *testing.T) {
	e := newEcho()
	h := newSessionHandler(&stubSessions{validateFn: func(token string) domain.SessionValidation {
		if token == "good" {
			return domain.SessionValidation{Valid: true, Role: domain.RoleAdmin}
		}
		return domain.Invalid(domain.ErrExpiredSession)
	}}, &stubCreds{})

	// valid cookie
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: domain.SessionCookieName, Value: "good"})
	rec := serve(e, h.Verify, req, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"authenticated":true`) ||
		!strings.Contains(rec.Body.String(), `"role":"admin"`) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	// expired cookie is cleared
	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: domain.SessionCookieName, Value: "stale"})
	rec = serve(e, h.Verify, req, "")
	if !strings.Contains(rec.Body.String(), `"authenticated":false`) {
		t.Fatalf("expected unauthenticated, got %s", rec.Body.String())
	}
	if ck := findCookie(rec); ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("expected clearing cookie, got %+v", ck)
	}

	// stale cookie, valid bearer
	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: domain.SessionCookieName, Value: "stale"})
	req.Header.Set("Authorization", "Bearer good")
	rec = serve(e, h.Verify, req, "")
	if !strings.Contains(rec.Body.String(), `"authenticated":true`) {
		t.Fatalf("expected bearer to authenticate, got %s", rec.Body.String())
	}

	// no credentials at all
	rec = serve(e, h.Verify, httptest.NewRequest(http.MethodGet, "/api/session", nil), "")
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), "role") {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSessionHandler_Logout(t *testing.T) {
	e := newEcho()
	h := newSessionHandler(&stubSessions{}, &stubCreds{})

	rec := serve(e, h.Logout, httptest.NewRequest(http.MethodPost, "/api/logout", nil), "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
	if ck := findCookie(rec); ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("expected clearing cookie, got %+v", ck)
	}
}
