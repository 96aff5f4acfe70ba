package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubSession struct {
	authed bool
	admin  bool
}

func (s *stubSession) IsAuthenticated() bool { return s.authed }
func (s *stubSession) IsAdmin() bool         { return s.admin }

func guardedRequest(t *testing.T, guard func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	return rec
}

func TestRequireAuth(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		rec := guardedRequest(t, RequireAuth(&stubSession{}, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		rec := guardedRequest(t, RequireAuth(&stubSession{authed: true}, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		rec := guardedRequest(t, RequireAdmin(&stubSession{}, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("authenticated non-admin", func(t *testing.T) {
		rec := guardedRequest(t, RequireAdmin(&stubSession{authed: true}, nil))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin", func(t *testing.T) {
		rec := guardedRequest(t, RequireAdmin(&stubSession{authed: true, admin: true}, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
