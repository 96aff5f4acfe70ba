package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/powercore-shop/storefront/pkg/errors"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Options{BaseURL: srv.URL, Tokens: tokens})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, srv
}

func TestBearerTokenInjected(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}), staticToken("tok-123"))

	if _, err := client.MyOrders(context.Background()); err != nil {
		t.Fatalf("my orders: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}

func TestNoTokenMeansNoAuthHeader(t *testing.T) {
	t.Parallel()

	var sawHeader bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{"page":1,"limit":20,"total":0,"pages":0,"items":[]}`))
	}), staticToken(""))

	if _, err := client.ListProducts(context.Background(), ProductFilters{}, 1, 20); err != nil {
		t.Fatalf("list products: %v", err)
	}
	if sawHeader {
		t.Fatal("guest request should not carry an Authorization header")
	}
}

func TestErrorBodyMessageSurfaced(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Товар не знайдено"}`))
	}), nil)

	_, err := client.GetProduct(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed.Message() != "Товар не знайдено" {
		t.Fatalf("expected backend message, got %q", typed.Message())
	}
}

func TestErrorSynthesizedFromStatusWhenBodyUnparseable(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream exploded</html>"))
	}), nil)

	_, err := client.AdminStats(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if typed.Message() == "" {
		t.Fatal("expected synthesized message from status")
	}
}

func TestValidationStatusesMapToValidationCode(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusBadRequest, http.StatusUnprocessableEntity} {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"bad payload"}`))
		}), nil)

		err := client.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "longenough", FullName: "A"})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("status %d: expected validation code, got %v", status, err)
		}
	}
}

func TestConnectionRefusedBecomesUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := New(Options{BaseURL: base})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	healthErr := client.Health(context.Background())
	typed := pkgerrors.As(healthErr)
	if typed == nil || typed.Code() != pkgerrors.CodeUnreachable {
		t.Fatalf("expected unreachable, got %v", healthErr)
	}
}

func TestCancelledContextIsNotUnreachable(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Health(ctx)
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnreachable {
		t.Fatalf("cancellation must not be reported as unreachable: %v", err)
	}
}

func TestRequestValidationBlocksBadPayloadLocally(t *testing.T) {
	t.Parallel()

	var called bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), nil)

	_, err := client.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "x"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected local validation error, got %v", err)
	}
	if called {
		t.Fatal("invalid payload must not reach the backend")
	}
}

func TestAdminStatusUpdatesUseQueryParams(t *testing.T) {
	t.Parallel()

	var gotMethod, gotQuery, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"id":"o1","order_status":"shipped"}`))
	}), staticToken("admin-tok"))

	order, err := client.UpdateOrderStatus(context.Background(), "o1", "shipped")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/v1/admin/orders/o1/status" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotQuery != "order_status=shipped" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if order.OrderStatus != "shipped" {
		t.Fatalf("unexpected order %+v", order)
	}
}
