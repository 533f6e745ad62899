package pkgrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouterStampsRoutePattern(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})

	var got string
	router.GET("/things/:id", func(ctx context.Context, r *http.Request) (any, error) {
		got = matchedRoutePath(r)
		return nil, nil
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got != "/things/:id" {
		t.Fatalf("route pattern = %q, want /things/:id", got)
	}
}

func TestMatchedRoutePathFallsBackToPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/unregistered/route", nil)
	if got := matchedRoutePath(req); got != "/unregistered/route" {
		t.Fatalf("fallback = %q, want the raw path", got)
	}
}
