package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hbarlink/internal/http/handlers/public"
	"github.com/hbarlink/internal/wallet"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func newWalletSessionTestRouter(manager *wallet.Manager) *gin.Engine {
	r := gin.New()
	r.Use(WalletSessionMiddleware(manager))
	r.GET("/wallet/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_id": c.GetString(public.WalletSessionContextKey)})
	})
	return r
}

func TestWalletSessionMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := wallet.NewManager(wallet.NewMemoryStore(), wallet.NewTokenIssuer("test-secret"), wallet.Options{})
	r := newWalletSessionTestRouter(manager)

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/wallet/session", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status want 401 got %d", w.Code)
			}
			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response failed: %v", err)
			}
			if resp.Error == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestWalletSessionMiddlewareSetsSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := wallet.NewManager(wallet.NewMemoryStore(), wallet.NewTokenIssuer("test-secret"), wallet.Options{})
	session, token, err := manager.Start(context.Background())
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	r := newWalletSessionTestRouter(manager)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/wallet/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["session_id"] != session.ID {
		t.Fatalf("session id want %s got %s", session.ID, resp["session_id"])
	}
}
