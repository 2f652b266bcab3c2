package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{
			name:         "empty allow list allows everything",
			host:         "example.com",
			allowedHosts: []string{},
			want:         true,
		},
		{
			name:         "exact match with port",
			host:         "example.com:8080",
			allowedHosts: []string{"example.com:8080"},
			want:         true,
		},
		{
			name:         "host without port matches allowed with port",
			host:         "example.com",
			allowedHosts: []string{"example.com:8080"},
			want:         true,
		},
		{
			name:         "host with port matches allowed without port",
			host:         "localhost:3000",
			allowedHosts: []string{"localhost"},
			want:         true,
		},
		{
			name:         "IPv6 loopback with port",
			host:         "[::1]:8080",
			allowedHosts: []string{"[::1]:8080"},
			want:         true,
		},
		{
			name:         "IPv6 with port matches allowed without port",
			host:         "[::1]:8080",
			allowedHosts: []string{"::1"},
			want:         true,
		},
		{
			name:         "case insensitive",
			host:         "Example.COM:8080",
			allowedHosts: []string{"example.com"},
			want:         true,
		},
		{
			name:         "surrounding whitespace ignored",
			host:         "  example.com:8080  ",
			allowedHosts: []string{"  example.com  "},
			want:         true,
		},
		{
			name:         "match later entry in list",
			host:         "app.example.com",
			allowedHosts: []string{"example.com", "app.example.com"},
			want:         true,
		},
		{
			name:         "unknown host rejected",
			host:         "evil.com",
			allowedHosts: []string{"example.com"},
			want:         false,
		},
		{
			name:         "subdomain does not match parent",
			host:         "sub.example.com",
			allowedHosts: []string{"example.com"},
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsHostAllowed(tt.host, tt.allowedHosts)
			if got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v",
					tt.host, tt.allowedHosts, got, tt.want)
			}
		})
	}
}

func TestHSTS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := HSTS(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	got := rr.Header().Get("Strict-Transport-Security")
	if !strings.Contains(got, "max-age=31536000") {
		t.Errorf("expected HSTS header with one year max-age, got %q", got)
	}
}

func TestSecureCookies_AddsMissingAttributes(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "abc", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})

	handler := SecureCookies(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	cookie := rr.Header().Get("Set-Cookie")
	for _, attr := range []string{"Secure", "HttpOnly", "SameSite=Strict"} {
		if !strings.Contains(cookie, attr) {
			t.Errorf("cookie %q missing %s", cookie, attr)
		}
	}
}

func TestSecureCookies_KeepsExistingSameSite(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "access_token=abc; Path=/; SameSite=Lax")
		w.Write([]byte("ok"))
	})

	handler := SecureCookies(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	cookie := rr.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "SameSite=Lax") {
		t.Errorf("expected SameSite=Lax to be preserved, got %q", cookie)
	}
	if strings.Contains(cookie, "SameSite=Strict") {
		t.Errorf("SameSite should not be overridden, got %q", cookie)
	}
	if !strings.Contains(cookie, "Secure") || !strings.Contains(cookie, "HttpOnly") {
		t.Errorf("expected Secure and HttpOnly to be added, got %q", cookie)
	}
}

func TestRequireHTTPS_RedirectsPlainHTTP(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for plain HTTP")
	})

	handler := RequireHTTPS(next)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "https://") {
		t.Errorf("expected https redirect, got %q", loc)
	}
}

func TestRequireHTTPS_ForwardedProto(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RequireHTTPS(next)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 behind TLS-terminating proxy, got %d", rr.Code)
	}
}
