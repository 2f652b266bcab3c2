package middleware

import (
	"net"
	"net/http"
	"strings"
)

// HSTS instructs browsers to use HTTPS for a year, subdomains included.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// SecureCookies rewrites outgoing Set-Cookie headers so every cookie
// carries Secure, HttpOnly, and a SameSite attribute.
func SecureCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &cookieRewriter{ResponseWriter: w}
		next.ServeHTTP(cw, r)
	})
}

type cookieRewriter struct {
	http.ResponseWriter
	wroteHeader bool
}

// Write forces WriteHeader through the wrapper so cookies are rewritten
// even when the handler never calls WriteHeader itself.
func (cw *cookieRewriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *cookieRewriter) WriteHeader(statusCode int) {
	if cw.wroteHeader {
		return
	}
	cw.wroteHeader = true

	cookies := cw.ResponseWriter.Header()["Set-Cookie"]
	if len(cookies) > 0 {
		cw.ResponseWriter.Header().Del("Set-Cookie")
		for _, cookie := range cookies {
			cw.ResponseWriter.Header().Add("Set-Cookie", hardenCookie(cookie))
		}
	}

	cw.ResponseWriter.WriteHeader(statusCode)
}

// hardenCookie appends Secure, HttpOnly, and SameSite=Strict to a raw
// Set-Cookie value unless the attribute is already present.
func hardenCookie(cookie string) string {
	parts := strings.Split(cookie, ";")

	var hasSecure, hasHTTPOnly, hasSameSite bool
	for i, p := range parts {
		p = strings.TrimSpace(p)
		switch lower := strings.ToLower(p); {
		case lower == "secure":
			hasSecure = true
		case lower == "httponly":
			hasHTTPOnly = true
		case strings.HasPrefix(lower, "samesite"):
			hasSameSite = true
		}
		parts[i] = p
	}

	if !hasSecure {
		parts = append(parts, "Secure")
	}
	if !hasHTTPOnly {
		parts = append(parts, "HttpOnly")
	}
	if !hasSameSite {
		parts = append(parts, "SameSite=Strict")
	}

	return strings.Join(parts, "; ")
}

// RequireHTTPS redirects plain HTTP requests to HTTPS. Only meant for
// deployments where this process terminates TLS itself, not behind a
// reverse proxy.
func RequireHTTPS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isHTTPS := r.TLS != nil ||
			r.Header.Get("X-Forwarded-Proto") == "https" ||
			r.URL.Scheme == "https"

		if !isHTTPS {
			httpsURL := "https://" + r.Host + r.RequestURI
			http.Redirect(w, r, httpsURL, http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IsHostAllowed validates a request host against the configured allow
// list, ignoring ports. Guards the HTTP-to-HTTPS redirect against host
// header poisoning. An empty list allows everything.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	host = strings.ToLower(strings.TrimSpace(host))
	bareHost, _, err := net.SplitHostPort(host)
	if err != nil {
		bareHost = host
	}

	for _, allowed := range allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		bareAllowed, _, err := net.SplitHostPort(allowed)
		if err != nil {
			// No port, or a bare IPv6 address whose colons are not a port
			bareAllowed = allowed
		}

		if host == allowed || bareHost == bareAllowed {
			return true
		}
	}

	return false
}
