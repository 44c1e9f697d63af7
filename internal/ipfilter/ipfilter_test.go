package ipfilter

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidateAllowList(t *testing.T) {
	tests := []struct {
		name    string
		list    []string
		wantErr string
	}{
		{"empty allows everyone", nil, ""},
		{"office and vpn", []string{"203.0.113.7", "10.8.0.0/16"}, ""},
		{"loopback both families", []string{"127.0.0.1", "::1"}, ""},
		{"blank lines from yaml", []string{"  ", "192.168.1.0/24 "}, ""},
		{"hostname", []string{"office.example.com"}, `invalid IP "office.example.com"`},
		{"prefix too long", []string{"10.0.0.0/99"}, `invalid CIDR "10.0.0.0/99"`},
		{"first bad entry wins", []string{"10.0.0.1", "nope", "also-bad"}, `"nope"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.list)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %s", err, tt.wantErr)
			}
		})
	}
}

func TestNewSkipsInvalidEntries(t *testing.T) {
	f := New([]string{"10.8.0.0/16", "", "not-an-ip", "::1"}, discardLogger())

	if !f.Enabled() {
		t.Fatal("filter with entries should be enabled")
	}
	if f.Count() != 2 {
		t.Errorf("Count() = %d, want 2", f.Count())
	}
	if New(nil, discardLogger()).Enabled() {
		t.Error("empty allow list should leave the filter disabled")
	}
}

func TestIsAllowed(t *testing.T) {
	f := New([]string{"203.0.113.7", "10.8.0.0/16", "2001:db8::/32"}, discardLogger())

	tests := []struct {
		ip   string
		want bool
	}{
		{"203.0.113.7", true},
		{"203.0.113.8", false},
		{"10.8.44.2", true},
		{"10.9.0.1", false},
		{"2001:db8:1::5", true},
		{"2001:db9::1", false},
	}

	for _, tt := range tests {
		if got := f.IsAllowed(net.ParseIP(tt.ip)); got != tt.want {
			t.Errorf("IsAllowed(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "198.51.100.4:51234", nil, "198.51.100.4"},
		{"remote addr without port", "198.51.100.4", nil, "198.51.100.4"},
		{"ipv6 remote addr", "[::1]:8080", nil, "::1"},
		{"forwarded chain", "127.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", "127.0.0.1:1", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
		{"garbage forwarded falls through", "127.0.0.1:1", map[string]string{"X-Forwarded-For": "unknown", "X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/categories", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); !got.Equal(net.ParseIP(tt.want)) {
				t.Errorf("GetClientIP() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestHTTPMiddleware(t *testing.T) {
	handler := func(allowed []string) http.Handler {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ok"}`))
		})
		return New(allowed, discardLogger()).HTTPMiddleware(next)
	}

	tests := []struct {
		name       string
		allowed    []string
		remoteAddr string
		wantStatus int
	}{
		{"no allow list", nil, "198.51.100.4:1", http.StatusOK},
		{"office address", []string{"203.0.113.7"}, "203.0.113.7:1", http.StatusOK},
		{"vpn range", []string{"10.8.0.0/16"}, "10.8.3.3:1", http.StatusOK},
		{"outside", []string{"10.8.0.0/16"}, "198.51.100.4:1", http.StatusForbidden},
		{"unparseable remote", []string{"10.8.0.0/16"}, "somewhere", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/classify", nil)
			req.RemoteAddr = tt.remoteAddr
			rec := httptest.NewRecorder()

			handler(tt.allowed).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusForbidden {
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q", ct)
				}
				if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"Forbidden"}` {
					t.Errorf("body = %s", body)
				}
			}
		})
	}
}
