// Package ipfilter restricts the API and metrics listeners to configured
// addresses and networks.
package ipfilter

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// Filter checks if IP addresses are allowed
type Filter struct {
	allowedNets []*net.IPNet
	logger      *slog.Logger
}

// New creates a new IP filter from a list of IPs/CIDRs.
// Invalid entries are logged and skipped. Empty list means allow all.
func New(allowedIPs []string, logger *slog.Logger) *Filter {
	f := &Filter{
		logger: logger,
	}

	for _, entry := range allowedIPs {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		ipNet, err := parseEntry(entry)
		if err != nil {
			logger.Warn("invalid entry in allowed_ips", "entry", entry, "error", err)
			continue
		}
		f.allowedNets = append(f.allowedNets, ipNet)
	}

	return f
}

// Validate reports the first entry that is neither an IP nor a CIDR
func Validate(allowedIPs []string) error {
	for _, entry := range allowedIPs {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, err := parseEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

// parseEntry converts a CIDR or a single IP (as /32 or /128) to a network
func parseEntry(entry string) (*net.IPNet, error) {
	if strings.Contains(entry, "/") {
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q: %w", entry, err)
		}
		return ipNet, nil
	}

	ip := net.ParseIP(entry)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP %q", entry)
	}
	if ip.To4() != nil {
		return &net.IPNet{IP: ip, Mask: net.CIDRMask(32, 32)}, nil
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)}, nil
}

// Enabled returns true if IP filtering is active
func (f *Filter) Enabled() bool {
	return len(f.allowedNets) > 0
}

// Count returns the number of allowed networks
func (f *Filter) Count() int {
	return len(f.allowedNets)
}

// IsAllowed checks if the IP is allowed
// Returns true if filter is empty (allow all) or IP is in allowed list
func (f *Filter) IsAllowed(ip net.IP) bool {
	if len(f.allowedNets) == 0 {
		return true
	}

	for _, ipNet := range f.allowedNets {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// GetClientIP extracts the client IP from an HTTP request
// Checks X-Forwarded-For and X-Real-IP headers before RemoteAddr
func GetClientIP(r *http.Request) net.IP {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP (original client)
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := net.ParseIP(strings.TrimSpace(parts[0]))
			if ip != nil {
				return ip
			}
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		ip := net.ParseIP(strings.TrimSpace(xri))
		if ip != nil {
			return ip
		}
	}

	// Fall back to RemoteAddr
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// Maybe no port?
		return net.ParseIP(r.RemoteAddr)
	}
	return net.ParseIP(host)
}

// HTTPMiddleware returns an HTTP middleware that filters requests by IP
func (f *Filter) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If no IPs configured, allow all
		if !f.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := GetClientIP(r)
		if clientIP == nil {
			f.logger.Warn("could not parse client IP", "remote_addr", r.RemoteAddr)
			forbidden(w)
			return
		}

		if !f.IsAllowed(clientIP) {
			f.logger.Warn("access denied by IP filter",
				"ip", clientIP.String(),
				"method", r.Method,
				"path", r.URL.Path,
			)
			forbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// forbidden writes the same JSON error shape the API uses
func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	io.WriteString(w, `{"error":"Forbidden"}`+"\n")
}
