package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// URLValidator checks catalog endpoints and image URLs before they are
// requested or stored.
type URLValidator struct {
	// AllowLocalhost permits localhost and loopback hosts, for tests and
	// self-hosted mirrors.
	AllowLocalhost bool
	// AllowPrivateIPs permits private address ranges.
	AllowPrivateIPs bool
	// RequireHTTPS rejects plain http URLs.
	RequireHTTPS bool
	MaxLength    int
}

// NewURLValidator creates a new validator with secure defaults
func NewURLValidator() *URLValidator {
	return &URLValidator{
		MaxLength: 2048,
	}
}

// NewPermissiveURLValidator allows local endpoints.
func NewPermissiveURLValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize validates a URL and returns the normalized version.
// A missing scheme defaults to https.
func (v *URLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	switch parsed.Scheme {
	case "https":
	case "http":
		if v.RequireHTTPS {
			return "", fmt.Errorf("URL must use https")
		}
	default:
		return "", fmt.Errorf("URL must use http or https protocol")
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if err := v.validateHost(parsed.Hostname()); err != nil {
		return "", err
	}
	if strings.Contains(parsed.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	return parsed.String(), nil
}

func (v *URLValidator) validateHost(hostname string) error {
	if hostname == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}
	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}
	if ip := net.ParseIP(hostname); ip != nil {
		if ip.IsUnspecified() {
			return fmt.Errorf("unspecified address not permitted")
		}
		if !v.AllowPrivateIPs && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}
	return nil
}

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return true
	}
	ip := net.ParseIP(hostname)
	return ip != nil && ip.IsLoopback()
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
}
