package validator

import (
	"net"
	"strings"
)

// UnknownIP stands in for a client address that cannot be parsed.
const UnknownIP = "0.0.0.0"

// IsValidIP reports whether ip parses as IPv4 or IPv6.
func IsValidIP(ip string) bool {
	if ip == "" {
		return false
	}
	return net.ParseIP(ip) != nil
}

// NormalizeIP strips an IPv6 zone, e.g. fe80::1%eth0 becomes fe80::1.
func NormalizeIP(ip string) string {
	if idx := strings.IndexByte(ip, '%'); idx != -1 {
		return ip[:idx]
	}
	return ip
}

// GetIPOrDefault returns the normalized ip, or defaultIP when it is invalid.
func GetIPOrDefault(ip, defaultIP string) string {
	normalized := NormalizeIP(ip)
	if IsValidIP(normalized) {
		return normalized
	}
	return defaultIP
}

// ClientIP is GetIPOrDefault with UnknownIP as the fallback.
func ClientIP(ip string) string {
	return GetIPOrDefault(ip, UnknownIP)
}
