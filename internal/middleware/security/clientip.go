package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// trustedProxies lists the networks whose forwarding headers we believe.
// Anything outside these ranges gets judged by its socket address alone.
var trustedProxies = []*net.IPNet{
	mustParseCIDR("127.0.0.0/8"),
	mustParseCIDR("10.0.0.0/8"),
	mustParseCIDR("172.16.0.0/12"),
	mustParseCIDR("192.168.0.0/16"),
}

func mustParseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// IsTrustedProxy reports whether the address belongs to a network allowed
// to set forwarding headers.
func IsTrustedProxy(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, network := range trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP resolves the real client address for a request. Forwarding
// headers are honored only when the direct peer is a trusted proxy, so a
// public client cannot spoof its way past per-IP rate limits.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	remote := net.ParseIP(host)
	if remote == nil {
		return host
	}

	if IsTrustedProxy(remote) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			// The first entry is the originating client.
			first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
			if net.ParseIP(real) != nil {
				return real
			}
		}
	}

	return host
}
