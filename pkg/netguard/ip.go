package netguard

import (
	"net"
	"regexp"
	"strings"
)

var blockedHostnames = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"::1":       {},
}

// Textual match on the hostname, before any resolution happens.
var privateIPv4Pattern = regexp.MustCompile(`^(10\.|172\.(1[6-9]|2[0-9]|3[01])\.|192\.168\.)`)

var disallowedNetworks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}

// IsDisallowedIP reports whether ip points into a loopback, private,
// link-local or unique-local range, or is the unspecified address.
// IPv4-mapped IPv6 addresses are checked as their IPv4 form.
func IsDisallowedIP(ip net.IP) bool {
	if ip == nil || ip.IsUnspecified() {
		return true
	}
	for _, n := range disallowedNetworks {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func isBlockedHostname(host string) bool {
	_, ok := blockedHostnames[host]
	return ok
}

func isPrivateIPv4Literal(host string) bool {
	return privateIPv4Pattern.MatchString(host)
}

// isBracketedLoopback catches IPv6 literals such as "[::1]" or
// "[0:0::1]" directly on the authority component.
func isBracketedLoopback(authority string) bool {
	return strings.HasPrefix(authority, "[") && strings.Contains(authority, "::1")
}

func normalizeHostname(host string) string {
	return strings.TrimSuffix(strings.ToLower(host), ".")
}
