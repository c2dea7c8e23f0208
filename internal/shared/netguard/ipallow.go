package netguard

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Allowlist is a parsed set of IP/CIDR entries for gating internal endpoints.
// Loaded once at startup from configuration; read-only thereafter.
type Allowlist struct {
	prefixes []netip.Prefix
	// InvalidEntries records allowlist fragments that failed to parse so the
	// caller can decide whether a misconfigured list should fail closed.
	InvalidEntries []string
}

// ParseAllowlist parses a comma-separated list of IPs and CIDR ranges. A bare
// address is treated as a single-host prefix.
func ParseAllowlist(raw string) Allowlist {
	var out Allowlist
	for _, part := range strings.Split(raw, ",") {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				out.InvalidEntries = append(out.InvalidEntries, entry)
				continue
			}
			out.prefixes = append(out.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			out.InvalidEntries = append(out.InvalidEntries, entry)
			continue
		}
		addr = addr.Unmap()
		out.prefixes = append(out.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out
}

// Configured reports whether at least one entry parsed successfully.
func (a Allowlist) Configured() bool { return len(a.prefixes) > 0 }

// Contains reports whether ip falls inside any allowlist entry.
func (a Allowlist) Contains(ip netip.Addr) bool {
	ip = ip.Unmap()
	for _, prefix := range a.prefixes {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}

func parseCandidate(value string) (netip.Addr, bool) {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		return netip.Addr{}, false
	}
	// Some proxies append a port to forwarded IPv4 addresses.
	if strings.Count(candidate, ":") == 1 && strings.Contains(candidate, ".") {
		candidate = candidate[:strings.IndexByte(candidate, ':')]
	}
	addr, err := netip.ParseAddr(candidate)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func isPrivate(addr netip.Addr) bool {
	return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast()
}

// ClientIP resolves the caller address from proxy headers, preferring the
// first public address in X-Forwarded-For, then X-Real-Ip, then any forwarded
// candidate at all. The heuristic is best-effort: headers are attacker-
// influenced unless a trusted proxy strips them.
func ClientIP(r *http.Request) (netip.Addr, bool) {
	real, realOK := parseCandidate(r.Header.Get("X-Real-Ip"))

	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		var candidates []netip.Addr
		for _, part := range strings.Split(forwarded, ",") {
			if addr, ok := parseCandidate(part); ok {
				candidates = append(candidates, addr)
			}
		}
		for _, addr := range candidates {
			if !isPrivate(addr) {
				return addr, true
			}
		}
		if realOK && !isPrivate(real) {
			return real, true
		}
		if len(candidates) > 0 {
			return candidates[0], true
		}
	}

	if realOK {
		return real, true
	}
	if host, ok := parseCandidate(hostOnly(r.RemoteAddr)); ok {
		return host, true
	}
	return netip.Addr{}, false
}

func hostOnly(remoteAddr string) string {
	if _, err := netip.ParseAddr(remoteAddr); err == nil {
		return remoteAddr
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
