// Package pagefetch audits live URLs: it fetches a page with SSRF
// protection, snapshots the SEO-relevant parts of its head, and builds
// a content item the SEO Bar engine can evaluate.
package pagefetch

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Pre-compiled CIDR networks for reserved ranges the stdlib predicates
// miss. Parsed once at package initialization.
var (
	cgnat    *net.IPNet // 100.64.0.0/10, carrier-grade NAT
	v6unique *net.IPNet // fc00::/7, IPv6 unique local
	v6link   *net.IPNet // fe80::/10, IPv6 link-local
)

func init() {
	var err error
	_, cgnat, err = net.ParseCIDR("100.64.0.0/10")
	if err != nil {
		panic("invalid CGNAT CIDR: " + err.Error())
	}
	_, v6unique, err = net.ParseCIDR("fc00::/7")
	if err != nil {
		panic("invalid IPv6 unique local CIDR: " + err.Error())
	}
	_, v6link, err = net.ParseCIDR("fe80::/10")
	if err != nil {
		panic("invalid IPv6 link-local CIDR: " + err.Error())
	}
}

// ValidateURL rejects URLs an audit must never reach: non-HTTPS
// schemes, localhost, local domains, and private IP literals. DNS
// rebinding is handled separately by the fetcher's dialer.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed")
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return fmt.Errorf("localhost URLs are not allowed")
	}
	if strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("local domain URLs are not allowed")
	}

	if ip := net.ParseIP(host); ip != nil && isPrivateIP(ip) {
		return fmt.Errorf("private IP addresses are not allowed")
	}

	return nil
}

// isPrivateIP checks IPv4, IPv6, and IPv6-mapped IPv4 addresses
// against private and reserved ranges.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if v4 := ip.To4(); v4 != nil {
		ip = v4
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			return true
		}
	}

	return cgnat.Contains(ip) || v6unique.Contains(ip) || v6link.Contains(ip)
}
