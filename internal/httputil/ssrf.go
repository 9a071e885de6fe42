package httputil

import (
	"fmt"
	"net"
)

// ValidateIP rejects addresses a redirect must never land on: private
// ranges, loopback, link-local (cloud metadata services live there),
// multicast, and the unspecified address. The host string is carried
// into the error for log context.
func ValidateIP(ip net.IP, host string) error {
	var reason string
	switch {
	case ip.IsPrivate():
		reason = "private"
	case ip.IsLoopback():
		reason = "loopback"
	case ip.IsLinkLocalUnicast():
		reason = "link-local"
	case ip.IsLinkLocalMulticast():
		reason = "link-local multicast"
	case ip.IsMulticast():
		reason = "multicast"
	case ip.IsUnspecified():
		reason = "unspecified"
	default:
		return nil
	}
	return fmt.Errorf("refusing redirect to %s address: %s (%s)", reason, host, ip)
}
