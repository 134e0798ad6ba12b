package httputil

import (
	"fmt"
	"net"
)

// ValidateIP rejects IP addresses that a release download must never talk
// to: private ranges (RFC 1918), loopback, link-local (including cloud
// metadata services), multicast, and unspecified addresses. The host
// parameter names the original hostname in error messages.
func ValidateIP(ip net.IP, host string) error {
	var class string
	switch {
	case ip.IsPrivate():
		class = "private"
	case ip.IsLoopback():
		class = "loopback"
	case ip.IsLinkLocalUnicast():
		class = "link-local"
	case ip.IsLinkLocalMulticast():
		class = "link-local multicast"
	case ip.IsMulticast():
		class = "multicast"
	case ip.IsUnspecified():
		class = "unspecified"
	default:
		return nil
	}
	return fmt.Errorf("refusing redirect to %s IP: %s (%s)", class, host, ip)
}
