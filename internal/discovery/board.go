package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Board represents a papan server found on the network
type Board struct {
	// Instance is the advertised instance name (e.g., "Lobby Board")
	Instance string

	// Hostname is the mDNS hostname (e.g., "signage-pc.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 when the board has none
	IP string

	// Port is the HTTP port (typically 8080)
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "papan=1", "path=/", "version=0.3.0"
	Metadata map[string]string

	// DiscoveredAt is when the board was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the board
func (b *Board) String() string {
	return fmt.Sprintf("Papan %q (%s) at %s", b.Instance, b.Hostname, b.BaseURL())
}

// BaseURL returns the HTTP base URL for the board
func (b *Board) BaseURL() string {
	return "http://" + net.JoinHostPort(b.IP, strconv.Itoa(b.Port))
}

// Version returns the server version from the TXT record, if any
func (b *Board) Version() string {
	return b.GetMetadata(TXTVersion)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Board) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
