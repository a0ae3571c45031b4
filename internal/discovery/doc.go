// Package discovery advertises papan servers over mDNS and finds them.
//
// A server registers itself as "_papan._tcp" with the TXT records
//
//	papan=1
//	path=/
//	version=<server version>
//
// Scanners browse for that service type and keep only entries carrying the
// papan=1 marker.
//
// # Usage Example
//
//	// Server side
//	advert, err := discovery.Advertise("Lobby Board", 8080, version.Version)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer advert.Shutdown()
//
//	// Client side
//	boards, err := discovery.NewScanner().Scan(ctx)
//	for _, b := range boards {
//	    fmt.Println(b.Instance, b.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Boards must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
