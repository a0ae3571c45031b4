package discovery

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/papan/internal/logging"
)

const (
	// ServiceType is the mDNS service type papan servers advertise
	ServiceType = "_papan._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for board discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when an entry carries no port
	DefaultPort = 8080
)

// TXT record keys
const (
	TXTMarker  = "papan"
	TXTPath    = "path"
	TXTVersion = "version"
)

// Advertisement is a registered mDNS service.
type Advertisement struct {
	server   *zeroconf.Server
	Instance string
	Port     int
}

// Advertise registers the board under instance (hostname when empty) on
// every interface until Shutdown.
func Advertise(instance string, port int, version string) (*Advertisement, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("failed to determine hostname: %w", err)
		}
		instance = host
	}

	txt := []string{TXTMarker + "=1", TXTPath + "=/"}
	if version != "" {
		txt = append(txt, TXTVersion+"="+version)
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising board via mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertisement{server: server, Instance: instance, Port: port}, nil
}

// Shutdown withdraws the advertisement.
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Debug("mDNS advertisement withdrawn", zap.String("instance", a.Instance))
}

// Scanner handles mDNS board discovery
type Scanner struct {
	// Timeout is the maximum time to wait for board discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses for papan servers until the timeout or ctx ends and returns
// them sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Board, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu   sync.Mutex
		seen = make(map[string]*Board)
	)
	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			if b := parseServiceEntry(entry); b != nil {
				mu.Lock()
				seen[b.Instance+"@"+b.BaseURL()] = b
				mu.Unlock()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	boards := make([]*Board, 0, len(seen))
	for _, b := range seen {
		boards = append(boards, b)
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].Instance < boards[j].Instance })
	return boards, nil
}

// Find returns the first board advertising instance.
func (s *Scanner) Find(ctx context.Context, instance string) (*Board, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Board, 1)

	go func() {
		for entry := range entries {
			b := parseServiceEntry(entry)
			if b != nil && strings.EqualFold(b.Instance, instance) {
				select {
				case found <- b:
				default:
				}
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case b := <-found:
		return b, nil
	case <-ctx.Done():
		select {
		case b := <-found:
			return b, nil
		default:
		}
		return nil, fmt.Errorf("board %q not found within %s", instance, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Board.
// Returns nil unless the entry carries the papan=1 marker and an address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Board {
	if entry == nil {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}
	if metadata[TXTMarker] != "1" {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Board{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
