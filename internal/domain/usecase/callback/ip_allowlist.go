package callback

import (
	"fmt"
	"net"

	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
)

// DefaultAllowedRanges are the published Safaricom callback source networks.
// Deployments override them through configuration when the provider announces
// new ranges.
var DefaultAllowedRanges = []string{
	"196.201.212.0/24",
	"196.201.213.0/24",
	"196.201.214.0/24",
}

// IPAllowlist admits callbacks only from the configured provider networks.
// When no HMAC secret is configured this layer is the primary trust boundary,
// so loopback and private sources pass only under an explicit development flag.
type IPAllowlist struct {
	networks         []*net.IPNet
	allowDevelopment bool
}

// NewIPAllowlist parses the CIDR ranges up front so a bad configuration fails
// at startup rather than per request. Empty ranges fall back to the defaults.
func NewIPAllowlist(ranges []string, allowDevelopment bool) (*IPAllowlist, error) {
	if len(ranges) == 0 {
		ranges = DefaultAllowedRanges
	}

	networks := make([]*net.IPNet, 0, len(ranges))
	for _, r := range ranges {
		_, network, err := net.ParseCIDR(r)
		if err != nil {
			return nil, fmt.Errorf("invalid allowlist range %q: %w", r, err)
		}
		networks = append(networks, network)
	}

	return &IPAllowlist{
		networks:         networks,
		allowDevelopment: allowDevelopment,
	}, nil
}

// Name identifies the layer in security event logs
func (a *IPAllowlist) Name() string {
	return "ip_allowlist"
}

// Validate checks the effective client IP against the provider networks
func (a *IPAllowlist) Validate(req *Request) error {
	ip := net.ParseIP(req.SourceIP)
	if ip == nil {
		return errs.ErrUntrustedSource
	}

	if a.allowDevelopment && (ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified()) {
		return nil
	}

	for _, network := range a.networks {
		if network.Contains(ip) {
			return nil
		}
	}
	return errs.ErrUntrustedSource
}
