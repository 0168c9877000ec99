package domains

import (
	"strings"

	"github.com/imamik/minio-stack/internal/config"
)

const wildcardPrefix = "*."

// Route binds one host to a backend service port.
type Route struct {
	Host string
	Port int32
}

// Resolution is the output of Resolve.
type Resolution struct {
	// Routes holds every distinct host in candidate order.
	Routes []Route
	// DNSNames is the minimal certificate name list in candidate order.
	DNSNames []string
}

// Hosts returns the host of every route, in route order.
func (r *Resolution) Hosts() []string {
	hosts := make([]string, 0, len(r.Routes))
	for _, route := range r.Routes {
		hosts = append(hosts, route.Host)
	}
	return hosts
}

// Resolve builds the routing table and certificate names for a deployment.
//
// Candidates are (base, 80), (*.base, 80) and (dashboard, consolePort), in
// that order. A repeated host with the same port collapses into its first
// occurrence; a repeated host with a different port is an
// *AmbiguousRouteError.
func Resolve(baseDomain, dashboardDomain string, consolePort int32) (*Resolution, error) {
	if err := config.ValidateDomain("baseDomain", baseDomain); err != nil {
		return nil, err
	}
	if err := config.ValidateDomain("dashboardDomain", dashboardDomain); err != nil {
		return nil, err
	}

	routes, err := BuildRoutes([]Route{
		{Host: baseDomain, Port: config.HTTPPort},
		{Host: Wildcard(baseDomain), Port: config.HTTPPort},
		{Host: dashboardDomain, Port: consolePort},
	})
	if err != nil {
		return nil, err
	}

	res := &Resolution{Routes: routes}
	res.DNSNames = CertificateDNSNames(res.Hosts())
	return res, nil
}

// BuildRoutes collapses candidates into a routing table with unique hosts,
// preserving first-occurrence order. Hosts are compared case-insensitively.
func BuildRoutes(candidates []Route) ([]Route, error) {
	routes := make([]Route, 0, len(candidates))
	index := make(map[string]int, len(candidates))

	for _, c := range candidates {
		key := strings.ToLower(c.Host)
		i, seen := index[key]
		if !seen {
			index[key] = len(routes)
			routes = append(routes, c)
			continue
		}
		if routes[i].Port != c.Port {
			return nil, &AmbiguousRouteError{Host: c.Host, Ports: []int32{routes[i].Port, c.Port}}
		}
	}

	return routes, nil
}

// CertificateDNSNames filters hosts down to the names a certificate must
// list. A concrete host is dropped when the wildcard of its parent (the host
// minus its first label) is also present. Wildcards are always kept. Only a
// single label is stripped, so deeper subdomains are never treated as
// covered. The input order is preserved.
func CertificateDNSNames(hosts []string) []string {
	present := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		present[h] = struct{}{}
	}

	names := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if !IsWildcard(h) {
			if parent, ok := Parent(h); ok {
				if _, covered := present[Wildcard(parent)]; covered {
					continue
				}
			}
		}
		names = append(names, h)
	}
	return names
}

// Wildcard returns "*.<domain>".
func Wildcard(domain string) string {
	return wildcardPrefix + domain
}

// IsWildcard reports whether host starts with "*.".
func IsWildcard(host string) bool {
	return strings.HasPrefix(host, wildcardPrefix)
}

// Parent strips the first label of host. It reports false for single-label
// hosts, which have no parent.
func Parent(host string) (string, bool) {
	_, parent, found := strings.Cut(host, ".")
	if !found || parent == "" {
		return "", false
	}
	return parent, true
}
