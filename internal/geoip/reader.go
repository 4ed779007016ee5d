package geoip

import (
	"context"
	"net"
	"time"

	"github.com/oschwald/geoip2-golang"
)

// Provider wraps the GeoIP2 database reader to provide country lookup functionality.
type Provider struct {
	db *geoip2.Reader
}

// Open initializes the GeoIP database reader from a specific file path.
func Open(path string) (*Provider, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &Provider{db: db}, nil
}

// Close closes the underlying GeoIP database reader.
func (p *Provider) Close() error {
	return p.db.Close()
}

// CountryForAddress resolves a server address (host with optional port) to an
// ISO country code (e.g., "US", "DE"). DNS resolution is bounded to two
// seconds. It returns an empty string whenever the country cannot be
// determined; callers render the address without annotation then.
func (p *Provider) CountryForAddress(ctx context.Context, address string) string {
	host := address
	if h, _, err := net.SplitHostPort(address); err == nil {
		host = h
	}

	if ip := net.ParseIP(host); ip != nil {
		return p.countryCode(ip)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	ips, err := net.DefaultResolver.LookupIP(lookupCtx, "ip", host)
	if err != nil {
		return ""
	}

	for _, ip := range ips {
		if code := p.countryCode(ip); code != "" {
			return code
		}
	}

	return ""
}

// countryCode looks up the ISO country code for one IP.
func (p *Provider) countryCode(ip net.IP) string {
	record, err := p.db.Country(ip)
	if err != nil {
		return ""
	}

	return record.Country.IsoCode
}
