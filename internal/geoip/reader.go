// Package geoip resolves submitting origins to ISO country codes using a
// local MaxMind database. Resolution is optional; without a database the
// service runs with country detection disabled.
package geoip

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Provider wraps the GeoIP2 database reader for country lookups.
type Provider struct {
	db *geoip2.Reader
}

// Open initializes the GeoIP database reader from a file path.
func Open(path string) (*Provider, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &Provider{db: db}, nil
}

// Close closes the underlying database reader.
func (p *Provider) Close() error {
	return p.db.Close()
}

// CountryCode looks up the ISO country code (e.g. "US", "DE") for an IP
// address string. It returns an empty string if the address is invalid or
// the country cannot be determined.
func (p *Provider) CountryCode(ipStr string) string {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}

	record, err := p.db.Country(ip)
	if err != nil {
		return ""
	}

	return record.Country.IsoCode
}
