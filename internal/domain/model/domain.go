package model

import (
	"fmt"
	"net/url"
	"strings"
)

// Domain is one audited site, parsed once from the input list and immutable
// afterwards. ShortHost (host without a leading "www.") is the key used for
// same-site URL filtering.
type Domain struct {
	Raw       string
	Host      string
	ShortHost string
}

func ParseDomain(raw string) (Domain, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Domain{}, fmt.Errorf("invalid domain %q: %w", raw, err)
	}
	host := u.Hostname()
	if host == "" {
		return Domain{}, fmt.Errorf("invalid domain %q: no host found", raw)
	}
	return Domain{
		Raw:       raw,
		Host:      host,
		ShortHost: strings.TrimPrefix(host, "www."),
	}, nil
}

// RootURL is the synthesized fallback target when no policy URL was mined.
func (d Domain) RootURL() string {
	return "https://" + d.ShortHost
}
