package crawler

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// registrableDomain reduces a hostname to its eTLD+1. Hosts without a public
// suffix (IPs, localhost, single labels) fall back to the hostname itself so
// local test targets still scope correctly.
func registrableDomain(host string) string {
	host = strings.ToLower(host)
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// sameRegistrableDomain reports whether both URLs share an eTLD+1.
func sameRegistrableDomain(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return registrableDomain(a.Hostname()) == registrableDomain(b.Hostname())
}

// resolveLink absolute-izes href against the page URL, dropping fragments
// and anything that is not fetchable over HTTP.
func resolveLink(base *url.URL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil, false
	}
	resolved.Fragment = ""
	return resolved, true
}
