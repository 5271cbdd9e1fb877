package domain

import (
	"net/url"
	"strings"

	"go.trai.ch/zerr"
)

// Asset is one entry of the install manifest.
type Asset struct {
	// Locator is the entry as written in configuration.
	Locator string
	// URL is the locator resolved against the scope origin.
	URL *url.URL
	// External is true when the asset lives on another origin.
	External bool
}

// Manifest is the ordered list of assets populated into a generation at install.
type Manifest []Asset

// DefaultManifest is the asset list the game ships with.
var DefaultManifest = []string{
	"/",
	"/juego/Impostor.html",
	"/manifest.json",
	"/icons/icon-16.png",
	"/icons/icon-32.png",
	"/icons/icon-48.png",
	"/icons/icon-72.png",
	"/icons/icon-96.png",
	"/icons/icon-144.png",
	"/icons/icon-192.png",
	"/icons/icon-256.png",
	"/icons/icon-384.png",
	"/icons/icon-512.png",
	"/icons/apple-touch-icon.png",
	"https://cdn.vercel-insights.com/v1/script.debug.js",
}

// ParseManifest resolves locators against scope. Duplicates are dropped,
// keeping the first occurrence.
func ParseManifest(scope *url.URL, locators []string) (Manifest, error) {
	if len(locators) == 0 {
		return nil, ErrEmptyManifest
	}

	seen := make(map[string]struct{}, len(locators))
	manifest := make(Manifest, 0, len(locators))
	for _, raw := range locators {
		locator := strings.TrimSpace(raw)
		if locator == "" {
			return nil, zerr.With(ErrInvalidAsset, "locator", raw)
		}

		ref, err := url.Parse(locator)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, ErrInvalidAsset.Error()), "locator", raw)
		}
		if ref.IsAbs() && ref.Scheme != "http" && ref.Scheme != "https" {
			return nil, zerr.With(ErrInvalidAsset, "locator", raw)
		}

		resolved := scope.ResolveReference(ref)
		resolved.Fragment = ""

		key := resolved.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		manifest = append(manifest, Asset{
			Locator:  locator,
			URL:      resolved,
			External: !SameOrigin(scope, resolved),
		})
	}

	return manifest, nil
}

// Locators returns the manifest entries as written in configuration.
func (m Manifest) Locators() []string {
	out := make([]string, len(m))
	for i, a := range m {
		out[i] = a.Locator
	}
	return out
}

// Origin returns the scheme://host[:port] of u with default ports removed.
func Origin(u *url.URL) string {
	if u == nil {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	return scheme + "://" + host
}

// SameOrigin reports whether a and b share scheme, host and port.
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return Origin(a) == Origin(b)
}
