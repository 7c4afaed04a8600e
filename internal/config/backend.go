package config

import (
	"errors"
	"fmt"
	"strings"
)

// Backend URL keys, most specific first.
const (
	KeyBackendURL       = "FEEDS_API_URL"
	KeyPublicBackendURL = "PUBLIC_FEEDS_API_URL"
)

// DefaultBackendURL is the development address used by the fallback policy.
const DefaultBackendURL = "http://localhost:8000"

// ErrBackendURLMissing is returned under the strict policy when no key is set.
var ErrBackendURLMissing = errors.New("backend API URL is not configured")

// LookupFunc reads one configuration key, os.LookupEnv being the usual source.
type LookupFunc func(key string) (string, bool)

// Policy decides what happens when no backend URL key is set.
type Policy string

const (
	// PolicyFallback uses DefaultBackendURL.
	PolicyFallback Policy = "fallback"
	// PolicyStrict reports ErrBackendURLMissing.
	PolicyStrict Policy = "strict"
)

// ParsePolicy maps a BACKEND_URL_POLICY value to a Policy. An empty value
// selects strict in production and fallback everywhere else.
func ParsePolicy(value, env string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		if strings.EqualFold(env, EnvProduction) {
			return PolicyStrict, nil
		}
		return PolicyFallback, nil
	case PolicyFallback:
		return PolicyFallback, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown BACKEND_URL_POLICY %q, expected %q or %q", value, PolicyFallback, PolicyStrict)
	}
}

// Backend is the resolved backend address.
type Backend struct {
	URL      string `json:"url"`
	Key      string `json:"key,omitempty"` // config key the URL came from, empty for the fallback
	Fallback bool   `json:"fallback"`
	Err      error  `json:"-"`
}

// Configured reports whether URL can be used.
func (b Backend) Configured() bool {
	return b.Err == nil && b.URL != ""
}

// ResolveBackend picks the backend base URL from lookup.
func ResolveBackend(lookup LookupFunc, policy Policy) Backend {
	for _, key := range []string{KeyBackendURL, KeyPublicBackendURL} {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			continue
		}
		return Backend{URL: strings.TrimSuffix(value, "/"), Key: key}
	}

	if policy == PolicyStrict {
		return Backend{Err: fmt.Errorf("%w: set %s", ErrBackendURLMissing, KeyBackendURL)}
	}
	return Backend{URL: DefaultBackendURL, Fallback: true}
}
