package registry

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Endpoint represents selected service provider
type Endpoint struct {
	Protocol string
	Address  string
	Service  string
	Params   url.Values
}

// Version returns provider version parameter
func (e *Endpoint) Version() string {
	return e.Params.Get("version")
}

// Group returns provider group parameter
func (e *Endpoint) Group() string {
	return e.Params.Get("group")
}

// ParseProvider parses provider URL, i.e. dubbo://10.0.0.1:20880/com.example.Svc?version=1.0.0, URL encoded form is accepted
func ParseProvider(raw string) (*Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "%3A%2F%2F") || strings.Contains(raw, "%3a%2f%2f") {
		decoded, err := url.QueryUnescape(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid provider %q: %w", raw, err)
		}
		raw = decoded
	}
	URL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid provider %q: %w", raw, err)
	}
	if URL.Scheme == "" || URL.Host == "" {
		return nil, fmt.Errorf("invalid provider %q", raw)
	}
	return &Endpoint{
		Protocol: URL.Scheme,
		Address:  URL.Host,
		Service:  strings.Trim(URL.Path, "/"),
		Params:   URL.Query(),
	}, nil
}

// Selector filters providers by protocol, version and group
type Selector struct {
	Protocol string
	Version  string
	Group    string
}

// Select returns first matching provider in address order, unparsable entries are skipped
func (s *Selector) Select(service string, providers []string) (*Endpoint, error) {
	var candidates []*Endpoint
	for _, provider := range providers {
		endpoint, err := ParseProvider(provider)
		if err != nil {
			continue
		}
		if !s.matches(endpoint) {
			continue
		}
		candidates = append(candidates, endpoint)
	}
	if len(candidates) == 0 {
		return nil, &UnavailableError{Service: service, Reason: fmt.Sprintf("no matching provider among %v", len(providers))}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Address < candidates[j].Address
	})
	return candidates[0], nil
}

func (s *Selector) matches(endpoint *Endpoint) bool {
	protocol := s.Protocol
	if protocol == "" {
		protocol = Dubbo
	}
	if endpoint.Protocol != protocol {
		return false
	}
	if s.Version != "" && s.Version != "*" && endpoint.Version() != s.Version {
		return false
	}
	if s.Group != "" && s.Group != "*" && endpoint.Group() != s.Group {
		return false
	}
	return true
}
