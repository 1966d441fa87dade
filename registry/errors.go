package registry

import "fmt"

// UnavailableError represents service without reachable provider
type UnavailableError struct {
	Service  string
	Registry string
	Reason   string
}

func (e *UnavailableError) Error() string {
	if e.Registry == "" {
		return fmt.Sprintf("service %v unavailable: %v", e.Service, e.Reason)
	}
	return fmt.Sprintf("service %v unavailable in %v: %v", e.Service, e.Registry, e.Reason)
}

// UnsupportedError represents recognized registry without client support
type UnsupportedError struct {
	Protocol string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%v registry is not supported, use direct dubbo://host:port, etcd:// or redis:// address", e.Protocol)
}
