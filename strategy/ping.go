package strategy

import (
	"context"
	"fmt"
	"net"

	"github.com/viant/invoke/registry"
)

// Ping resolves service endpoint and opens a TCP connection to it within connect timeout
func Ping(ctx context.Context, opener registry.Opener, options *Options, service string) (*registry.Endpoint, error) {
	endpoint, err := resolveEndpoint(ctx, opener, service)
	if err != nil {
		return nil, err
	}
	dialer := &net.Dialer{Timeout: options.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", endpoint.Address)
	if err != nil {
		return endpoint, fmt.Errorf("failed to connect %v: %w", endpoint.Address, err)
	}
	options.Logger.Debugc(ctx, "provider reachable", "service", service, "address", endpoint.Address)
	return endpoint, conn.Close()
}
