package strategy

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/invoke/chain"
	"github.com/viant/invoke/registry"
)

func TestPing(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	defer listener.Close()
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	closedListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	closed := closedListener.Addr().String()
	_ = closedListener.Close()

	direct := func(address string) registry.Opener {
		return func(ctx context.Context) (registry.Resolver, error) {
			return registry.NewDirect(address), nil
		}
	}
	var testCases = []struct {
		description string
		opener      registry.Opener
		kind        chain.ErrorKind
		retryable   bool
	}{
		{description: "reachable", opener: direct(listener.Addr().String())},
		{description: "closed port", opener: direct(closed), kind: chain.ConnectionRefused, retryable: true},
		{
			description: "no provider",
			opener: func(ctx context.Context) (registry.Resolver, error) {
				return registry.NewStatic(map[string][]string{}, nil), nil
			},
			kind:      chain.ServiceNotFound,
			retryable: true,
		},
	}
	for _, testCase := range testCases {
		options := NewOptions(WithConnectTimeout(time.Second))
		endpoint, err := Ping(context.Background(), testCase.opener, options, "com.example.UserService")
		if testCase.kind == "" {
			require.Nil(t, err, testCase.description)
			assert.Equal(t, listener.Addr().String(), endpoint.Address, testCase.description)
			continue
		}
		kind, retryable := chain.Classify(err)
		assert.Equal(t, testCase.kind, kind, testCase.description)
		assert.Equal(t, testCase.retryable, retryable, testCase.description)
	}
}
