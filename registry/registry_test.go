package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	var testCases = []struct {
		description string
		raw         string
		protocol    string
		hosts       []string
		hasError    bool
	}{
		{description: "bare host gets service port", raw: "10.0.0.1", protocol: Dubbo, hosts: []string{"10.0.0.1:20880"}},
		{description: "bare host with port", raw: "localhost:20881", protocol: Dubbo, hosts: []string{"localhost:20881"}},
		{description: "direct dubbo", raw: "dubbo://10.0.0.2", protocol: Dubbo, hosts: []string{"10.0.0.2:20880"}},
		{description: "zookeeper default port", raw: "zookeeper://127.0.0.1", protocol: Zookeeper, hosts: []string{"127.0.0.1:2181"}},
		{description: "etcd cluster", raw: "etcd://h1:2379,h2", protocol: SchemeEtcd, hosts: []string{"h1:2379", "h2:2379"}},
		{description: "redis", raw: "redis://cache", protocol: SchemeRedis, hosts: []string{"cache:6379"}},
		{description: "unknown scheme", raw: "ftp://host", hasError: true},
		{description: "empty", raw: " ", hasError: true},
		{description: "invalid port", raw: "host:abc", hasError: true},
	}
	for _, testCase := range testCases {
		actual, err := ParseAddress(testCase.raw, 0)
		if testCase.hasError {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		require.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.protocol, actual.Protocol, testCase.description)
		assert.Equal(t, testCase.hosts, actual.Hosts, testCase.description)
	}
}

func TestParseAddress_Credentials(t *testing.T) {
	actual, err := ParseAddress("etcd://root:secret@h1?root=/custom", 0)
	require.Nil(t, err)
	assert.Equal(t, "root", actual.Username)
	assert.Equal(t, "secret", actual.Password)
	assert.Equal(t, "/custom", rootOf(actual.Params))
	assert.True(t, actual.IsRegistry())
}

func TestSelector_Select(t *testing.T) {
	providers := []string{
		"dubbo%3A%2F%2F10.0.0.9%3A20880%2Fcom.example.Svc%3Fversion%3D1.0.0",
		"dubbo://10.0.0.5:20880/com.example.Svc?version=2.0.0&group=blue",
		"dubbo://10.0.0.3:20880/com.example.Svc?version=1.0.0",
		"tri://10.0.0.1:50051/com.example.Svc?version=1.0.0",
		"::not a url",
	}
	var testCases = []struct {
		description string
		selector    *Selector
		expect      string
		hasError    bool
	}{
		{description: "lowest address wins", selector: &Selector{}, expect: "10.0.0.3:20880"},
		{description: "version filter", selector: &Selector{Version: "2.0.0"}, expect: "10.0.0.5:20880"},
		{description: "wildcard version", selector: &Selector{Version: "*", Group: "blue"}, expect: "10.0.0.5:20880"},
		{description: "encoded provider", selector: &Selector{Version: "1.0.0"}, expect: "10.0.0.3:20880"},
		{description: "other protocol", selector: &Selector{Protocol: "tri"}, expect: "10.0.0.1:50051"},
		{description: "no match", selector: &Selector{Group: "red"}, hasError: true},
	}
	for _, testCase := range testCases {
		actual, err := testCase.selector.Select("com.example.Svc", providers)
		if testCase.hasError {
			unavailable := &UnavailableError{}
			assert.True(t, errors.As(err, &unavailable), testCase.description)
			continue
		}
		require.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual.Address, testCase.description)
		assert.Equal(t, "com.example.Svc", actual.Service, testCase.description)
	}
}

func TestOpen(t *testing.T) {
	var testCases = []struct {
		description string
		address     string
		unsupported bool
		expect      string
	}{
		{description: "direct", address: "127.0.0.1:20990", expect: "127.0.0.1:20990"},
		{description: "zookeeper", address: "zookeeper://127.0.0.1:2181", unsupported: true},
		{description: "nacos", address: "nacos://127.0.0.1", unsupported: true},
	}
	for _, testCase := range testCases {
		resolver, err := Open(context.Background(), &Options{Address: testCase.address, Retries: 2})
		if testCase.unsupported {
			unsupported := &UnsupportedError{}
			assert.True(t, errors.As(err, &unsupported), testCase.description)
			continue
		}
		require.Nil(t, err, testCase.description)
		endpoint, err := resolver.ResolveEndpoint(context.Background(), "com.example.Svc")
		require.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, endpoint.Address, testCase.description)
		assert.Nil(t, resolver.Close())
	}
}

func TestOpen_Selector(t *testing.T) {
	resolver, err := Open(context.Background(), &Options{Address: "redis://127.0.0.1:6379", Protocol: "tri", Version: "1.0.0", Group: "blue"})
	require.Nil(t, err)
	defer resolver.Close()
	redisResolver, ok := resolver.(*Redis)
	require.True(t, ok)
	assert.Equal(t, &Selector{Protocol: "tri", Version: "1.0.0", Group: "blue"}, redisResolver.selector)

	endpoint, err := redisResolver.selector.Select("com.example.Svc", []string{
		"dubbo://10.0.0.3:20880/com.example.Svc?version=1.0.0&group=blue",
		"tri://10.0.0.4:50051/com.example.Svc?version=1.0.0&group=blue",
	})
	require.Nil(t, err)
	assert.Equal(t, "10.0.0.4:50051", endpoint.Address)
}

func TestStatic(t *testing.T) {
	resolver := NewStatic(map[string][]string{
		"com.example.Svc": {"dubbo://10.0.0.1:20880/com.example.Svc"},
	}, nil)
	endpoint, err := resolver.ResolveEndpoint(context.Background(), "com.example.Svc")
	require.Nil(t, err)
	assert.Equal(t, "10.0.0.1:20880", endpoint.Address)
	_, err = resolver.ResolveEndpoint(context.Background(), "com.example.Other")
	assert.NotNil(t, err)
}

type flakyResolver struct {
	failures int
	calls    int
	err      error
}

func (f *flakyResolver) ResolveEndpoint(ctx context.Context, service string) (*Endpoint, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return &Endpoint{Protocol: Dubbo, Address: "10.0.0.1:20880", Service: service}, nil
}

func (f *flakyResolver) Close() error {
	return nil
}

func TestRetrying(t *testing.T) {
	var testCases = []struct {
		description string
		failures    int
		retries     int
		err         error
		calls       int
		hasError    bool
	}{
		{description: "recovers after failures", failures: 2, retries: 2, err: errors.New("connection reset"), calls: 3},
		{description: "exhausted retries returns last error", failures: 5, retries: 1, err: errors.New("connection reset"), calls: 2, hasError: true},
		{description: "unsupported is fatal", failures: 5, retries: 3, err: &UnsupportedError{Protocol: Zookeeper}, calls: 1, hasError: true},
	}
	for _, testCase := range testCases {
		flaky := &flakyResolver{failures: testCase.failures, err: testCase.err}
		resolver := NewRetrying(flaky, testCase.retries, time.Millisecond)
		endpoint, err := resolver.ResolveEndpoint(context.Background(), "com.example.Svc")
		assert.Equal(t, testCase.calls, flaky.calls, testCase.description)
		if testCase.hasError {
			assert.Equal(t, testCase.err, err, testCase.description)
			continue
		}
		require.Nil(t, err, testCase.description)
		assert.Equal(t, "10.0.0.1:20880", endpoint.Address, testCase.description)
	}
}
