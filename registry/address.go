package registry

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const (
	Zookeeper   = "zookeeper"
	Nacos       = "nacos"
	Consul      = "consul"
	SchemeRedis = "redis"
	Multicast   = "multicast"
	SchemeEtcd  = "etcd"
	Dubbo       = "dubbo"

	// DefaultPort represents default dubbo service port
	DefaultPort = 20880
)

var registries = map[string]bool{Zookeeper: true, Nacos: true, Consul: true, SchemeRedis: true, Multicast: true, SchemeEtcd: true}

// Address represents registry or direct service address
type Address struct {
	Protocol string
	Hosts    []string
	Username string
	Password string
	Params   url.Values
}

// ParseAddress parses zookeeper://host:port, etcd://h1:2379,h2:2379, dubbo://host[:port] or host[:port]
func ParseAddress(raw string, defaultPort int) (*Address, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("address was empty")
	}
	if defaultPort == 0 {
		defaultPort = DefaultPort
	}
	if !strings.Contains(raw, "://") {
		host, err := withPort(raw, defaultPort)
		if err != nil {
			return nil, err
		}
		return &Address{Protocol: Dubbo, Hosts: []string{host}, Params: url.Values{}}, nil
	}
	URL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", raw, err)
	}
	protocol := strings.ToLower(URL.Scheme)
	if protocol != Dubbo && !registries[protocol] {
		return nil, fmt.Errorf("unsupported address protocol: %v", URL.Scheme)
	}
	if URL.Host == "" {
		return nil, fmt.Errorf("invalid address %q: missing host", raw)
	}
	ret := &Address{Protocol: protocol, Params: URL.Query()}
	if URL.User != nil {
		ret.Username = URL.User.Username()
		ret.Password, _ = URL.User.Password()
	}
	port := defaultPort
	if protocol != Dubbo {
		port = registryPort(protocol)
	}
	for _, host := range strings.Split(URL.Host, ",") {
		if host = strings.TrimSpace(host); host == "" {
			continue
		}
		if host, err = withPort(host, port); err != nil {
			return nil, err
		}
		ret.Hosts = append(ret.Hosts, host)
	}
	if len(ret.Hosts) == 0 {
		return nil, fmt.Errorf("invalid address %q: missing host", raw)
	}
	return ret, nil
}

// IsRegistry returns true for registry addresses
func (a *Address) IsRegistry() bool {
	return a.Protocol != Dubbo
}

// Host returns first host
func (a *Address) Host() string {
	return a.Hosts[0]
}

func (a *Address) String() string {
	return a.Protocol + "://" + strings.Join(a.Hosts, ",")
}

func registryPort(protocol string) int {
	switch protocol {
	case Zookeeper:
		return 2181
	case Nacos:
		return 8848
	case Consul:
		return 8500
	case SchemeRedis:
		return 6379
	case Multicast:
		return 1234
	case SchemeEtcd:
		return 2379
	}
	return DefaultPort
}

func withPort(host string, port int) (string, error) {
	if _, portText, err := net.SplitHostPort(host); err == nil {
		if _, err = strconv.Atoi(portText); err != nil {
			return "", fmt.Errorf("invalid port in %q", host)
		}
		return host, nil
	}
	if strings.ContainsAny(host, "/?#@ ") {
		return "", fmt.Errorf("invalid host %q", host)
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(port)), nil
}
