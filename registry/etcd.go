package registry

import (
	"context"
	"net/url"
	"path"
	"time"

	"github.com/pkg/errors"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const defaultDialTimeout = 5 * time.Second

// Etcd resolves providers registered under /dubbo/<service>/providers/
type Etcd struct {
	client   *clientv3.Client
	root     string
	selector *Selector
}

// NewEtcd creates etcd resolver
func NewEtcd(ctx context.Context, address *Address, selector *Selector, dialTimeout time.Duration) (*Etcd, error) {
	if dialTimeout == 0 {
		dialTimeout = defaultDialTimeout
	}
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   address.Hosts,
		DialTimeout: dialTimeout,
		Username:    address.Username,
		Password:    address.Password,
		Context:     ctx,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect etcd %v", address.Hosts)
	}
	return &Etcd{client: client, root: rootOf(address.Params), selector: selector}, nil
}

func (e *Etcd) ResolveEndpoint(ctx context.Context, service string) (*Endpoint, error) {
	prefix := providersPath(e.root, service) + "/"
	resp, err := e.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %v", prefix)
	}
	providers := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		providers = append(providers, path.Base(string(kv.Key)))
	}
	if len(providers) == 0 {
		return nil, &UnavailableError{Service: service, Registry: SchemeEtcd, Reason: "no providers under " + prefix}
	}
	return e.selector.Select(service, providers)
}

func (e *Etcd) Close() error {
	return e.client.Close()
}

func rootOf(params url.Values) string {
	if root := params.Get("root"); root != "" {
		return path.Clean("/" + root)
	}
	return "/" + Dubbo
}

func providersPath(root, service string) string {
	return path.Join(root, service, "providers")
}
