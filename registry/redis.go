package registry

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis resolves providers stored in /dubbo/<service>/providers hash
type Redis struct {
	client   *redis.Client
	root     string
	selector *Selector
}

// NewRedis creates redis resolver
func NewRedis(address *Address, password string, db int, selector *Selector) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     address.Host(),
		Username: address.Username,
		Password: password,
		DB:       db,
	})
	return &Redis{client: client, root: rootOf(address.Params), selector: selector}
}

func (r *Redis) ResolveEndpoint(ctx context.Context, service string) (*Endpoint, error) {
	key := providersPath(r.root, service)
	entries, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", key)
	}
	providers := make([]string, 0, len(entries))
	for provider := range entries {
		providers = append(providers, provider)
	}
	if len(providers) == 0 {
		return nil, &UnavailableError{Service: service, Registry: SchemeRedis, Reason: "no providers under " + key}
	}
	return r.selector.Select(service, providers)
}

func (r *Redis) Close() error {
	return r.client.Close()
}
