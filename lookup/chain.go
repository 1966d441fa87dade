package lookup

import (
	"context"

	"github.com/viant/invoke/resolver"
)

// Chain asks lookups in order, the first shape found wins
type Chain []resolver.Lookup

func (c Chain) Lookup(ctx context.Context, name string) (*resolver.Shape, error) {
	for _, lookup := range c {
		if lookup == nil {
			continue
		}
		shape, err := lookup.Lookup(ctx, name)
		if err != nil {
			return nil, err
		}
		if shape != nil {
			return shape, nil
		}
	}
	return nil, nil
}
