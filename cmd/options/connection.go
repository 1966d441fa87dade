package options

import (
	"context"
	"strings"

	"github.com/viant/invoke/config"
)

// Connection represents remote service connection options
type Connection struct {
	Source
	Address    string   `short:"a" long:"address" description:"registry (zookeeper://, etcd://, redis://) or direct dubbo://host:port address"`
	TimeoutMs  int      `short:"t" long:"timeout" description:"per strategy timeout in ms"`
	Retries    int      `short:"r" long:"retries" description:"registry lookup retries"`
	Strategies []string `short:"s" long:"strategy" description:"strategies in priority order" choice:"native" choice:"generic" choice:"http"`
	HTTPURL    string   `short:"u" long:"url" description:"http bridge URL"`
	Mode       string   `short:"m" long:"mode" description:"http bridge mode" choice:"dubbo" choice:"jsonrpc"`
	Version    string   `short:"V" long:"version" description:"service version"`
	Group      string   `short:"g" long:"group" description:"service group"`
	Generic    bool     `short:"G" long:"generic" description:"use generic $invoke"`
	NoExample  bool     `short:"n" long:"noexample" description:"use nulls instead of example values"`
}

// Config loads config and applies connection overrides
func (c *Connection) Config(ctx context.Context) (*config.Config, error) {
	cfg, err := c.Source.Config(ctx)
	if err != nil {
		return nil, err
	}
	if c.Address != "" {
		if strings.Contains(c.Address, "://") && !strings.HasPrefix(c.Address, "dubbo://") {
			cfg.RegistryAddress = c.Address
			cfg.ServiceAddress = ""
		} else {
			cfg.ServiceAddress = c.Address
		}
	}
	if c.TimeoutMs > 0 {
		cfg.TimeoutMs = c.TimeoutMs
	}
	if c.Retries > 0 {
		cfg.Retries = c.Retries
	}
	if c.Generic {
		cfg.UseGeneric = true
	}
	if len(c.Strategies) > 0 {
		cfg.Strategies = c.Strategies
	} else if c.Generic && c.ConfigURL == "" {
		cfg.Strategies = nil
	}
	if c.HTTPURL != "" {
		cfg.HTTP.URL = c.HTTPURL
	}
	if c.Mode != "" {
		cfg.HTTP.Mode = c.Mode
	}
	if c.Version != "" {
		cfg.Version = c.Version
	}
	if c.Group != "" {
		cfg.Group = c.Group
	}
	if c.NoExample {
		useExampleValues := false
		cfg.UseExampleValues = &useExampleValues
	}
	cfg.Init()
	return cfg, cfg.Validate()
}
