package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/invoke/registry"
	"github.com/viant/invoke/resolver"
	"github.com/viant/invoke/shared/logging"
	"github.com/viant/invoke/strategy"
	"github.com/viant/invoke/strategy/bridge"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRegistryAddress = "dubbo://127.0.0.1:20880"
	DefaultApplicationName = "invoke-client"
	DefaultTimeoutMs       = 3000
	DefaultProtocol        = "dubbo"
	DefaultMaxDepth        = 8
)

type (
	Config struct {
		RegistryAddress  string
		ServiceAddress   string //direct address, overrides RegistryAddress
		ServicePort      int
		ApplicationName  string
		TimeoutMs        int //per strategy attempt
		Retries          int //registry lookup retries
		RetryDelayMs     int
		Protocol         string
		Version          string
		Group            string
		UseGeneric       bool
		UseExampleValues *bool
		Strategies       []string
		HTTP             HTTP
		MaxDepth         int
		TypesURL         string
		CatalogURL       string
		Context          resolver.Context
		Logging          Logging
		Redis            Redis
	}

	HTTP struct {
		URL              string
		Mode             string
		ConnectTimeoutMs int
		ReadTimeoutMs    int
	}

	Logging struct {
		Level string
	}

	Redis struct {
		Password string
		DB       int
	}
)

// NewConfigFromURL loads config, JSON is used unless URL has yaml or yml suffix
func NewConfigFromURL(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, err
	}
	aMap := map[string]interface{}{}
	if strings.HasSuffix(URL, "yaml") || strings.HasSuffix(URL, "yml") {
		if err := yaml.Unmarshal(data, &aMap); err != nil {
			return nil, err
		}
	} else {
		if err := json.Unmarshal(data, &aMap); err != nil {
			return nil, err
		}
	}
	cfg := &Config{}
	err = toolbox.DefaultConverter.AssignConverted(cfg, aMap)
	if err != nil {
		return nil, err
	}
	cfg.Init()
	return cfg, cfg.Validate()
}

// New creates config with defaults
func New() *Config {
	ret := &Config{}
	ret.Init()
	return ret
}

func (c *Config) Init() {
	if c.RegistryAddress == "" {
		c.RegistryAddress = DefaultRegistryAddress
	}
	if c.ServicePort == 0 {
		c.ServicePort = registry.DefaultPort
	}
	if c.ApplicationName == "" {
		c.ApplicationName = DefaultApplicationName
	}
	if c.TimeoutMs == 0 {
		c.TimeoutMs = DefaultTimeoutMs
	}
	if c.Protocol == "" {
		c.Protocol = DefaultProtocol
	}
	if c.UseExampleValues == nil {
		useExampleValues := true
		c.UseExampleValues = &useExampleValues
	}
	if len(c.Strategies) == 0 {
		c.Strategies = []string{strategy.Native, strategy.Generic, strategy.HTTP}
		if c.UseGeneric {
			c.Strategies = []string{strategy.Generic, strategy.Native, strategy.HTTP}
		}
	}
	for i, name := range c.Strategies {
		c.Strategies[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Logging.Level == "" {
		c.Logging.Level = logging.INFO
	}
	c.HTTP.Init()
}

func (c *Config) Validate() error {
	if _, err := registry.ParseAddress(c.Address(), c.ServicePort); err != nil {
		return fmt.Errorf("invalid RegistryAddress/ServiceAddress: %w", err)
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("TimeoutMs was negative: %v", c.TimeoutMs)
	}
	if c.Retries < 0 {
		return fmt.Errorf("Retries was negative: %v", c.Retries)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("MaxDepth was negative: %v", c.MaxDepth)
	}
	seen := map[string]bool{}
	for _, name := range c.Strategies {
		switch name {
		case strategy.Native, strategy.Generic, strategy.HTTP:
		default:
			return fmt.Errorf("Strategies had unsupported strategy: %v", name)
		}
		if seen[name] {
			return fmt.Errorf("Strategies had duplicate strategy: %v", name)
		}
		seen[name] = true
	}
	switch strings.ToUpper(c.Logging.Level) {
	case logging.DEBUG, logging.INFO, logging.WARN, logging.ERROR:
	default:
		return fmt.Errorf("Logging.Level was invalid: %v", c.Logging.Level)
	}
	return c.HTTP.Validate()
}

// Address returns ServiceAddress when set, RegistryAddress otherwise
func (c *Config) Address() string {
	if c.ServiceAddress != "" {
		return c.ServiceAddress
	}
	return c.RegistryAddress
}

func (c *Config) ExampleValues() bool {
	return c.UseExampleValues == nil || *c.UseExampleValues
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RegistryOptions returns registry resolver options
func (c *Config) RegistryOptions() *registry.Options {
	return &registry.Options{
		Address:       c.Address(),
		DefaultPort:   c.ServicePort,
		Protocol:      c.Protocol,
		Version:       c.Version,
		Group:         c.Group,
		Retries:       c.Retries,
		RetryDelay:    time.Duration(c.RetryDelayMs) * time.Millisecond,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
	}
}

func (h *HTTP) Init() {
	if h.Mode == "" {
		h.Mode = bridge.ModeDubbo
	}
	if h.ConnectTimeoutMs == 0 {
		h.ConnectTimeoutMs = int(bridge.DefaultConnectTimeout / time.Millisecond)
	}
	if h.ReadTimeoutMs == 0 {
		h.ReadTimeoutMs = int(bridge.DefaultReadTimeout / time.Millisecond)
	}
}

func (h *HTTP) Validate() error {
	switch h.Mode {
	case bridge.ModeDubbo, bridge.ModeJSONRPC:
		return nil
	}
	return fmt.Errorf("HTTP.Mode was invalid: %v", h.Mode)
}

// Options returns bridge strategy options
func (h *HTTP) Options(logger logging.Logger) *bridge.Options {
	return &bridge.Options{
		URL:            h.URL,
		Mode:           h.Mode,
		ConnectTimeout: time.Duration(h.ConnectTimeoutMs) * time.Millisecond,
		ReadTimeout:    time.Duration(h.ReadTimeoutMs) * time.Millisecond,
		Logger:         logger,
	}
}
