package options

import (
	"context"

	"github.com/viant/invoke/config"
	"github.com/viant/invoke/resolver"
)

// Source represents type and method sources shared by all commands
type Source struct {
	ConfigURL  string   `short:"c" long:"conf" description:"invoke config URL (yaml or json)"`
	TypesURL   string   `short:"T" long:"types" description:"type definitions URL"`
	CatalogURL string   `short:"C" long:"catalog" description:"method catalog URL"`
	Package    string   `short:"p" long:"package" description:"name resolution package"`
	Imports    []string `short:"i" long:"import" description:"name resolution imports"`
	Class      string   `long:"class" description:"name resolution enclosing class"`
	MaxDepth   int      `short:"d" long:"depth" description:"sample nesting limit"`
	LogLevel   string   `long:"log" description:"log level" choice:"DEBUG" choice:"INFO" choice:"WARN" choice:"ERROR"`
}

func (s *Source) Init() {
	s.ConfigURL = ensureAbsPath(s.ConfigURL)
	s.TypesURL = ensureAbsPath(s.TypesURL)
	s.CatalogURL = ensureAbsPath(s.CatalogURL)
}

// Context returns name resolution context, nil when not set
func (s *Source) Context() *resolver.Context {
	if s.Package == "" && len(s.Imports) == 0 && s.Class == "" {
		return nil
	}
	return &resolver.Context{Package: s.Package, Imports: s.Imports, Class: s.Class}
}

// Config loads config when URL is set, command line values take precedence
func (s *Source) Config(ctx context.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if s.ConfigURL != "" {
		var err error
		if cfg, err = config.NewConfigFromURL(ctx, s.ConfigURL); err != nil {
			return nil, err
		}
	}
	if s.TypesURL != "" {
		cfg.TypesURL = s.TypesURL
	}
	if s.CatalogURL != "" {
		cfg.CatalogURL = s.CatalogURL
	}
	if s.MaxDepth > 0 {
		cfg.MaxDepth = s.MaxDepth
	}
	if s.LogLevel != "" {
		cfg.Logging.Level = s.LogLevel
	}
	if aContext := s.Context(); aContext != nil {
		cfg.Context = *aContext
	}
	cfg.Init()
	return cfg, nil
}
