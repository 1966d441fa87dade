package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/invoke/command"
	"github.com/viant/invoke/resolver"
	"gopkg.in/yaml.v3"
)

type (
	// Entry represents saved method signature
	Entry struct {
		command.Method `yaml:",inline"`
		Declaration    string            `json:"declaration,omitempty" yaml:"declaration,omitempty"`
		Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
		Context        *resolver.Context `json:"context,omitempty" yaml:"context,omitempty"`
		Version        string            `json:"version,omitempty" yaml:"version,omitempty"`
		Group          string            `json:"group,omitempty" yaml:"group,omitempty"`
	}

	// Catalog represents saved method signatures keyed by Service.method
	Catalog struct {
		entries map[string]*Entry
		mux     sync.RWMutex
	}

	document struct {
		Methods []*Entry `json:"methods" yaml:"methods"`
	}
)

// Init parses declaration when method was not declared field by field
func (e *Entry) Init() error {
	if e.Declaration == "" {
		if e.Service == "" || e.Name == "" {
			return fmt.Errorf("catalog entry service and name were required")
		}
		return nil
	}
	method, err := command.ParseMethod(e.Declaration)
	if err != nil {
		return fmt.Errorf("invalid catalog declaration %q: %w", e.Declaration, err)
	}
	if e.ReturnType != "" {
		method.ReturnType = e.ReturnType
	}
	e.Method = *method
	return nil
}

// New creates a catalog
func New(entries ...*Entry) (*Catalog, error) {
	ret := &Catalog{entries: map[string]*Entry{}}
	for _, entry := range entries {
		if err := ret.Put(entry); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// NewFromURL loads catalog, JSON is used unless URL has yaml or yml suffix
func NewFromURL(ctx context.Context, fs afs.Service, URL string) (*Catalog, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, err
	}
	doc := &document{}
	if isYAML(URL) {
		err = yaml.Unmarshal(data, doc)
	} else {
		err = json.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %v: %w", URL, err)
	}
	return New(doc.Methods...)
}

// Put adds or replaces entry
func (c *Catalog) Put(entry *Entry) error {
	if err := entry.Init(); err != nil {
		return err
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	c.entries[entry.Key()] = entry
	return nil
}

// Lookup returns entry by Service.method key
func (c *Catalog) Lookup(key string) (*Entry, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	ret, ok := c.entries[key]
	return ret, ok
}

// Entries returns entries sorted by key
func (c *Catalog) Entries() []*Entry {
	c.mux.RLock()
	defer c.mux.RUnlock()
	ret := make([]*Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		ret = append(ret, entry)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Key() < ret[j].Key()
	})
	return ret
}

// Save stores catalog at URL
func (c *Catalog) Save(ctx context.Context, fs afs.Service, URL string) error {
	if fs == nil {
		fs = afs.New()
	}
	doc := &document{Methods: c.Entries()}
	var data []byte
	var err error
	if isYAML(URL) {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return err
	}
	return fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data))
}

func isYAML(URL string) bool {
	return strings.HasSuffix(URL, "yaml") || strings.HasSuffix(URL, "yml")
}
