package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/invoke/resolver"
	"gopkg.in/yaml.v3"
)

type (
	// Definitions represents type shapes declared in a YAML or JSON document
	Definitions struct {
		shapes map[string]*resolver.Shape
		mux    sync.RWMutex
	}

	document struct {
		Types []*resolver.Shape `json:"types" yaml:"types"`
	}
)

// Lookup returns shape by declared name
func (d *Definitions) Lookup(ctx context.Context, name string) (*resolver.Shape, error) {
	d.mux.RLock()
	defer d.mux.RUnlock()
	return d.shapes[name], nil
}

// Add adds shapes
func (d *Definitions) Add(shapes ...*resolver.Shape) error {
	d.mux.Lock()
	defer d.mux.Unlock()
	for _, shape := range shapes {
		if shape == nil || shape.Name == "" {
			return fmt.Errorf("type definition name was empty")
		}
		if shape.Kind != "" {
			if err := shape.Kind.Validate(); err != nil {
				return fmt.Errorf("invalid type definition %v: %w", shape.Name, err)
			}
		}
		d.shapes[shape.Name] = shape
	}
	return nil
}

// Len returns number of shapes
func (d *Definitions) Len() int {
	d.mux.RLock()
	defer d.mux.RUnlock()
	return len(d.shapes)
}

// NewDefinitions creates definitions
func NewDefinitions(shapes ...*resolver.Shape) (*Definitions, error) {
	ret := &Definitions{shapes: map[string]*resolver.Shape{}}
	return ret, ret.Add(shapes...)
}

// NewDefinitionsFromURL loads definitions, JSON is used unless URL has yaml or yml suffix
func NewDefinitionsFromURL(ctx context.Context, fs afs.Service, URL string) (*Definitions, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, err
	}
	doc := &document{}
	if strings.HasSuffix(URL, "yaml") || strings.HasSuffix(URL, "yml") {
		err = yaml.Unmarshal(data, doc)
	} else {
		err = json.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse type definitions %v: %w", URL, err)
	}
	return NewDefinitions(doc.Types...)
}
