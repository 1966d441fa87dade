package options

import "fmt"

type (
	Resolve struct {
		Source
		Type string `short:"y" long:"type" description:"type signature, i.e. java.util.List<com.example.Row>" required:"true"`
	}

	Sample struct {
		Connection
		Method string `short:"M" long:"method" description:"method declaration or catalog key" required:"true"`
	}

	Command struct {
		Connection
		Method string `short:"M" long:"method" description:"method declaration or catalog key" required:"true"`
		Args   string `short:"A" long:"args" description:"JSON array of arguments, sample values are used when empty"`
	}

	Invoke struct {
		Connection
		Method string `short:"M" long:"method" description:"method declaration or catalog key" required:"true"`
		Args   string `short:"A" long:"args" description:"JSON array of arguments, sample values are used when empty"`
		Output string `short:"o" long:"output" description:"output format" choice:"json" choice:"yaml" default:"json"`
	}

	Catalog struct {
		Source
		Add         string `long:"add" description:"method declaration to save"`
		ReturnType  string `long:"return" description:"saved method return type"`
		Description string `long:"desc" description:"saved method description"`
	}

	Ping struct {
		Connection
		Service string `short:"S" long:"service" description:"service interface, i.e. com.example.UserService" required:"true"`
	}
)

func (r *Resolve) Init() error {
	r.Source.Init()
	if r.Type == "" {
		return fmt.Errorf("type was empty")
	}
	return nil
}

func (c *Catalog) Init() error {
	c.Source.Init()
	if c.CatalogURL == "" {
		return fmt.Errorf("catalog URL was empty")
	}
	return nil
}

func (p *Ping) Init() error {
	p.Source.Init()
	if p.Service == "" {
		return fmt.Errorf("service was empty")
	}
	return nil
}
