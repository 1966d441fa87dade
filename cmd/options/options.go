package options

import (
	"context"
	"fmt"
)

type Options struct {
	Resolve *Resolve `command:"resolve" description:"resolves type signature into type descriptor"`
	Sample  *Sample  `command:"sample" description:"synthesizes sample method arguments"`
	Command *Command `command:"command" description:"renders telnet invoke command"`
	Invoke  *Invoke  `command:"invoke" description:"invokes remote method"`
	Catalog *Catalog `command:"catalog" description:"lists or saves method signatures"`
	Ping    *Ping    `command:"ping" description:"checks service provider is reachable"`
	Version bool     `short:"v" long:"ver" description:"show version"`
}

func NewOptions(args Arguments) *Options {
	ret := &Options{}
	if len(args) == 0 {
		return ret
	}
	switch args[0] {
	case "resolve":
		ret.Resolve = &Resolve{}
	case "sample":
		ret.Sample = &Sample{}
	case "command":
		ret.Command = &Command{}
	case "invoke":
		ret.Invoke = &Invoke{}
	case "catalog":
		ret.Catalog = &Catalog{}
	case "ping":
		ret.Ping = &Ping{}
	}
	return ret
}

func (o *Options) Init(ctx context.Context) error {
	switch {
	case o.Resolve != nil:
		return o.Resolve.Init()
	case o.Sample != nil:
		return initMethod(&o.Sample.Connection, o.Sample.Method)
	case o.Command != nil:
		return initMethod(&o.Command.Connection, o.Command.Method)
	case o.Invoke != nil:
		return initMethod(&o.Invoke.Connection, o.Invoke.Method)
	case o.Catalog != nil:
		return o.Catalog.Init()
	case o.Ping != nil:
		return o.Ping.Init()
	}
	return nil
}

func initMethod(connection *Connection, method string) error {
	connection.Source.Init()
	if method == "" {
		return fmt.Errorf("method was empty")
	}
	return nil
}
