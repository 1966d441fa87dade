package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/viant/invoke/cmd/command"
	"github.com/viant/invoke/cmd/options"
)

// New runs invoke command line
func New(version string, args options.Arguments) error {
	opts, err := buildOptions(args)
	if err != nil || opts == nil {
		return err
	}
	if opts.Version {
		fmt.Println("invoke: " + version)
		return nil
	}
	ctx := context.Background()
	if err = opts.Init(ctx); err != nil {
		return err
	}
	cmd := command.New()
	return cmd.Exec(ctx, opts)
}

// RunApp runs invoke command line and exits on error
func RunApp(version string, args options.Arguments) {
	if err := New(version, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildOptions(args options.Arguments) (*options.Options, error) {
	opts := options.NewOptions(args)
	if _, err := flags.ParseArgs(opts, args); err != nil {
		if args.IsHelp() {
			return nil, nil
		}
		return nil, err
	}
	return opts, nil
}
