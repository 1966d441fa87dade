package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/invoke"
	"github.com/viant/invoke/catalog"
	"github.com/viant/invoke/chain"
	"github.com/viant/invoke/cmd/options"
	"github.com/viant/invoke/codec"
	"github.com/viant/invoke/config"
	"github.com/viant/invoke/shared/logging"
	"gopkg.in/yaml.v3"
)

// Service represents command line service
type Service struct {
	fs     afs.Service
	output io.Writer
}

// Option represents command service option
type Option func(s *Service)

// WithOutput sets command output writer
func WithOutput(output io.Writer) Option {
	return func(s *Service) {
		s.output = output
	}
}

// New creates command service
func New(opts ...Option) *Service {
	ret := &Service{fs: afs.New(), output: os.Stdout}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Exec runs selected command
func (s *Service) Exec(ctx context.Context, opts *options.Options) error {
	switch {
	case opts.Resolve != nil:
		return s.resolve(ctx, opts.Resolve)
	case opts.Sample != nil:
		return s.sample(ctx, opts.Sample)
	case opts.Command != nil:
		return s.command(ctx, opts.Command)
	case opts.Invoke != nil:
		return s.invoke(ctx, opts.Invoke)
	case opts.Catalog != nil:
		return s.catalog(ctx, opts.Catalog)
	case opts.Ping != nil:
		return s.ping(ctx, opts.Ping)
	}
	return fmt.Errorf("no command was specified")
}

func (s *Service) service(ctx context.Context, cfg *config.Config) (*invoke.Service, error) {
	logger := logging.New(cfg.Logging.Level, os.Stderr)
	return invoke.New(ctx, cfg, invoke.WithLogger(logger))
}

func (s *Service) resolve(ctx context.Context, resolve *options.Resolve) error {
	cfg, err := resolve.Config(ctx)
	if err != nil {
		return err
	}
	srv, err := s.service(ctx, cfg)
	if err != nil {
		return err
	}
	aDescriptor, err := srv.Resolve(ctx, resolve.Type, resolve.Context())
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(aDescriptor)
	if err != nil {
		return err
	}
	_, err = s.output.Write(data)
	return err
}

func (s *Service) signature(ctx context.Context, connection *options.Connection, declaration string) (*invoke.Service, *invoke.Signature, error) {
	cfg, err := connection.Config(ctx)
	if err != nil {
		return nil, nil, err
	}
	srv, err := s.service(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	method, aContext, err := srv.Method(declaration)
	if err != nil {
		return nil, nil, err
	}
	if aContext == nil {
		aContext = connection.Context()
	}
	signature, err := srv.Describe(ctx, method, aContext)
	if err != nil {
		return nil, nil, err
	}
	return srv, signature, nil
}

func (s *Service) sample(ctx context.Context, sample *options.Sample) error {
	srv, signature, err := s.signature(ctx, &sample.Connection, sample.Method)
	if err != nil {
		return err
	}
	data, err := codec.EncodeAll(srv.Sample(signature))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.output, "%s\n", data)
	return err
}

func (s *Service) command(ctx context.Context, command *options.Command) error {
	srv, signature, err := s.signature(ctx, &command.Connection, command.Method)
	if err != nil {
		return err
	}
	request, err := srv.Request(signature, []byte(command.Args))
	if err != nil {
		return err
	}
	text, err := srv.Command(request)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.output, text)
	return err
}

func (s *Service) invoke(ctx context.Context, anInvoke *options.Invoke) error {
	srv, signature, err := s.signature(ctx, &anInvoke.Connection, anInvoke.Method)
	if err != nil {
		return err
	}
	request, err := srv.Request(signature, []byte(anInvoke.Args))
	if err != nil {
		return err
	}
	outcome := srv.Invoke(ctx, request)
	aReport, err := newReport(outcome)
	if err != nil {
		return err
	}
	if err = s.write(aReport, anInvoke.Output); err != nil {
		return err
	}
	if !outcome.OK() {
		return outcome.Failure
	}
	return nil
}

func (s *Service) ping(ctx context.Context, ping *options.Ping) error {
	cfg, err := ping.Connection.Config(ctx)
	if err != nil {
		return err
	}
	srv, err := s.service(ctx, cfg)
	if err != nil {
		return err
	}
	endpoint, failure := srv.Ping(ctx, ping.Service)
	if failure != nil {
		return failure
	}
	_, err = fmt.Fprintf(s.output, "%v reachable at %v\n", ping.Service, endpoint.Address)
	return err
}

func (s *Service) write(aReport *report, format string) error {
	var data []byte
	var err error
	if strings.EqualFold(format, "yaml") {
		data, err = yaml.Marshal(aReport)
	} else {
		data, err = json.MarshalIndent(aReport, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.output, "%s\n", data)
	return err
}

func (s *Service) catalog(ctx context.Context, aCatalog *options.Catalog) error {
	cfg, err := aCatalog.Config(ctx)
	if err != nil {
		return err
	}
	entries, err := s.loadCatalog(ctx, cfg.CatalogURL)
	if err != nil {
		return err
	}
	if aCatalog.Add == "" {
		for _, entry := range entries.Entries() {
			if _, err = fmt.Fprintln(s.output, entry.FullSignature()); err != nil {
				return err
			}
		}
		return nil
	}
	entry := &catalog.Entry{Declaration: aCatalog.Add, Description: aCatalog.Description, Context: aCatalog.Context()}
	entry.ReturnType = aCatalog.ReturnType
	if err = entries.Put(entry); err != nil {
		return err
	}
	if err = entries.Save(ctx, s.fs, cfg.CatalogURL); err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.output, "saved %v\n", entry.FullSignature())
	return err
}

func (s *Service) loadCatalog(ctx context.Context, URL string) (*catalog.Catalog, error) {
	if ok, _ := s.fs.Exists(ctx, URL); !ok {
		return catalog.New()
	}
	return catalog.NewFromURL(ctx, s.fs, URL)
}

type report struct {
	Strategy string           `json:"strategy" yaml:"strategy"`
	Result   json.RawMessage  `json:"result,omitempty" yaml:"-"`
	Value    interface{}      `json:"-" yaml:"result,omitempty"`
	Failure  *chain.Failure   `json:"failure,omitempty" yaml:"failure,omitempty"`
	Attempts []*chain.Failure `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}

func newReport(outcome *chain.Outcome) (*report, error) {
	ret := &report{Strategy: outcome.Strategy(), Failure: outcome.Failure}
	if outcome.Success == nil {
		return ret, nil
	}
	ret.Attempts = outcome.Success.Attempts
	data, err := codec.Encode(outcome.Success.Result)
	if err != nil {
		return nil, err
	}
	ret.Result = data
	if err = json.Unmarshal(data, &ret.Value); err != nil {
		return nil, err
	}
	return ret, nil
}
