package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/viant/invoke/chain"
	"github.com/viant/invoke/codec"
	"github.com/viant/invoke/command"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/registry"
	"github.com/viant/invoke/shared/logging"
	"github.com/viant/invoke/strategy"
	"github.com/viant/invoke/value"
	"github.com/viant/jsonrpc"
)

// Bridge payload modes
const (
	ModeDubbo   = "dubbo"
	ModeJSONRPC = "jsonrpc"
)

const (
	// DefaultVersion represents service version sent when request has none
	DefaultVersion        = "1.0.0"
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 10 * time.Second

	jsonrpcVersion = "2.0"
	methodNotFound = -32601
	invalidParams  = -32602
	invalidRequest = -32600
	parseError     = -32700
	maxPayload     = 8 << 20
)

type (
	// Options represents HTTP bridge options
	Options struct {
		URL            string
		Mode           string
		ConnectTimeout time.Duration
		ReadTimeout    time.Duration
		Logger         logging.Logger
	}

	// Strategy invokes method through HTTP JSON bridge
	Strategy struct {
		options *Options
		opener  registry.Opener
		client  *http.Client
		nextID  atomic.Int64
	}

	dubboRequest struct {
		Service        string            `json:"service"`
		Method         string            `json:"method"`
		ParameterTypes []string          `json:"parameterTypes"`
		Parameters     []json.RawMessage `json:"parameters"`
		Version        string            `json:"version"`
		Group          string            `json:"group"`
	}

	rpcRequest struct {
		Version string            `json:"jsonrpc"`
		ID      int64             `json:"id"`
		Method  string            `json:"method"`
		Params  []json.RawMessage `json:"params"`
	}

	payload struct {
		Result  json.RawMessage `json:"result"`
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
)

// New creates bridge strategy, opener is used to derive http://host:port when URL is not set
func New(options *Options, opener registry.Opener) *Strategy {
	if options.Mode == "" {
		options.Mode = ModeDubbo
	}
	if options.ConnectTimeout == 0 {
		options.ConnectTimeout = DefaultConnectTimeout
	}
	if options.ReadTimeout == 0 {
		options.ReadTimeout = DefaultReadTimeout
	}
	if options.Logger == nil {
		options.Logger = logging.Nop()
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: options.ConnectTimeout}).DialContext,
		ResponseHeaderTimeout: options.ReadTimeout,
	}
	return &Strategy{options: options, opener: opener, client: &http.Client{Transport: transport}}
}

func (s *Strategy) Name() string {
	return strategy.HTTP
}

func (s *Strategy) Attempt(ctx context.Context, request *command.Request) *chain.Outcome {
	URL, err := s.url(ctx, request.Service)
	if err != nil {
		return chain.Failed(s.Name(), err)
	}
	body, err := s.body(request)
	if err != nil {
		return chain.Failed(s.Name(), chain.NewRetryableError(chain.SerializationError, err))
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, URL, bytes.NewReader(body))
	if err != nil {
		return chain.Failed(s.Name(), chain.NewError(chain.SerializationError, err))
	}
	httpRequest.Header.Set("Content-Type", "application/json; charset=UTF-8")
	httpRequest.Header.Set("Accept", "application/json")
	s.options.Logger.Debugc(ctx, "posting bridge request", "url", URL, "mode", s.options.Mode)
	response, err := s.client.Do(httpRequest)
	if err != nil {
		return chain.Failed(s.Name(), errors.Wrapf(err, "failed to post %v", URL))
	}
	defer response.Body.Close()
	data, err := io.ReadAll(io.LimitReader(response.Body, maxPayload))
	if err != nil {
		return chain.Failed(s.Name(), errors.Wrapf(err, "failed to read %v response", URL))
	}
	if err = statusError(response.StatusCode, data); err != nil {
		return chain.Failed(s.Name(), err)
	}
	result, err := s.result(data, request)
	if err != nil {
		return chain.Failed(s.Name(), err)
	}
	return chain.Succeeded(s.Name(), result)
}

func (s *Strategy) url(ctx context.Context, service string) (string, error) {
	if s.options.URL != "" {
		return s.options.URL, nil
	}
	if s.opener == nil {
		return "", chain.NewError(chain.ServiceNotFound, fmt.Errorf("bridge URL was not configured"))
	}
	resolver, err := s.opener(ctx)
	if err != nil {
		return "", strategy.RegistryError(err)
	}
	defer resolver.Close()
	endpoint, err := resolver.ResolveEndpoint(ctx, service)
	if err != nil {
		return "", strategy.RegistryError(err)
	}
	return "http://" + endpoint.Address, nil
}

func (s *Strategy) body(request *command.Request) ([]byte, error) {
	parameters := make([]json.RawMessage, 0, len(request.Parameters))
	for i, parameter := range request.Parameters {
		data, err := codec.Encode(parameter.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode parameter %v: %w", i, err)
		}
		parameters = append(parameters, data)
	}
	if s.options.Mode == ModeJSONRPC {
		return json.Marshal(&rpcRequest{
			Version: jsonrpcVersion,
			ID:      s.nextID.Add(1),
			Method:  request.Key(),
			Params:  parameters,
		})
	}
	version := request.Version
	if version == "" {
		version = DefaultVersion
	}
	return json.Marshal(&dubboRequest{
		Service:        request.Service,
		Method:         request.Method,
		ParameterTypes: request.TypeNames(),
		Parameters:     parameters,
		Version:        version,
		Group:          request.Group,
	})
}

func (s *Strategy) result(data []byte, request *command.Request) (*value.Value, error) {
	ret := &payload{}
	if err := json.Unmarshal(data, ret); err != nil {
		if s.options.Mode == ModeJSONRPC {
			return nil, chain.NewRetryableError(chain.SerializationError, fmt.Errorf("invalid jsonrpc response: %w", err))
		}
		// non envelope payload is taken as the result itself
		return decode(data, request.Return)
	}
	if len(ret.Error) > 0 && !isJSONFalse(ret.Error) {
		return nil, s.remoteError(ret)
	}
	if ret.Result == nil {
		if s.options.Mode == ModeJSONRPC {
			return nil, chain.NewRetryableError(chain.SerializationError, fmt.Errorf("jsonrpc response had neither result nor error"))
		}
		return decode(data, request.Return)
	}
	return decode(ret.Result, request.Return)
}

func (s *Strategy) remoteError(ret *payload) error {
	if s.options.Mode == ModeJSONRPC {
		rpcErr := &jsonrpc.Error{}
		if err := json.Unmarshal(ret.Error, rpcErr); err == nil {
			err := fmt.Errorf("jsonrpc error %v: %v", rpcErr.Code, rpcErr.Message)
			switch rpcErr.Code {
			case methodNotFound:
				return chain.NewError(chain.ServiceNotFound, err)
			case invalidParams, invalidRequest, parseError:
				return chain.NewError(chain.SerializationError, err)
			}
			return chain.NewError(chain.RemoteError, err)
		}
	}
	message := ret.Message
	var text string
	if err := json.Unmarshal(ret.Error, &text); err == nil && text != "" {
		message = text
	}
	if message == "" {
		message = string(ret.Error)
	}
	return chain.NewError(chain.RemoteError, fmt.Errorf("bridge error: %v", message))
}

func decode(data []byte, returnType *descriptor.Descriptor) (*value.Value, error) {
	if returnType == nil {
		return codec.Infer(data)
	}
	return codec.Decode(data, returnType)
}

func isJSONFalse(data []byte) bool {
	text := strings.TrimSpace(string(data))
	return text == "false" || text == "null"
}

func statusError(status int, data []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	err := fmt.Errorf("bridge responded %v: %s", status, truncate(data))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return chain.NewError(chain.Unauthorized, err)
	case status == http.StatusNotFound:
		return chain.NewError(chain.ServiceNotFound, err)
	case status == http.StatusBadRequest:
		return chain.NewError(chain.SerializationError, err)
	case status == http.StatusGatewayTimeout:
		return chain.NewError(chain.Timeout, err)
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		return chain.NewRetryableError(chain.ConnectionRefused, err)
	case status >= 500:
		return chain.NewRetryableError(chain.SerializationError, err)
	}
	return chain.NewError(chain.SerializationError, err)
}

func truncate(data []byte) []byte {
	if len(data) > 200 {
		return append(data[:200:200], "..."...)
	}
	return data
}
