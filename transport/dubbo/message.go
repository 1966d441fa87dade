package dubbo

import (
	"fmt"

	hessian2 "github.com/apache/dubbo-go-hessian2"
	"github.com/viant/invoke/transport/hessian"
)

const (
	// Version represents dubbo protocol version written in request body
	Version = hessian2.DEFAULT_DUBBO_PROTOCOL_VERSION
	// DefaultServiceVersion is sent when service version is not set
	DefaultServiceVersion = "0.0.0"
)

// Response body types
const (
	ResponseWithException               = int32(hessian2.RESPONSE_WITH_EXCEPTION)
	ResponseValue                       = int32(hessian2.RESPONSE_VALUE)
	ResponseNullValue                   = int32(hessian2.RESPONSE_NULL_VALUE)
	ResponseWithExceptionWithAttachment = int32(hessian2.RESPONSE_WITH_EXCEPTION_WITH_ATTACHMENTS)
	ResponseValueWithAttachment         = int32(hessian2.RESPONSE_VALUE_WITH_ATTACHMENTS)
	ResponseNullValueWithAttachment     = int32(hessian2.RESPONSE_NULL_VALUE_WITH_ATTACHMENTS)
)

const detailMessageField = "detailMessage"

type (
	// Invocation represents RPC request body
	Invocation struct {
		Service        string
		Version        string
		Method         string
		ParameterTypes string
		Args           []interface{}
		Attachments    map[string]string
	}

	// Response represents decoded RPC response body
	Response struct {
		Value       interface{}
		Exception   interface{}
		Attachments map[string]string
	}

	// StatusError represents non OK response status
	StatusError struct {
		Status  byte
		Message string
	}

	// ExceptionError represents exception thrown by remote method
	ExceptionError struct {
		Exception interface{}
	}
)

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("dubbo status %v", StatusText(e.Status))
	}
	return fmt.Sprintf("dubbo status %v: %v", StatusText(e.Status), e.Message)
}

func (e *ExceptionError) Error() string {
	switch actual := e.Exception.(type) {
	case error:
		return "remote exception: " + actual.Error()
	case string:
		return "remote exception: " + actual
	}
	if attributes := hessian.Attachments(e.Exception); attributes != nil {
		class := attributes["class"]
		if message, ok := attributes[detailMessageField]; ok {
			if class == "" {
				return "remote exception: " + message
			}
			return fmt.Sprintf("remote exception %v: %v", class, message)
		}
		if class != "" {
			return "remote exception " + class
		}
	}
	return fmt.Sprintf("remote exception: %v", e.Exception)
}

// EncodeRequest writes hessian2 request body: dubbo version, service, version, method,
// parameter types descriptor, arguments and attachments
func EncodeRequest(invocation *Invocation) ([]byte, error) {
	encoder := hessian.NewEncoder()
	version := invocation.Version
	if version == "" {
		version = DefaultServiceVersion
	}
	if err := encoder.Encode(Version, invocation.Service, version, invocation.Method, invocation.ParameterTypes); err != nil {
		return nil, err
	}
	for i, arg := range invocation.Args {
		if err := encoder.Encode(arg); err != nil {
			return nil, fmt.Errorf("failed to encode %v.%v argument %v: %w", invocation.Service, invocation.Method, i, err)
		}
	}
	attachments := map[string]string{
		"path":      invocation.Service,
		"interface": invocation.Service,
		"version":   version,
	}
	for key, value := range invocation.Attachments {
		attachments[key] = value
	}
	if err := encoder.Encode(attachments); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// DecodeRequest reads request body, argument count is derived from parameter types descriptor
func DecodeRequest(body []byte) (*Invocation, error) {
	decoder := hessian.NewDecoder(body)
	ret := &Invocation{}
	var dubboVersion string
	for _, target := range []*string{&dubboVersion, &ret.Service, &ret.Version, &ret.Method, &ret.ParameterTypes} {
		text, err := decoder.DecodeString()
		if err != nil {
			return nil, fmt.Errorf("failed to decode request header: %w", err)
		}
		*target = text
	}
	count, err := CountParameters(ret.ParameterTypes)
	if err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		arg, err := decoder.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode argument %v: %w", i, err)
		}
		ret.Args = append(ret.Args, arg)
	}
	raw, err := decoder.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachments: %w", err)
	}
	ret.Attachments = hessian.Attachments(raw)
	return ret, nil
}

// EncodeResponse writes hessian2 response body, exception takes precedence
func EncodeResponse(value interface{}, exception interface{}) ([]byte, error) {
	encoder := hessian.NewEncoder()
	var err error
	switch {
	case exception != nil:
		err = encoder.Encode(ResponseWithException, exception)
	case value == nil:
		err = encoder.Encode(ResponseNullValue)
	default:
		err = encoder.Encode(ResponseValue, value)
	}
	if err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// EncodeResponseWithAttachments writes hessian2 response body followed by attachments
func EncodeResponseWithAttachments(value interface{}, attachments map[string]string) ([]byte, error) {
	encoder := hessian.NewEncoder()
	var err error
	if value == nil {
		err = encoder.Encode(ResponseNullValueWithAttachment, attachments)
	} else {
		err = encoder.Encode(ResponseValueWithAttachment, value, attachments)
	}
	if err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// DecodeResponse reads hessian2 response body
func DecodeResponse(body []byte) (*Response, error) {
	decoder := hessian.NewDecoder(body)
	responseType, err := decoder.DecodeInt()
	if err != nil {
		return nil, fmt.Errorf("failed to decode response type: %w", err)
	}
	ret := &Response{}
	switch int32(responseType) {
	case ResponseWithException, ResponseWithExceptionWithAttachment:
		if ret.Exception, err = decoder.Decode(); err != nil {
			return nil, fmt.Errorf("failed to decode exception: %w", err)
		}
		if ret.Exception == nil {
			ret.Exception = "unknown"
		}
	case ResponseValue, ResponseValueWithAttachment:
		if ret.Value, err = decoder.Decode(); err != nil {
			return nil, fmt.Errorf("failed to decode value: %w", err)
		}
	case ResponseNullValue, ResponseNullValueWithAttachment:
	default:
		return nil, fmt.Errorf("unsupported response type: %v", responseType)
	}
	if int32(responseType) >= ResponseWithExceptionWithAttachment {
		attachments, err := decoder.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachments: %w", err)
		}
		ret.Attachments = hessian.Attachments(attachments)
	}
	return ret, nil
}

// Err returns ExceptionError if response carries exception
func (r *Response) Err() error {
	if r.Exception == nil {
		return nil
	}
	return &ExceptionError{Exception: r.Exception}
}

// CountParameters returns number of parameters in JVM method descriptor, i.e. ILjava/lang/String;[J
func CountParameters(descriptor string) (int, error) {
	count := 0
	for i := 0; i < len(descriptor); i++ {
		for i < len(descriptor) && descriptor[i] == '[' {
			i++
		}
		if i >= len(descriptor) {
			return 0, fmt.Errorf("invalid parameter descriptor: %q", descriptor)
		}
		switch descriptor[i] {
		case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
		case 'L':
			end := i
			for end < len(descriptor) && descriptor[end] != ';' {
				end++
			}
			if end == len(descriptor) {
				return 0, fmt.Errorf("invalid parameter descriptor: %q", descriptor)
			}
			i = end
		default:
			return 0, fmt.Errorf("invalid parameter descriptor: %q", descriptor)
		}
		count++
	}
	return count, nil
}
