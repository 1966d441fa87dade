package native

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/invoke/chain"
	"github.com/viant/invoke/command"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/registry"
	"github.com/viant/invoke/transport/dubbo"
	"github.com/viant/invoke/value"
)

type handler func(conn net.Conn, header *dubbo.Header, invocation *dubbo.Invocation)

func serve(t *testing.T, handle handler) string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	t.Cleanup(func() { _ = listener.Close() })
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				header, body, err := dubbo.ReadFrame(conn, dubbo.DefaultMaxBody)
				if err != nil {
					return
				}
				invocation, err := dubbo.DecodeRequest(body)
				if err != nil {
					return
				}
				handle(conn, header, invocation)
			}(conn)
		}
	}()
	return listener.Addr().String()
}

func respond(conn net.Conn, header *dubbo.Header, status byte, body []byte) {
	_ = dubbo.WriteFrame(conn, &dubbo.Header{Serialization: dubbo.SerializationHessian2, Status: status, ID: header.ID}, body)
}

func direct(address string) registry.Opener {
	return func(ctx context.Context) (registry.Resolver, error) {
		return registry.NewDirect(address), nil
	}
}

var rowType = &descriptor.Descriptor{Kind: descriptor.KindComposite, Name: "com.example.Row", Fields: []*descriptor.Field{
	{Name: "id", Type: descriptor.NewScalar("long")},
	{Name: "name", Type: descriptor.NewScalar("String")},
}}

func newRequest() *command.Request {
	return &command.Request{
		Service: "com.example.UserService",
		Method:  "getUser",
		Parameters: []*command.Parameter{
			{TypeName: "long", Descriptor: descriptor.NewScalar("long"), Value: value.NewLeaf(descriptor.KindPrimitive, int64(7))},
		},
		Return: rowType,
	}
}

func TestStrategy_Attempt(t *testing.T) {
	receivedCh := make(chan *dubbo.Invocation, 1)
	address := serve(t, func(conn net.Conn, header *dubbo.Header, invocation *dubbo.Invocation) {
		receivedCh <- invocation
		row := map[string]interface{}{"id": invocation.Args[0], "name": "ann"}
		body, _ := dubbo.EncodeResponse(row, nil)
		respond(conn, header, dubbo.StatusOK, body)
	})
	outcome := New(direct(address)).Attempt(context.Background(), newRequest())
	require.True(t, outcome.OK())
	expect := value.NewComposite(
		&value.Field{Name: "id", Value: value.NewLeaf(descriptor.KindPrimitive, int64(7))},
		&value.Field{Name: "name", Value: value.NewLeaf(descriptor.KindString, "ann")},
	)
	assert.True(t, value.Equal(expect, outcome.Success.Result))
	assert.Equal(t, "native", outcome.Success.Strategy)

	received := <-receivedCh
	assert.Equal(t, "J", received.ParameterTypes)
	assert.Equal(t, []interface{}{int64(7)}, received.Args)
	assert.Equal(t, "getUser", received.Method)
}

func TestStrategy_Failures(t *testing.T) {
	exception := serve(t, func(conn net.Conn, header *dubbo.Header, invocation *dubbo.Invocation) {
		thrown := map[string]interface{}{"class": "java.lang.IllegalStateException", "detailMessage": "user locked"}
		body, _ := dubbo.EncodeResponse(nil, thrown)
		respond(conn, header, dubbo.StatusOK, body)
	})
	notFound := serve(t, func(conn net.Conn, header *dubbo.Header, invocation *dubbo.Invocation) {
		respond(conn, header, dubbo.StatusServiceNotFound, nil)
	})
	shapeless := serve(t, func(conn net.Conn, header *dubbo.Header, invocation *dubbo.Invocation) {
		body, _ := dubbo.EncodeResponse("not a row", nil)
		respond(conn, header, dubbo.StatusOK, body)
	})
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	closed := listener.Addr().String()
	_ = listener.Close()

	var testCases = []struct {
		description string
		opener      registry.Opener
		kind        chain.ErrorKind
		retryable   bool
		message     string
	}{
		{description: "remote exception", opener: direct(exception), kind: chain.RemoteError, message: "user locked"},
		{description: "service not found", opener: direct(notFound), kind: chain.ServiceNotFound, retryable: true},
		{description: "unexpected response shape", opener: direct(shapeless), kind: chain.SerializationError, retryable: true},
		{description: "connection refused", opener: direct(closed), kind: chain.ConnectionRefused, retryable: true},
		{
			description: "unsupported registry",
			opener: func(ctx context.Context) (registry.Resolver, error) {
				return nil, &registry.UnsupportedError{Protocol: registry.Zookeeper}
			},
			kind:      chain.ConnectionRefused,
			retryable: true,
		},
	}
	for _, testCase := range testCases {
		outcome := New(testCase.opener).Attempt(context.Background(), newRequest())
		require.False(t, outcome.OK(), testCase.description)
		assert.Equal(t, testCase.kind, outcome.Failure.Kind, testCase.description)
		assert.Equal(t, testCase.retryable, outcome.Failure.Retryable, testCase.description)
		if testCase.message != "" {
			assert.Contains(t, outcome.Failure.Message, testCase.message, testCase.description)
		}
	}
}

func TestStrategy_ErasedArgument(t *testing.T) {
	request := newRequest()
	rows := descriptor.NewCollection("java.util.List", rowType)
	request.Parameters = []*command.Parameter{{
		TypeName:   "java.util.List",
		Descriptor: rows,
		Value: value.NewCollection(value.NewComposite(
			&value.Field{Name: "id", Value: value.NewLeaf(descriptor.KindPrimitive, int64(1))},
		)),
	}}
	outcome := New(direct("127.0.0.1:1")).Attempt(context.Background(), request)
	require.False(t, outcome.OK())
	assert.Equal(t, chain.SerializationError, outcome.Failure.Kind)
	assert.True(t, outcome.Failure.Retryable)
	assert.Contains(t, outcome.Failure.Message, "com.example.Row")
}
