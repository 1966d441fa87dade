package command

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/invoke/chain"
	"github.com/viant/invoke/cmd/options"
)

func TestService_Exec(t *testing.T) {
	catalogURL := filepath.Join(t.TempDir(), "catalog.yaml")
	var testCases = []struct {
		description string
		args        options.Arguments
		expect      string
	}{
		{
			description: "sample arguments",
			args:        options.Arguments{"sample", "-M", "com.example.UserService.find(int id, String name)"},
			expect:      "[0,\"\"]\n",
		},
		{
			description: "sample nulls",
			args:        options.Arguments{"sample", "-n", "-M", "com.example.UserService.find(int id, String name)"},
			expect:      "[null,null]\n",
		},
		{
			description: "command text",
			args:        options.Arguments{"command", "-M", "com.example.UserService.find(int id, String name)", "-A", "[7,\"x\"]"},
			expect:      "invoke com.example.UserService.find(7,\"x\")\n",
		},
		{
			description: "save catalog entry",
			args:        options.Arguments{"catalog", "-C", catalogURL, "--add", "com.example.UserService.find(int id, String name)", "--return", "String"},
			expect:      "saved String com.example.UserService.find(int id, String name)\n",
		},
		{
			description: "list catalog",
			args:        options.Arguments{"catalog", "-C", catalogURL},
			expect:      "String com.example.UserService.find(int id, String name)\n",
		},
		{
			description: "sample catalog method",
			args:        options.Arguments{"sample", "-C", catalogURL, "-M", "com.example.UserService.find"},
			expect:      "[0,\"\"]\n",
		},
	}
	for _, testCase := range testCases {
		opts := options.NewOptions(testCase.args)
		_, err := flags.ParseArgs(opts, testCase.args)
		require.Nil(t, err, testCase.description)
		require.Nil(t, opts.Init(context.Background()), testCase.description)
		output := &bytes.Buffer{}
		err = New(WithOutput(output)).Exec(context.Background(), opts)
		require.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, output.String(), testCase.description)
	}
}

func TestService_Ping(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	defer listener.Close()
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	closedListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	closed := closedListener.Addr().String()
	_ = closedListener.Close()

	var testCases = []struct {
		description string
		address     string
		expect      string
		kind        chain.ErrorKind
	}{
		{description: "reachable", address: listener.Addr().String(), expect: "com.example.UserService reachable at " + listener.Addr().String() + "\n"},
		{description: "refused", address: closed, kind: chain.ConnectionRefused},
	}
	for _, testCase := range testCases {
		args := options.Arguments{"ping", "-a", testCase.address, "-t", "500", "-S", "com.example.UserService"}
		require.True(t, args.SubMode(), testCase.description)
		opts := options.NewOptions(args)
		_, err := flags.ParseArgs(opts, args)
		require.Nil(t, err, testCase.description)
		require.Nil(t, opts.Init(context.Background()), testCase.description)
		output := &bytes.Buffer{}
		err = New(WithOutput(output)).Exec(context.Background(), opts)
		if testCase.kind == "" {
			require.Nil(t, err, testCase.description)
			assert.Equal(t, testCase.expect, output.String(), testCase.description)
			continue
		}
		failure := &chain.Failure{}
		require.True(t, errors.As(err, &failure), testCase.description)
		assert.Equal(t, testCase.kind, failure.Kind, testCase.description)
	}
}
