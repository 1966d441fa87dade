package dubbo

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/viant/invoke/transport/hessian"
)

type (
	// Client represents single endpoint dubbo client, each call uses its own connection
	Client struct {
		address string
		maxBody int
		dialer  *net.Dialer
		nextID  atomic.Int64
	}

	// Option represents client option
	Option func(c *Client)
)

// WithConnectTimeout sets dial timeout
func WithConnectTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.dialer.Timeout = timeout
	}
}

// WithMaxBody sets max accepted response body size
func WithMaxBody(maxBody int) Option {
	return func(c *Client) {
		c.maxBody = maxBody
	}
}

// NewClient creates a client
func NewClient(address string, opts ...Option) *Client {
	ret := &Client{address: address, maxBody: DefaultMaxBody, dialer: &net.Dialer{}}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Address returns endpoint address
func (c *Client) Address() string {
	return c.address
}

// Invoke sends invocation and decodes response
func (c *Client) Invoke(ctx context.Context, invocation *Invocation) (*Response, error) {
	body, err := EncodeRequest(invocation)
	if err != nil {
		return nil, err
	}
	if body, err = c.Call(ctx, body); err != nil {
		return nil, err
	}
	return DecodeResponse(body)
}

// Call sends request body and returns response body, connection is closed before return
func (c *Client) Call(ctx context.Context, body []byte) ([]byte, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %v", c.address)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	id := c.nextID.Add(1)
	header := &Header{Request: true, TwoWay: true, Serialization: SerializationHessian2, ID: id}
	if err = WriteFrame(conn, header, body); err != nil {
		return nil, c.ioError(ctx, "write", err)
	}
	for {
		response, responseBody, err := ReadFrame(conn, c.maxBody)
		if err != nil {
			return nil, c.ioError(ctx, "read", err)
		}
		if response.Event || response.Request || response.ID != id {
			continue
		}
		if response.Status != StatusOK {
			message, _ := hessian.NewDecoder(responseBody).DecodeString()
			return nil, &StatusError{Status: response.Status, Message: message}
		}
		return responseBody, nil
	}
}

func (c *Client) ioError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("failed to %v %v: %w", op, c.address, ctxErr)
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return fmt.Errorf("failed to %v %v: %w", op, c.address, context.DeadlineExceeded)
	}
	return errors.Wrapf(err, "failed to %v %v", op, c.address)
}
