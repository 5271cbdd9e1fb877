package control

import (
	"context"
	"os"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	_ ports.ControlDialer = (*Dialer)(nil)
	_ ports.ControlClient = (*Client)(nil)
)

// Dialer implements ports.ControlDialer.
type Dialer struct{}

// NewDialer creates a Dialer.
func NewDialer() *Dialer {
	return &Dialer{}
}

// Dial connects to the gateway listening on socketPath.
// The connection itself is made lazily on the first call.
func (d *Dialer) Dial(_ context.Context, socketPath string) (ports.ControlClient, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrControlUnavailable.Error()), "socket", socketPath)
	}

	conn, err := grpc.NewClient("unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrControlUnavailable.Error()), "socket", socketPath)
	}
	return &Client{conn: conn, socketPath: socketPath}, nil
}

// Client implements ports.ControlClient.
type Client struct {
	conn       *grpc.ClientConn
	socketPath string
}

// PostMessage sends msg to the gateway and returns the worker's reply.
func (c *Client) PostMessage(ctx context.Context, msg domain.Message) (map[string]any, error) {
	data := msg.Data
	if data == nil {
		data = map[string]any{"type": string(msg.Type)}
	}
	in, err := structpb.NewStruct(data)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidMessage.Error())
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, methodPostMessage, in, out); err != nil {
		return nil, c.wrap(err)
	}

	reply, ok := out.GetFields()[replyField]
	if !ok {
		return nil, nil
	}
	return reply.GetStructValue().AsMap(), nil
}

// Status returns a snapshot of the gateway.
func (c *Client) Status(ctx context.Context) (*domain.GatewayStatus, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, methodStatus, &emptypb.Empty{}, out); err != nil {
		return nil, c.wrap(err)
	}
	return decodeStatus(out), nil
}

// Shutdown asks the gateway to stop.
func (c *Client) Shutdown(ctx context.Context) error {
	if err := c.conn.Invoke(ctx, methodShutdown, &emptypb.Empty{}, &emptypb.Empty{}); err != nil {
		return c.wrap(err)
	}
	return nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) wrap(err error) error {
	st, ok := status.FromError(err)
	if ok && st.Code() == codes.Unavailable {
		return zerr.With(zerr.Wrap(err, domain.ErrControlUnavailable.Error()), "socket", c.socketPath)
	}
	if ok {
		return zerr.With(zerr.New(st.Message()), "code", st.Code().String())
	}
	return zerr.Wrap(err, "control request failed")
}
