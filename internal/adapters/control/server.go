package control

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ controlServiceServer = (*Server)(nil)

// Server serves the control service for one gateway.
type Server struct {
	handler    ports.ControlHandler
	grpcServer *grpc.Server
	socketPath string
	pidPath    string
}

// NewServer creates a control server answering with handler on socketPath.
// The pid file is written next to the socket.
func NewServer(handler ports.ControlHandler, socketPath string) *Server {
	s := &Server{
		handler:    handler,
		grpcServer: grpc.NewServer(),
		socketPath: socketPath,
		pidPath:    filepath.Join(filepath.Dir(socketPath), domain.PIDFileName),
	}
	s.grpcServer.RegisterService(&serviceDesc, s)
	return s
}

// Serve listens on the socket until ctx is done. The socket and pid file are
// removed on return.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create control directory")
	}

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return zerr.Wrap(err, "failed to remove stale socket")
	}

	lis, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen on control socket"), "socket", s.socketPath)
	}

	if err := os.Chmod(s.socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to set socket permissions")
	}

	if err := os.WriteFile(s.pidPath, []byte(strconv.Itoa(os.Getpid())), domain.PrivateFilePerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to write pid file")
	}

	defer s.cleanup()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.grpcServer.GracefulStop()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) cleanup() {
	_ = os.Remove(s.socketPath)
	_ = os.Remove(s.pidPath)
}

// PostMessage implements the PostMessage RPC.
func (s *Server) PostMessage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	msg := domain.NewMessage(req.AsMap())
	reply, err := s.handler.PostMessage(ctx, msg)
	if err != nil {
		return nil, toStatus(err)
	}

	out := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	if reply != nil {
		value, err := structpb.NewStruct(reply)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		out.Fields[replyField] = structpb.NewStructValue(value)
	}
	return out, nil
}

// Status implements the Status RPC.
func (s *Server) Status(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	st, err := s.handler.Status(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := encodeStatus(st)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// Shutdown implements the Shutdown RPC.
func (s *Server) Shutdown(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.handler.Shutdown(ctx); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func toStatus(err error) error {
	if errors.Is(err, domain.ErrNoActiveWorker) {
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
