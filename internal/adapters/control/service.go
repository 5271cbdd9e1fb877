// Package control exposes a running gateway over gRPC on a Unix socket.
// Payloads are JSON-like structpb values, so the service is declared by hand
// instead of from generated stubs.
package control

import (
	"context"
	"time"

	"go.trai.ch/offline/internal/core/domain"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "offline.control.v1.ControlService"

const (
	methodPostMessage = "/" + ServiceName + "/PostMessage"
	methodStatus      = "/" + ServiceName + "/Status"
	methodShutdown    = "/" + ServiceName + "/Shutdown"
)

// controlServiceServer is the server API of the control service.
type controlServiceServer interface {
	PostMessage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Status(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Shutdown(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*controlServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PostMessage", Handler: postMessageHandler},
		{MethodName: "Status", Handler: statusHandler},
		{MethodName: "Shutdown", Handler: shutdownHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "offline/control/v1/control.proto",
}

func postMessageHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(controlServiceServer).PostMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodPostMessage}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(controlServiceServer).PostMessage(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(controlServiceServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodStatus}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(controlServiceServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func shutdownHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(controlServiceServer).Shutdown(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodShutdown}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(controlServiceServer).Shutdown(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// replyField holds the worker reply in a PostMessage response. It is absent
// when the worker did not reply.
const replyField = "reply"

func encodeStatus(st *domain.GatewayStatus) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"pid":            st.PID,
		"listen":         st.Listen,
		"scope":          st.Scope,
		"storage":        string(st.Storage),
		"uptime_seconds": st.Uptime.Seconds(),
		"active":         encodeWorker(st.Registration.Active),
		"waiting":        encodeWorker(st.Registration.Waiting),
		"installing":     encodeWorker(st.Registration.Installing),
		"controlled":     st.Registration.Controlled,
	})
}

func encodeWorker(w *domain.WorkerStatus) any {
	if w == nil {
		return nil
	}
	return map[string]any{
		"generation": w.Generation.String(),
		"state":      w.State.String(),
	}
}

func decodeStatus(s *structpb.Struct) *domain.GatewayStatus {
	m := s.AsMap()
	str := func(key string) string {
		v, _ := m[key].(string)
		return v
	}
	num := func(key string) float64 {
		v, _ := m[key].(float64)
		return v
	}
	controlled, _ := m["controlled"].(bool)

	return &domain.GatewayStatus{
		PID:     int(num("pid")),
		Listen:  str("listen"),
		Scope:   str("scope"),
		Storage: domain.StorageDriver(str("storage")),
		Uptime:  time.Duration(num("uptime_seconds") * float64(time.Second)),
		Registration: domain.RegistrationStatus{
			Active:     decodeWorker(m["active"]),
			Waiting:    decodeWorker(m["waiting"]),
			Installing: decodeWorker(m["installing"]),
			Controlled: controlled,
		},
	}
}

func decodeWorker(v any) *domain.WorkerStatus {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	generation, _ := m["generation"].(string)
	state, _ := m["state"].(string)
	return &domain.WorkerStatus{
		Generation: domain.Generation(generation),
		State:      domain.ParseWorkerState(state),
	}
}
