package api

import (
	"context"

	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// SessionServiceName is the fully qualified gRPC service name.
const SessionServiceName = "mazerunner.Session"

// Full method names of the Session service.
const (
	SessionNewSessionMethod   = "/" + SessionServiceName + "/NewSession"
	SessionStartNewGameMethod = "/" + SessionServiceName + "/StartNewGame"
	SessionMoveMethod         = "/" + SessionServiceName + "/Move"
	SessionStateMethod        = "/" + SessionServiceName + "/State"
	SessionEndSessionMethod   = "/" + SessionServiceName + "/EndSession"
)

// SessionServer is the server API for the Session service. Requests and
// responses are free-form protobuf Structs. Implementations must embed
// UnimplementedSessionServer for forward compatibility.
type SessionServer interface {
	NewSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartNewGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Move(context.Context, *structpb.Struct) (*structpb.Struct, error)
	State(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedSessionServer()
}

// UnimplementedSessionServer must be embedded to have forward compatible
// implementations.
type UnimplementedSessionServer struct{}

func (UnimplementedSessionServer) NewSession(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method NewSession not implemented")
}

func (UnimplementedSessionServer) StartNewGame(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method StartNewGame not implemented")
}

func (UnimplementedSessionServer) Move(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Move not implemented")
}

func (UnimplementedSessionServer) State(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method State not implemented")
}

func (UnimplementedSessionServer) EndSession(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EndSession not implemented")
}

func (UnimplementedSessionServer) mustEmbedUnimplementedSessionServer() {}

// RegisterSessionServer registers srv on s.
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&sessionServiceDesc, srv)
}

type unaryMethod func(SessionServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a SessionServer method to a grpc method handler.
func unaryHandler(fullMethod string, call unaryMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SessionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SessionServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var sessionServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "NewSession", Handler: unaryHandler(SessionNewSessionMethod, SessionServer.NewSession)},
		{MethodName: "StartNewGame", Handler: unaryHandler(SessionStartNewGameMethod, SessionServer.StartNewGame)},
		{MethodName: "Move", Handler: unaryHandler(SessionMoveMethod, SessionServer.Move)},
		{MethodName: "State", Handler: unaryHandler(SessionStateMethod, SessionServer.State)},
		{MethodName: "EndSession", Handler: unaryHandler(SessionEndSessionMethod, SessionServer.EndSession)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mazerunner/session",
}

// SessionClient is the client API for the Session service.
type SessionClient struct {
	cc grpc.ClientConnInterface
}

// NewSessionClient returns a client calling the Session service over cc.
func NewSessionClient(cc grpc.ClientConnInterface) *SessionClient {
	return &SessionClient{cc: cc}
}

func (c *SessionClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionClient) NewSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionNewSessionMethod, in, opts...)
}

func (c *SessionClient) StartNewGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionStartNewGameMethod, in, opts...)
}

func (c *SessionClient) Move(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionMoveMethod, in, opts...)
}

func (c *SessionClient) State(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionStateMethod, in, opts...)
}

func (c *SessionClient) EndSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionEndSessionMethod, in, opts...)
}
