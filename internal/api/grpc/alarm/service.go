package alarm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "alarmclock.v1.AlarmClock"

// AlarmClockServer is the server API of the alarm clock service.
type AlarmClockServer interface {
	// CreateAlarm stores a new alarm from a draft document.
	CreateAlarm(ctx context.Context, draft *structpb.Struct) (*structpb.Struct, error)
	// UpdateAlarm applies a patch document carrying the alarm "id".
	UpdateAlarm(ctx context.Context, patch *structpb.Struct) (*structpb.Struct, error)
	// DeleteAlarm removes an alarm and reports whether it existed.
	DeleteAlarm(ctx context.Context, id *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	// ToggleAlarm flips an alarm and returns its new active state.
	ToggleAlarm(ctx context.Context, id *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	// GetAlarm returns one alarm.
	GetAlarm(ctx context.Context, id *wrapperspb.StringValue) (*structpb.Struct, error)
	// ListAlarms returns every alarm.
	ListAlarms(ctx context.Context, in *emptypb.Empty) (*structpb.ListValue, error)
	// GetNextAlarm returns the alarm that rings first.
	GetNextAlarm(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	// GetSettings returns the settings record.
	GetSettings(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	// UpdateSettings applies a settings patch document.
	UpdateSettings(ctx context.Context, patch *structpb.Struct) (*structpb.Struct, error)
	// FireAlarm reports that an alarm rang.
	FireAlarm(ctx context.Context, id *wrapperspb.StringValue) (*emptypb.Empty, error)
	// RequestPermission asks for notification permission.
	RequestPermission(ctx context.Context, in *emptypb.Empty) (*wrapperspb.BoolValue, error)
	// Export renders alarms and settings in the requested format.
	Export(ctx context.Context, format *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	// GetStats returns the total and active alarm counts.
	GetStats(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes the alarm clock service for grpc.Server registration.
//
//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmClockServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateAlarm", AlarmClockServer.CreateAlarm),
		unary("UpdateAlarm", AlarmClockServer.UpdateAlarm),
		unary("DeleteAlarm", AlarmClockServer.DeleteAlarm),
		unary("ToggleAlarm", AlarmClockServer.ToggleAlarm),
		unary("GetAlarm", AlarmClockServer.GetAlarm),
		unary("ListAlarms", AlarmClockServer.ListAlarms),
		unary("GetNextAlarm", AlarmClockServer.GetNextAlarm),
		unary("GetSettings", AlarmClockServer.GetSettings),
		unary("UpdateSettings", AlarmClockServer.UpdateSettings),
		unary("FireAlarm", AlarmClockServer.FireAlarm),
		unary("RequestPermission", AlarmClockServer.RequestPermission),
		unary("Export", AlarmClockServer.Export),
		unary("GetStats", AlarmClockServer.GetStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmclock/v1/alarmclock.proto",
}

// RegisterAlarmClockServer registers srv on the gRPC server.
func RegisterAlarmClockServer(registrar grpc.ServiceRegistrar, srv AlarmClockServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

// fullMethod returns the "/service/method" path of a method.
func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds the descriptor of a unary method from its interface method expression.
func unary[Req, Resp any](
	method string,
	call func(AlarmClockServer, context.Context, *Req) (Resp, error),
) grpc.MethodDesc {
	path := fullMethod(method)

	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(
			srv any,
			ctx context.Context,
			dec func(any) error,
			interceptor grpc.UnaryServerInterceptor,
		) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}

			server, _ := srv.(AlarmClockServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: path,
			}

			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				typed, _ := req.(*Req)

				return call(server, ctx, typed)
			})
		},
	}
}
