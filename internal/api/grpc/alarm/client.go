package alarm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// AlarmClockClient calls the alarm clock service over a gRPC connection.
type AlarmClockClient struct {
	// conn is the connection the calls are made on.
	conn grpc.ClientConnInterface
}

// NewAlarmClockClient creates a client on conn.
func NewAlarmClockClient(conn grpc.ClientConnInterface) *AlarmClockClient {
	return &AlarmClockClient{
		conn: conn,
	}
}

// invoke performs a unary call of method and decodes the reply into a new Resp.
func invoke[Resp any](
	ctx context.Context,
	conn grpc.ClientConnInterface,
	method string,
	in any,
	opts ...grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)
	if err := conn.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// CreateAlarm calls AlarmClock.CreateAlarm.
func (c *AlarmClockClient) CreateAlarm(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.conn, "CreateAlarm", in, opts...)
}

// UpdateAlarm calls AlarmClock.UpdateAlarm.
func (c *AlarmClockClient) UpdateAlarm(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.conn, "UpdateAlarm", in, opts...)
}

// DeleteAlarm calls AlarmClock.DeleteAlarm.
func (c *AlarmClockClient) DeleteAlarm(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.conn, "DeleteAlarm", in, opts...)
}

// ToggleAlarm calls AlarmClock.ToggleAlarm.
func (c *AlarmClockClient) ToggleAlarm(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.conn, "ToggleAlarm", in, opts...)
}

// GetAlarm calls AlarmClock.GetAlarm.
func (c *AlarmClockClient) GetAlarm(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.conn, "GetAlarm", in, opts...)
}

// ListAlarms calls AlarmClock.ListAlarms.
func (c *AlarmClockClient) ListAlarms(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.conn, "ListAlarms", in, opts...)
}

// GetNextAlarm calls AlarmClock.GetNextAlarm.
func (c *AlarmClockClient) GetNextAlarm(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.conn, "GetNextAlarm", in, opts...)
}

// GetSettings calls AlarmClock.GetSettings.
func (c *AlarmClockClient) GetSettings(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.conn, "GetSettings", in, opts...)
}

// UpdateSettings calls AlarmClock.UpdateSettings.
func (c *AlarmClockClient) UpdateSettings(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.conn, "UpdateSettings", in, opts...)
}

// FireAlarm calls AlarmClock.FireAlarm.
func (c *AlarmClockClient) FireAlarm(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.conn, "FireAlarm", in, opts...)
}

// RequestPermission calls AlarmClock.RequestPermission.
func (c *AlarmClockClient) RequestPermission(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.conn, "RequestPermission", in, opts...)
}

// Export calls AlarmClock.Export.
func (c *AlarmClockClient) Export(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*wrapperspb.BytesValue, error) {
	return invoke[wrapperspb.BytesValue](ctx, c.conn, "Export", in, opts...)
}

// GetStats calls AlarmClock.GetStats.
func (c *AlarmClockClient) GetStats(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.conn, "GetStats", in, opts...)
}
