package alarm

import (
	"bytes"
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/export"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/registry"
)

// Registry abstracts the alarm operations the transport layer depends on.
type Registry interface {
	CreateAlarm(ctx context.Context, draft domain.Draft) (*domain.Alarm, error)
	UpdateAlarm(ctx context.Context, id string, patch *domain.Patch) (*domain.Alarm, error)
	DeleteAlarm(ctx context.Context, id string) bool
	ToggleAlarm(ctx context.Context, id string) (bool, error)
	TriggerAlarm(ctx context.Context, id string) error
	GetAllAlarms() []*domain.Alarm
	GetAlarm(id string) (*domain.Alarm, bool)
	GetNextAlarm() (*domain.Alarm, bool)
	GetSettings() domain.Settings
	UpdateSettings(ctx context.Context, patch *domain.SettingsPatch) (domain.Settings, error)
	RequestNotificationPermission(ctx context.Context) bool
	Stats() registry.Stats
	Now() time.Time
}

// AlarmUpdate is the UpdateAlarm request document: the alarm id plus patch fields.
type AlarmUpdate struct {
	// ID selects the alarm.
	ID string `json:"id"`

	domain.Patch
}

// Server implements AlarmClockServer on top of a Registry.
type Server struct {
	// registry owns the alarms and settings.
	registry Registry
}

// NewServer wires the provided registry into a gRPC handler.
func NewServer(registry Registry) *Server {
	return &Server{
		registry: registry,
	}
}

// CreateAlarm stores a new alarm.
func (s *Server) CreateAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var draft domain.Draft
	if err := FromStruct(req, &draft); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid alarm: %v", err)
	}

	created, err := s.registry.CreateAlarm(ctx, draft)
	if err != nil {
		return nil, toStatus(err)
	}

	return encode(created)
}

// UpdateAlarm applies a partial update.
func (s *Server) UpdateAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var update AlarmUpdate
	if err := FromStruct(req, &update); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid alarm update: %v", err)
	}

	if update.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "alarm id is required")
	}

	updated, err := s.registry.UpdateAlarm(ctx, update.ID, &update.Patch)
	if err != nil {
		return nil, toStatus(err)
	}

	return encode(updated)
}

// DeleteAlarm removes an alarm.
func (s *Server) DeleteAlarm(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	return wrapperspb.Bool(s.registry.DeleteAlarm(ctx, id)), nil
}

// ToggleAlarm flips an alarm.
func (s *Server) ToggleAlarm(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	active, err := s.registry.ToggleAlarm(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.Bool(active), nil
}

// GetAlarm returns one alarm.
func (s *Server) GetAlarm(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	found, ok := s.registry.GetAlarm(id)
	if !ok {
		return nil, toStatus(registry.ErrNotFound)
	}

	return encode(found)
}

// ListAlarms returns every alarm.
func (s *Server) ListAlarms(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	list, err := ToList(s.registry.GetAllAlarms())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode alarms: %v", err)
	}

	return list, nil
}

// GetNextAlarm returns the alarm that rings first, or NotFound.
func (s *Server) GetNextAlarm(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	next, ok := s.registry.GetNextAlarm()
	if !ok {
		return nil, status.Error(codes.NotFound, "no alarm is scheduled")
	}

	return encode(next)
}

// GetSettings returns the settings record.
func (s *Server) GetSettings(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return encode(s.registry.GetSettings())
}

// UpdateSettings applies a settings patch.
func (s *Server) UpdateSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var patch domain.SettingsPatch
	if err := FromStruct(req, &patch); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid settings: %v", err)
	}

	settings, err := s.registry.UpdateSettings(ctx, &patch)
	if err != nil {
		return nil, toStatus(err)
	}

	return encode(settings)
}

// FireAlarm reports that an alarm rang.
func (s *Server) FireAlarm(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	if err = s.registry.TriggerAlarm(ctx, id); err != nil {
		return nil, toStatus(err)
	}

	return new(emptypb.Empty), nil
}

// RequestPermission asks for notification permission.
func (s *Server) RequestPermission(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.registry.RequestNotificationPermission(ctx)), nil
}

// Export renders alarms and settings as json (default) or ics.
func (s *Server) Export(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	format, err := export.ParseFormat(req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	var buf bytes.Buffer
	if err = export.Write(&buf, format, s.registry.GetAllAlarms(), s.registry.GetSettings(), s.registry.Now()); err != nil {
		logger.ErrorKV(ctx, "Failed to export alarms", "format", format, "error", err)

		return nil, status.Errorf(codes.Internal, "export alarms: %v", err)
	}

	return wrapperspb.Bytes(buf.Bytes()), nil
}

// GetStats returns the total and active alarm counts.
func (s *Server) GetStats(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return encode(s.registry.Stats())
}

// requireID extracts a non-empty alarm id.
func requireID(req *wrapperspb.StringValue) (string, error) {
	if req.GetValue() == "" {
		return "", status.Error(codes.InvalidArgument, "alarm id is required")
	}

	return req.GetValue(), nil
}

// encode converts a response object, mapping failures to Internal.
func encode(v any) (*structpb.Struct, error) {
	document, err := ToStruct(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}

	return document, nil
}

// toStatus maps registry and validation errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidRepeatType),
		errors.Is(err, domain.ErrInvalidRepeatDay),
		errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, export.ErrUnknownFormat):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
