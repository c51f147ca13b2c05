package grpc_control

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"covid-dashboard/src/dashboard"
	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ControlService lets operators reload the dashboard and switch the timeline over gRPC.
type ControlService struct {
	Dashboard interfaces.IDashboard
	Logger    *logger.Logger
}

// NewControlService creates a new instance of ControlService
func NewControlService(d interfaces.IDashboard, log *logger.Logger) *ControlService {
	return &ControlService{
		Dashboard: d,
		Logger:    log,
	}
}

// NewServer builds a grpc.Server with the control service registered and calls logged.
func NewServer(svc *ControlService, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.UnaryInterceptor(svc.logCalls))
	srv := grpc.NewServer(opts...)
	RegisterDashboardControlServer(srv, svc)
	return srv
}

// -----------------------------------------------------------------------------

func (s *ControlService) Reload(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	if err := s.Dashboard.Init(ctx); err != nil {
		return nil, toStatus(err)
	}
	state := s.Dashboard.State()
	return toStruct(map[string]interface{}{
		"load_id":            state.LoadID,
		"status":             state.Status,
		"snapshot_source":    state.SnapshotSource,
		"processing_metrics": state.ProcessingMetrics,
	})
}

// -----------------------------------------------------------------------------

// SelectCountry expects {"country": "BRA"} and returns the resulting timeline view.
func (s *ControlService) SelectCountry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	code := req.GetFields()["country"].GetStringValue()
	if code == "" {
		return nil, status.Error(codes.InvalidArgument, "country is required")
	}

	view, err := s.Dashboard.SelectCountry(ctx, code)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view)
}

// -----------------------------------------------------------------------------

func (s *ControlService) Status(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	state := s.Dashboard.State()

	selected := ""
	if state.Timeline != nil {
		selected = state.Timeline.CountryCode
	}
	return toStruct(map[string]interface{}{
		"load_id":            state.LoadID,
		"status":             state.Status,
		"snapshot_source":    state.SnapshotSource,
		"global_stats":       state.GlobalStats,
		"panel_errors":       state.PanelErrors,
		"selected_country":   selected,
		"processing_metrics": state.ProcessingMetrics,
	})
}

// -----------------------------------------------------------------------------

func (s *ControlService) logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		s.Logger.Warning("%s failed after %s: %v", info.FullMethod, time.Since(start), err)
	} else {
		s.Logger.Debug("%s ok in %s", info.FullMethod, time.Since(start))
	}
	return resp, err
}

// -----------------------------------------------------------------------------

// toStatus maps the dashboard error family onto gRPC codes.
func toStatus(err error) error {
	var validation *helpers.ValidationError
	var catalog *helpers.CatalogError
	var render *helpers.RenderError

	switch {
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, dashboard.ErrStaleSelection):
		return status.Error(codes.Aborted, err.Error())
	case errors.As(err, &catalog):
		return status.Error(codes.Unavailable, err.Error())
	case errors.As(err, &render):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// toStruct goes through JSON so the json tags of the models name the fields.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
