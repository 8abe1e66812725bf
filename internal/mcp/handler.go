package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/trendify/internal/domain/activity"
	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/domain/session"
)

// SessionService defines pipeline operations needed by MCP.
type SessionService interface {
	LoadTable(ctx context.Context, sessionID, path string) (*session.LoadResult, error)
	Census(ctx context.Context, sessionID string) (dataset.NullCensus, error)
	Remediate(ctx context.Context, sessionID string, remedy dataset.Remedy) (*session.RemediateResult, error)
	SelectFeatures(ctx context.Context, sessionID string, names []string) (*session.SelectionResult, error)
	SelectTarget(ctx context.Context, sessionID, name string) (*session.SelectionResult, error)
	SetDescription(ctx context.Context, sessionID, description string) error
	Fit(ctx context.Context, sessionID string) (*session.FitResult, error)
	Plot(ctx context.Context, sessionID, path string) (*session.PlotResult, error)
	SaveArtifact(ctx context.Context, sessionID, path string) (*artifact.Artifact, error)
	LoadArtifact(ctx context.Context, sessionID, path string) (*artifact.Artifact, error)
	Predict(ctx context.Context, sessionID string, inputs map[string]string) (*session.PredictResult, error)
	NewModel(ctx context.Context, sessionID string) (*session.Snapshot, error)
	Get(ctx context.Context, sessionID string) (*session.Snapshot, error)
	List(ctx context.Context) []string
	Close(ctx context.Context, sessionID string) error
}

// ActivityService defines journal operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP commands.
type Handler struct {
	sessions SessionService
	activity ActivityService
}

// NewHandler creates a new MCP handler. activitySvc may be nil when no
// journal is configured.
func NewHandler(sessions SessionService, activitySvc ActivityService) *Handler {
	return &Handler{
		sessions: sessions,
		activity: activitySvc,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	var scope sessionScope
	if err := decodeParams(params, &scope); err != nil {
		return nil, err
	}
	if scope.SessionID != "" {
		sessionID = scope.SessionID
	}
	if sessionID == "" {
		sessionID = session.DefaultID
	}

	switch method {
	case "load_dataset":
		var req LoadDatasetParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.Path) == "" {
			return nil, missingArgument("path")
		}
		return wrap(h.sessions.LoadTable(ctx, sessionID, req.Path))
	case "null_census":
		census, err := h.sessions.Census(ctx, sessionID)
		if err != nil {
			return nil, mapError(err)
		}
		return census, nil
	case "remediate_nulls":
		var req RemediateNullsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		policy, err := dataset.ParsePolicy(req.Policy)
		if err != nil {
			return nil, &APIError{
				Code:         "INVALID_ARGUMENT",
				Message:      err.Error(),
				RecoveryHint: "Use drop_rows, fill_mean, fill_median or fill_constant",
			}
		}
		remedy := dataset.Remedy{Policy: policy, Columns: req.Columns}
		if req.Constant != nil {
			remedy.Constant = inputText(req.Constant)
		}
		return wrap(h.sessions.Remediate(ctx, sessionID, remedy))
	case "select_features":
		var req SelectFeaturesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return wrap(h.sessions.SelectFeatures(ctx, sessionID, req.Columns))
	case "select_target":
		var req SelectTargetParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return wrap(h.sessions.SelectTarget(ctx, sessionID, req.Column))
	case "set_description":
		var req SetDescriptionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.SetDescription(ctx, sessionID, req.Description); err != nil {
			return nil, mapError(err)
		}
		return DescriptionResponse{SessionID: sessionID, Description: strings.TrimSpace(req.Description)}, nil
	case "fit_model":
		return wrap(h.sessions.Fit(ctx, sessionID))
	case "plot_model":
		var req PlotModelParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return wrap(h.sessions.Plot(ctx, sessionID, req.Path))
	case "save_model":
		var req SaveModelParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.Path) == "" {
			return nil, missingArgument("path")
		}
		return wrap(h.sessions.SaveArtifact(ctx, sessionID, req.Path))
	case "load_model":
		var req LoadModelParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.Path) == "" {
			return nil, missingArgument("path")
		}
		return wrap(h.sessions.LoadArtifact(ctx, sessionID, req.Path))
	case "predict":
		var req PredictParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		inputs := make(map[string]string, len(req.Inputs))
		for name, v := range req.Inputs {
			inputs[name] = inputText(v)
		}
		return wrap(h.sessions.Predict(ctx, sessionID, inputs))
	case "new_model":
		return wrap(h.sessions.NewModel(ctx, sessionID))
	case "get_session":
		return wrap(h.sessions.Get(ctx, sessionID))
	case "list_sessions":
		return SessionListResponse{Sessions: h.sessions.List(ctx), Current: sessionID}, nil
	case "close_session":
		if err := h.sessions.Close(ctx, sessionID); err != nil {
			return nil, mapError(err)
		}
		return CloseSessionResponse{SessionID: sessionID, Closed: true}, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if h.activity == nil {
			return []ActivityEntryResponse{}, nil
		}
		opts := activity.ListActivityOptions{
			ActivityType: req.ActivityType,
			Limit:        req.Limit,
			Offset:       req.Offset,
		}
		if !req.AllSessions {
			opts.SessionID = &sessionID
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				SessionID: entry.SessionID,
				Summary:   entry.Summary,
				Path:      stringValue(entry.Path),
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_ARGUMENT", Message: err.Error(), RecoveryHint: "Check argument names and types"}
	}
	return nil
}

// wrap maps the error of a service call that returns a result.
func wrap[T any](result T, err error) (any, error) {
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func missingArgument(name string) *APIError {
	return &APIError{
		Code:         "INVALID_ARGUMENT",
		Message:      fmt.Sprintf("%s is required", name),
		RecoveryHint: fmt.Sprintf("Pass %s", name),
	}
}

// inputText renders a JSON argument as the text a user would have typed,
// so numbers and strings go through the same parsing.
func inputText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
