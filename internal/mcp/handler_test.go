package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/activity"
	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/domain/session"
	"github.com/stretchr/testify/require"
)

type sessionStub struct {
	loadFn      func(context.Context, string, string) (*session.LoadResult, error)
	remediateFn func(context.Context, string, dataset.Remedy) (*session.RemediateResult, error)
	featuresFn  func(context.Context, string, []string) (*session.SelectionResult, error)
	fitFn       func(context.Context, string) (*session.FitResult, error)
	predictFn   func(context.Context, string, map[string]string) (*session.PredictResult, error)
	getFn       func(context.Context, string) (*session.Snapshot, error)
	closeFn     func(context.Context, string) error
}

func (s sessionStub) LoadTable(ctx context.Context, sessionID, path string) (*session.LoadResult, error) {
	if s.loadFn == nil {
		return &session.LoadResult{SessionID: sessionID, Path: path}, nil
	}
	return s.loadFn(ctx, sessionID, path)
}
func (s sessionStub) Census(_ context.Context, _ string) (dataset.NullCensus, error) {
	return dataset.NullCensus{}, nil
}
func (s sessionStub) Remediate(ctx context.Context, sessionID string, remedy dataset.Remedy) (*session.RemediateResult, error) {
	if s.remediateFn == nil {
		return &session.RemediateResult{SessionID: sessionID}, nil
	}
	return s.remediateFn(ctx, sessionID, remedy)
}
func (s sessionStub) SelectFeatures(ctx context.Context, sessionID string, names []string) (*session.SelectionResult, error) {
	if s.featuresFn == nil {
		return &session.SelectionResult{SessionID: sessionID, Features: names}, nil
	}
	return s.featuresFn(ctx, sessionID, names)
}
func (s sessionStub) SelectTarget(_ context.Context, sessionID, name string) (*session.SelectionResult, error) {
	return &session.SelectionResult{SessionID: sessionID, Target: name}, nil
}
func (s sessionStub) SetDescription(_ context.Context, _ string, _ string) error { return nil }
func (s sessionStub) Fit(ctx context.Context, sessionID string) (*session.FitResult, error) {
	if s.fitFn == nil {
		return &session.FitResult{SessionID: sessionID}, nil
	}
	return s.fitFn(ctx, sessionID)
}
func (s sessionStub) Plot(_ context.Context, sessionID, path string) (*session.PlotResult, error) {
	return &session.PlotResult{SessionID: sessionID, Path: path}, nil
}
func (s sessionStub) SaveArtifact(_ context.Context, _ string, _ string) (*artifact.Artifact, error) {
	return &artifact.Artifact{ID: "a1"}, nil
}
func (s sessionStub) LoadArtifact(_ context.Context, _ string, _ string) (*artifact.Artifact, error) {
	return &artifact.Artifact{ID: "a1"}, nil
}
func (s sessionStub) Predict(ctx context.Context, sessionID string, inputs map[string]string) (*session.PredictResult, error) {
	if s.predictFn == nil {
		return &session.PredictResult{SessionID: sessionID, Inputs: inputs}, nil
	}
	return s.predictFn(ctx, sessionID, inputs)
}
func (s sessionStub) NewModel(_ context.Context, sessionID string) (*session.Snapshot, error) {
	return &session.Snapshot{ID: sessionID, Mode: session.ModePipeline}, nil
}
func (s sessionStub) Get(ctx context.Context, sessionID string) (*session.Snapshot, error) {
	if s.getFn == nil {
		return &session.Snapshot{ID: sessionID}, nil
	}
	return s.getFn(ctx, sessionID)
}
func (s sessionStub) List(_ context.Context) []string { return []string{"default", "s1"} }
func (s sessionStub) Close(ctx context.Context, sessionID string) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx, sessionID)
}

type activityStub struct {
	listFn func(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

func (a activityStub) GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return a.listFn(ctx, opts)
}

func TestHandler_DispatchesEveryCatalogTool(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(sessionStub{}, activityStub{listFn: func(_ context.Context, _ activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
		return nil, nil
	}})

	args := map[string]any{
		"load_dataset":    LoadDatasetParams{Path: "data.csv"},
		"remediate_nulls": RemediateNullsParams{Policy: "drop_rows"},
		"select_features": SelectFeaturesParams{Columns: []string{"x"}},
		"select_target":   SelectTargetParams{Column: "y"},
		"set_description": SetDescriptionParams{Description: "d"},
		"save_model":      SaveModelParams{Path: "m.gob"},
		"load_model":      LoadModelParams{Path: "m.gob"},
		"predict":         PredictParams{Inputs: map[string]any{"x": 1}},
	}
	for _, tool := range buildToolCatalog() {
		var params json.RawMessage
		if a, ok := args[tool.Name]; ok {
			params = mustJSON(t, a)
		}
		_, err := handler.Handle(ctx, "s1", tool.Name, params)
		require.NoError(t, err, tool.Name)
	}
}

func TestHandler_SessionResolution(t *testing.T) {
	ctx := context.Background()
	var seen []string
	handler := NewHandler(sessionStub{
		fitFn: func(_ context.Context, sessionID string) (*session.FitResult, error) {
			seen = append(seen, sessionID)
			return &session.FitResult{SessionID: sessionID}, nil
		},
	}, nil)

	_, err := handler.Handle(ctx, "", "fit_model", nil)
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "transport", "fit_model", nil)
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "transport", "fit_model", json.RawMessage(`{"session_id":"explicit"}`))
	require.NoError(t, err)

	require.Equal(t, []string{session.DefaultID, "transport", "explicit"}, seen)
}

func TestHandler_ArgumentConversion(t *testing.T) {
	ctx := context.Background()
	var remedy dataset.Remedy
	var inputs map[string]string
	handler := NewHandler(sessionStub{
		remediateFn: func(_ context.Context, _ string, r dataset.Remedy) (*session.RemediateResult, error) {
			remedy = r
			return &session.RemediateResult{}, nil
		},
		predictFn: func(_ context.Context, _ string, in map[string]string) (*session.PredictResult, error) {
			inputs = in
			return &session.PredictResult{}, nil
		},
	}, nil)

	_, err := handler.Handle(ctx, "", "remediate_nulls", json.RawMessage(`{"policy":"constant","constant":1.5}`))
	require.NoError(t, err)
	require.Equal(t, dataset.PolicyFillConstant, remedy.Policy)
	require.Equal(t, "1.5", remedy.Constant)

	_, err = handler.Handle(ctx, "", "predict", json.RawMessage(`{"inputs":{"x":2,"w":"3.25","z":""}}`))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"x": "2", "w": "3.25", "z": ""}, inputs)
}

func TestHandler_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(sessionStub{}, nil)

	for _, tc := range []struct {
		method string
		params string
	}{
		{"remediate_nulls", `{"policy":"shrug"}`},
		{"load_dataset", `{}`},
		{"save_model", `{"path":"  "}`},
		{"load_model", `{}`},
		{"select_features", `{"columns":"x"}`},
	} {
		_, err := handler.Handle(ctx, "", tc.method, json.RawMessage(tc.params))
		require.Error(t, err, tc.method)
		apiErr, ok := err.(*APIError)
		require.True(t, ok, tc.method)
		require.Equal(t, "INVALID_ARGUMENT", apiErr.Code, tc.method)
	}

	_, err := handler.Handle(ctx, "", "transmogrify", nil)
	require.ErrorContains(t, err, "unknown method")
}

func TestHandler_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(sessionStub{
		featuresFn: func(_ context.Context, _ string, _ []string) (*session.SelectionResult, error) {
			return nil, domain.ColumnError("select features", domain.KindUnknownColumn, "nope")
		},
		loadFn: func(_ context.Context, _ string, _ string) (*session.LoadResult, error) {
			return nil, session.ErrPipelineLocked
		},
		predictFn: func(_ context.Context, _ string, _ map[string]string) (*session.PredictResult, error) {
			return nil, domain.FieldError("predict", domain.KindMissingOrInvalidInput, "w", "x")
		},
		closeFn: func(_ context.Context, _ string) error {
			return session.ErrSessionNotFound
		},
	}, nil)

	_, err := handler.Handle(ctx, "", "select_features", mustJSON(t, SelectFeaturesParams{Columns: []string{"nope"}}))
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	require.Equal(t, "UNKNOWN_COLUMN", apiErr.Code)
	require.Equal(t, ErrorDetails{Columns: []string{"nope"}}, apiErr.Details)
	require.NotEmpty(t, apiErr.RecoveryHint)

	_, err = handler.Handle(ctx, "", "load_dataset", mustJSON(t, LoadDatasetParams{Path: "a.csv"}))
	apiErr, ok = err.(*APIError)
	require.True(t, ok)
	require.Equal(t, "PIPELINE_LOCKED", apiErr.Code)

	_, err = handler.Handle(ctx, "", "predict", mustJSON(t, PredictParams{}))
	apiErr, ok = err.(*APIError)
	require.True(t, ok)
	require.Equal(t, "MISSING_OR_INVALID_INPUT", apiErr.Code)
	require.Equal(t, ErrorDetails{Fields: []string{"w", "x"}}, apiErr.Details)

	_, err = handler.Handle(ctx, "", "close_session", nil)
	apiErr, ok = err.(*APIError)
	require.True(t, ok)
	require.Equal(t, "SESSION_NOT_FOUND", apiErr.Code)
}

func TestHandler_RecentActivityScopesToSession(t *testing.T) {
	ctx := context.Background()
	var got []activity.ListActivityOptions
	path := "/tmp/data.csv"
	handler := NewHandler(sessionStub{}, activityStub{listFn: func(_ context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
		got = append(got, opts)
		return []activity.ActivityEntry{{
			SessionID:    "s1",
			ActivityType: activity.TypeDatasetLoaded,
			Summary:      "loaded",
			Path:         &path,
			CreatedAt:    time.Now(),
		}}, nil
	}})

	result, err := handler.Handle(ctx, "s1", "get_recent_activity", mustJSON(t, GetRecentActivityParams{Limit: 5}))
	require.NoError(t, err)
	entries := result.([]ActivityEntryResponse)
	require.Len(t, entries, 1)
	require.Equal(t, path, entries[0].Path)

	_, err = handler.Handle(ctx, "s1", "get_recent_activity", mustJSON(t, GetRecentActivityParams{AllSessions: true}))
	require.NoError(t, err)

	require.Len(t, got, 2)
	require.NotNil(t, got[0].SessionID)
	require.Equal(t, "s1", *got[0].SessionID)
	require.Equal(t, 5, got[0].Limit)
	require.Nil(t, got[1].SessionID)
}

func TestHandler_RecentActivityWithoutJournal(t *testing.T) {
	handler := NewHandler(sessionStub{}, nil)
	result, err := handler.Handle(context.Background(), "", "get_recent_activity", nil)
	require.NoError(t, err)
	require.Empty(t, result)
}

func TestMapError_PassesThroughUnknownErrors(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(context.Canceled))
	require.Equal(t, "FIT_FAILED", MapError(domain.Failure("fit", domain.KindFitFailed, "singular")).Code)
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
