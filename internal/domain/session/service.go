package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/activity"
	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/domain/prediction"
	"github.com/rpggio/trendify/internal/domain/regression"
	"github.com/rpggio/trendify/internal/domain/selection"
)

// NoDescriptionNotice is attached to fits made without a description.
const NoDescriptionNotice = "no description saved"

// Dependencies are the capabilities a Service drives.
type Dependencies struct {
	Reader  TableReader
	Fitter  *regression.Fitter
	Plotter regression.Plotter
	Store   ArtifactStore
	// Journal is optional.
	Journal Journal
	// PlotDir receives plots rendered without an explicit path.
	PlotDir string
}

// Service handles pipeline operations for any number of sessions.
type Service struct {
	deps   Dependencies
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	sess *Session
	// committed is set once a step succeeds; dropped once the entry leaves
	// the session map.
	committed bool
	dropped   bool
}

// NewService creates a new session service.
func NewService(deps Dependencies, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.PlotDir == "" {
		deps.PlotDir = os.TempDir()
	}
	return &Service{
		deps:     deps,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// LoadTable reads path and replaces the session table. The selection and
// any fit are cleared. A failed read leaves the session untouched.
func (s *Service) LoadTable(ctx context.Context, sessionID, path string) (*LoadResult, error) {
	var result *LoadResult
	err := s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		if sess.Mode == ModeArtifact {
			return nil, ErrPipelineLocked
		}
		table, err := s.deps.Reader.Read(ctx, path)
		if err != nil {
			return nil, err
		}

		sess.Table = table
		sess.SourcePath = path
		sess.Selection = selection.Selection{}
		sess.Model = nil
		sess.fitTable = nil

		result = &LoadResult{
			SessionID: sess.ID,
			Path:      path,
			Rows:      table.NumRows(),
			Columns:   describeColumns(table),
			Census:    dataset.Census(table),
		}
		s.logger.Info("dataset loaded", "session_id", sess.ID, "path", path, "rows", table.NumRows(), "columns", table.NumColumns())
		return &activity.ActivityEntry{
			ActivityType: activity.TypeDatasetLoaded,
			Summary:      fmt.Sprintf("loaded %d rows x %d columns", table.NumRows(), table.NumColumns()),
			Path:         &path,
			Details:      activity.Details(map[string]any{"columns": table.Names()}),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Census counts missing cells in the session table.
func (s *Service) Census(ctx context.Context, sessionID string) (dataset.NullCensus, error) {
	var census dataset.NullCensus
	err := s.view(sessionID, func(sess *Session) error {
		if sess.Table == nil {
			return ErrNoTable
		}
		census = dataset.Census(sess.Table)
		return nil
	})
	return census, err
}

// Remediate applies a null policy to the session table.
func (s *Service) Remediate(ctx context.Context, sessionID string, remedy dataset.Remedy) (*RemediateResult, error) {
	var result *RemediateResult
	err := s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		if sess.Mode == ModeArtifact {
			return nil, ErrPipelineLocked
		}
		if sess.Table == nil {
			return nil, ErrNoTable
		}
		table, report, err := dataset.Apply(sess.Table, remedy)
		if err != nil {
			return nil, err
		}
		sess.Table = table

		result = &RemediateResult{SessionID: sess.ID, Report: report, Census: dataset.Census(table)}
		if report.NothingToDo {
			return nil, nil
		}
		s.logger.Info("nulls remediated", "session_id", sess.ID, "policy", remedy.Policy, "rows", report.RowsAfter)
		return &activity.ActivityEntry{
			ActivityType: activity.TypeNullsRemediated,
			Summary:      fmt.Sprintf("%s: %d rows -> %d rows", remedy.Policy, report.RowsBefore, report.RowsAfter),
			Details:      activity.Details(report),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SelectFeatures replaces the feature columns. Features that still hold
// missing values are reported as warnings.
func (s *Service) SelectFeatures(ctx context.Context, sessionID string, names []string) (*SelectionResult, error) {
	return s.selectColumns(ctx, sessionID, func(t *dataset.Table, sel selection.Selection) (selection.Selection, error) {
		return sel.WithFeatures(t, names)
	})
}

// SelectTarget replaces the target column.
func (s *Service) SelectTarget(ctx context.Context, sessionID, name string) (*SelectionResult, error) {
	return s.selectColumns(ctx, sessionID, func(t *dataset.Table, sel selection.Selection) (selection.Selection, error) {
		return sel.WithTarget(t, name)
	})
}

func (s *Service) selectColumns(
	ctx context.Context,
	sessionID string,
	change func(*dataset.Table, selection.Selection) (selection.Selection, error),
) (*SelectionResult, error) {
	var result *SelectionResult
	err := s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		if sess.Mode == ModeArtifact {
			return nil, ErrPipelineLocked
		}
		if sess.Table == nil {
			return nil, ErrNoTable
		}
		sel, err := change(sess.Table, sess.Selection)
		if err != nil {
			return nil, err
		}
		sess.Selection = sel

		result = &SelectionResult{
			SessionID:       sess.ID,
			Features:        append([]string(nil), sel.Features...),
			Target:          sel.Target,
			Ready:           sel.Ready(),
			MissingWarnings: sel.MissingInFeatures(sess.Table).Columns,
			Overlap:         sel.Overlap(),
		}
		if len(result.MissingWarnings) == 0 {
			result.MissingWarnings = nil
		}
		return &activity.ActivityEntry{
			ActivityType: activity.TypeColumnsSelected,
			Summary:      fmt.Sprintf("features [%s], target %q", strings.Join(sel.Features, ", "), sel.Target),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetDescription stores the free-text description saved with artifacts.
func (s *Service) SetDescription(ctx context.Context, sessionID, description string) error {
	return s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		sess.Description = strings.TrimSpace(description)
		return &activity.ActivityEntry{
			ActivityType: activity.TypeDescriptionSet,
			Summary:      fmt.Sprintf("description set (%d chars)", len(sess.Description)),
		}, nil
	})
}

// Fit fits the current selection. A failed fit keeps the previous model.
func (s *Service) Fit(ctx context.Context, sessionID string) (*FitResult, error) {
	var result *FitResult
	err := s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		if sess.Mode == ModeArtifact {
			return nil, ErrPipelineLocked
		}
		if sess.Table == nil {
			return nil, ErrNoTable
		}
		model, err := s.deps.Fitter.Fit(sess.Table, sess.Selection.Features, sess.Selection.Target)
		if err != nil {
			return nil, err
		}
		sess.Model = model
		sess.fitTable = sess.Table

		result = &FitResult{
			SessionID:     sess.ID,
			Model:         model.Summary(),
			Visualization: model.Visualization(),
		}
		if sess.Description == "" {
			result.Notices = append(result.Notices, NoDescriptionNotice)
		}
		if overlap := sess.Selection.Overlap(); len(overlap) > 0 {
			result.Notices = append(result.Notices, fmt.Sprintf("target also selected as feature: %s", strings.Join(overlap, ", ")))
		}
		if model.Visualization() == regression.VisualizationUnavailable {
			result.Notices = append(result.Notices, "fit succeeded, visualization unavailable for more than two features")
		}

		s.logger.Info("model fitted", "session_id", sess.ID, "features", model.Features(), "target", model.Target(), "r2", model.R2(), "mse", model.MSE())
		return &activity.ActivityEntry{
			ActivityType: activity.TypeModelFitted,
			Summary:      model.Formula(),
			Details:      activity.Details(map[string]float64{"r2": model.R2(), "mse": model.MSE()}),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Plot renders the fitted model to path, or to a generated file under the
// plot directory when path is empty.
func (s *Service) Plot(ctx context.Context, sessionID, path string) (*PlotResult, error) {
	var result *PlotResult
	err := s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		if sess.Model == nil || sess.fitTable == nil {
			return nil, ErrNoModel
		}
		if path == "" {
			path = filepath.Join(s.deps.PlotDir, fmt.Sprintf("trendify-%s-%d.png", sess.ID, s.now().UnixNano()))
		}
		vis, err := regression.Plot(s.deps.Plotter, sess.fitTable, sess.Model, path)
		if err != nil {
			return nil, fmt.Errorf("rendering plot: %w", err)
		}

		result = &PlotResult{SessionID: sess.ID, Visualization: vis}
		if vis == regression.VisualizationUnavailable {
			result.Message = "visualization unavailable for more than two features"
			return nil, nil
		}
		result.Path = path
		return &activity.ActivityEntry{
			ActivityType: activity.TypeModelPlotted,
			Summary:      fmt.Sprintf("%s plot rendered", vis),
			Path:         &path,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SaveArtifact writes the fitted model, or the loaded artifact with the
// current description, to path.
func (s *Service) SaveArtifact(ctx context.Context, sessionID, path string) (*artifact.Artifact, error) {
	var saved *artifact.Artifact
	err := s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		var a *artifact.Artifact
		switch {
		case sess.Mode == ModeArtifact && sess.Artifact != nil:
			copied := *sess.Artifact
			copied.Description = sess.Description
			a = &copied
		case sess.Model != nil:
			a = artifact.FromModel(sess.Model, sess.Description)
		default:
			return nil, ErrNoModel
		}
		if err := s.deps.Store.Save(ctx, a, path); err != nil {
			return nil, err
		}
		saved = a

		s.logger.Info("artifact saved", "session_id", sess.ID, "path", path, "artifact_id", a.ID)
		return &activity.ActivityEntry{
			ActivityType: activity.TypeArtifactSaved,
			Summary:      a.Formula,
			Path:         &path,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// LoadArtifact replaces the session state with the artifact at path and
// locks the pipeline until NewModel. A failed load leaves the session
// untouched.
func (s *Service) LoadArtifact(ctx context.Context, sessionID, path string) (*artifact.Artifact, error) {
	var loaded *artifact.Artifact
	err := s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		a, err := s.deps.Store.Load(ctx, path)
		if err != nil {
			return nil, err
		}

		sess.Mode = ModeArtifact
		sess.Artifact = a
		sess.ArtifactPath = path
		sess.Description = a.Description
		sess.Table = nil
		sess.SourcePath = ""
		sess.Selection = selection.Selection{}
		sess.Model = nil
		sess.fitTable = nil

		copied := *a
		loaded = &copied
		s.logger.Info("artifact loaded", "session_id", sess.ID, "path", path, "artifact_id", a.ID)
		return &activity.ActivityEntry{
			ActivityType: activity.TypeArtifactLoaded,
			Summary:      a.Formula,
			Path:         &path,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

// Predict evaluates the fitted model, or the loaded artifact, at inputs.
func (s *Service) Predict(ctx context.Context, sessionID string, inputs map[string]string) (*PredictResult, error) {
	var result *PredictResult
	err := s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		var eq regression.Equation
		switch {
		case sess.Mode == ModeArtifact && sess.Artifact != nil:
			var ok bool
			eq, ok = sess.Artifact.Equation()
			if !ok {
				return nil, domain.Failure("predict", domain.KindCorruptArtifact, "artifact has no fitted parameters")
			}
		case sess.Model != nil:
			eq = sess.Model.Equation()
		default:
			return nil, ErrNoModel
		}

		value, err := prediction.Predict(eq, inputs)
		if err != nil {
			return nil, err
		}

		used := make(map[string]string, len(eq.Features))
		for _, name := range eq.Features {
			used[name] = strings.TrimSpace(inputs[name])
		}
		result = &PredictResult{SessionID: sess.ID, Target: eq.Target, Value: value, Inputs: used, Source: sess.Mode}
		return &activity.ActivityEntry{
			ActivityType: activity.TypePrediction,
			Summary:      fmt.Sprintf("%s = %s", eq.Target, regression.FormatNumber(value, s.deps.Fitter.Precision())),
			Details:      activity.Details(used),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// NewModel discards all session state and unlocks the pipeline.
func (s *Service) NewModel(ctx context.Context, sessionID string) (*Snapshot, error) {
	var snap *Snapshot
	err := s.update(ctx, sessionID, func(sess *Session) (*activity.ActivityEntry, error) {
		*sess = *newSession(sess.ID, sess.CreatedAt)
		snap = sess.snapshot()
		return &activity.ActivityEntry{
			ActivityType: activity.TypeSessionReset,
			Summary:      "new model started",
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Get returns a snapshot of an existing session.
func (s *Service) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	e, ok := s.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.snapshot(), nil
}

// List returns the ids of all open sessions.
func (s *Service) List(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close drops a session and its state.
func (s *Service) Close(ctx context.Context, sessionID string) error {
	sessionID = normalizeID(sessionID)
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	e.dropped = true
	e.mu.Unlock()
	s.logger.Info("session closed", "session_id", sessionID)
	return nil
}

func normalizeID(sessionID string) string {
	if sessionID = strings.TrimSpace(sessionID); sessionID == "" {
		return DefaultID
	}
	return sessionID
}

func (s *Service) lookup(sessionID string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[normalizeID(sessionID)]
	return e, ok
}

func (s *Service) acquire(sessionID string) *entry {
	sessionID = normalizeID(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{sess: newSession(sessionID, s.now())}
		s.sessions[sessionID] = e
	}
	return e
}

// view runs fn against the session without creating it. An unknown id is
// seen as an empty session that is never stored.
func (s *Service) view(sessionID string, fn func(*Session) error) error {
	e, ok := s.lookup(sessionID)
	if !ok {
		return fn(newSession(normalizeID(sessionID), s.now()))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// update runs fn against a scratch copy of the session and commits it only
// on success, so a failed step never leaves partial state behind. A session
// created for a step that fails is removed again.
func (s *Service) update(ctx context.Context, sessionID string, fn func(*Session) (*activity.ActivityEntry, error)) error {
	e := s.acquire(sessionID)
	e.mu.Lock()
	for e.dropped {
		e.mu.Unlock()
		e = s.acquire(sessionID)
		e.mu.Lock()
	}
	defer e.mu.Unlock()

	scratch := *e.sess
	journal, err := fn(&scratch)
	if err != nil {
		s.logger.Debug("session step failed", "session_id", e.sess.ID, "error", err)
		if !e.committed {
			s.discard(e)
		}
		return err
	}
	scratch.UpdatedAt = s.now()
	*e.sess = scratch
	e.committed = true

	if journal != nil {
		s.record(ctx, scratch.ID, journal)
	}
	return nil
}

// discard removes an entry that never committed a step. The caller holds e.mu.
func (s *Service) discard(e *entry) {
	s.mu.Lock()
	if s.sessions[e.sess.ID] == e {
		delete(s.sessions, e.sess.ID)
	}
	s.mu.Unlock()
	e.dropped = true
}

func (s *Service) record(ctx context.Context, sessionID string, entry *activity.ActivityEntry) {
	if s.deps.Journal == nil {
		return
	}
	entry.SessionID = sessionID
	if err := s.deps.Journal.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("journal write failed", "session_id", sessionID, "type", entry.ActivityType, "error", err)
	}
}
