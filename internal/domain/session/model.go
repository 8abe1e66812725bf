package session

import (
	"time"

	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/domain/regression"
	"github.com/rpggio/trendify/internal/domain/selection"
)

// DefaultID is used when a caller does not name a session.
const DefaultID = "default"

// Mode is the pipeline state of a session.
type Mode string

const (
	// ModePipeline accepts load, remediate, select and fit.
	ModePipeline Mode = "pipeline"
	// ModeArtifact holds a loaded artifact; the pipeline is locked until
	// NewModel.
	ModeArtifact Mode = "artifact"
)

// Session owns the table, selection and model of one user.
type Session struct {
	ID           string
	Mode         Mode
	SourcePath   string
	Table        *dataset.Table
	Selection    selection.Selection
	Description  string
	Model        *regression.Model
	Artifact     *artifact.Artifact
	ArtifactPath string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// fitTable is the table Model was fit on, kept for plotting after
	// later remediation.
	fitTable *dataset.Table
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, Mode: ModePipeline, CreatedAt: now, UpdatedAt: now}
}

// ColumnInfo describes one column of the loaded table.
type ColumnInfo struct {
	Name    string           `json:"name"`
	Type    dataset.CellType `json:"type"`
	Missing int              `json:"missing"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID           string              `json:"session_id"`
	Mode         Mode                `json:"mode"`
	SourcePath   string              `json:"source_path,omitempty"`
	Rows         int                 `json:"rows"`
	Columns      []ColumnInfo        `json:"columns,omitempty"`
	Features     []string            `json:"features,omitempty"`
	Target       string              `json:"target,omitempty"`
	Description  string              `json:"description,omitempty"`
	Model        *regression.Summary `json:"model,omitempty"`
	Artifact     *artifact.Artifact  `json:"artifact,omitempty"`
	ArtifactPath string              `json:"artifact_path,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (s *Session) snapshot() *Snapshot {
	snap := &Snapshot{
		ID:           s.ID,
		Mode:         s.Mode,
		SourcePath:   s.SourcePath,
		Features:     append([]string(nil), s.Selection.Features...),
		Target:       s.Selection.Target,
		Description:  s.Description,
		ArtifactPath: s.ArtifactPath,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.Table != nil {
		snap.Rows = s.Table.NumRows()
		snap.Columns = describeColumns(s.Table)
	}
	if s.Model != nil {
		summary := s.Model.Summary()
		snap.Model = &summary
	}
	if s.Artifact != nil {
		a := *s.Artifact
		snap.Artifact = &a
	}
	return snap
}

func describeColumns(t *dataset.Table) []ColumnInfo {
	census := dataset.Census(t)
	cols := make([]ColumnInfo, 0, t.NumColumns())
	for _, c := range t.Schema() {
		cols = append(cols, ColumnInfo{Name: c.Name, Type: c.Type, Missing: census.Missing(c.Name)})
	}
	return cols
}

// LoadResult describes a freshly loaded table.
type LoadResult struct {
	SessionID string             `json:"session_id"`
	Path      string             `json:"path"`
	Rows      int                `json:"rows"`
	Columns   []ColumnInfo       `json:"columns"`
	Census    dataset.NullCensus `json:"census"`
}

// RemediateResult holds the remediation report and the census afterwards.
type RemediateResult struct {
	SessionID string             `json:"session_id"`
	Report    dataset.Report     `json:"report"`
	Census    dataset.NullCensus `json:"census"`
}

// SelectionResult holds the current selection plus advisory warnings.
type SelectionResult struct {
	SessionID       string                `json:"session_id"`
	Features        []string              `json:"features"`
	Target          string                `json:"target,omitempty"`
	Ready           bool                  `json:"ready"`
	MissingWarnings []dataset.ColumnNulls `json:"missing_warnings,omitempty"`
	Overlap         []string              `json:"overlap,omitempty"`
}

// FitResult holds a fitted model summary.
type FitResult struct {
	SessionID     string                   `json:"session_id"`
	Model         regression.Summary       `json:"model"`
	Visualization regression.Visualization `json:"visualization"`
	Notices       []string                 `json:"notices,omitempty"`
}

// PlotResult names the rendered image. Path is empty when no plot could be
// drawn.
type PlotResult struct {
	SessionID     string                   `json:"session_id"`
	Visualization regression.Visualization `json:"visualization"`
	Path          string                   `json:"path,omitempty"`
	Message       string                   `json:"message,omitempty"`
}

// PredictResult holds a single prediction.
type PredictResult struct {
	SessionID string            `json:"session_id"`
	Target    string            `json:"target"`
	Value     float64           `json:"value"`
	Inputs    map[string]string `json:"inputs"`
	Source    Mode              `json:"source"`
}
