package activity

import "time"

// ActivityType represents the type of pipeline event
type ActivityType string

const (
	TypeDatasetLoaded   ActivityType = "dataset_loaded"
	TypeNullsRemediated ActivityType = "nulls_remediated"
	TypeColumnsSelected ActivityType = "columns_selected"
	TypeDescriptionSet  ActivityType = "description_set"
	TypeModelFitted     ActivityType = "model_fitted"
	TypeModelPlotted    ActivityType = "model_plotted"
	TypeArtifactSaved   ActivityType = "artifact_saved"
	TypeArtifactLoaded  ActivityType = "artifact_loaded"
	TypePrediction      ActivityType = "prediction"
	TypeSessionReset    ActivityType = "session_reset"
)

// ActivityEntry represents an event in the pipeline journal
type ActivityEntry struct {
	ID           int64        `json:"id"`
	SessionID    string       `json:"session_id"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Path         *string      `json:"path,omitempty"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
