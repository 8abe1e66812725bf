package mcp

import (
	"time"

	"github.com/rpggio/trendify/internal/domain/activity"
)

// sessionScope is embedded in every tool's arguments. An explicit
// session_id wins over the transport session.
type sessionScope struct {
	SessionID string `json:"session_id,omitempty"`
}

type LoadDatasetParams struct {
	Path string `json:"path"`
}

type RemediateNullsParams struct {
	Policy   string   `json:"policy"`
	Constant any      `json:"constant,omitempty"`
	Columns  []string `json:"columns,omitempty"`
}

type SelectFeaturesParams struct {
	Columns []string `json:"columns"`
}

type SelectTargetParams struct {
	Column string `json:"column"`
}

type SetDescriptionParams struct {
	Description string `json:"description"`
}

type PlotModelParams struct {
	Path string `json:"path,omitempty"`
}

type SaveModelParams struct {
	Path string `json:"path"`
}

type LoadModelParams struct {
	Path string `json:"path"`
}

type PredictParams struct {
	Inputs map[string]any `json:"inputs"`
}

type GetRecentActivityParams struct {
	ActivityType *activity.ActivityType `json:"activity_type,omitempty"`
	AllSessions  bool                   `json:"all_sessions,omitempty"`
	Limit        int                    `json:"limit,omitempty"`
	Offset       int                    `json:"offset,omitempty"`
}

// DescriptionResponse acknowledges set_description.
type DescriptionResponse struct {
	SessionID   string `json:"session_id"`
	Description string `json:"description"`
}

// SessionListResponse lists the open sessions.
type SessionListResponse struct {
	Sessions []string `json:"sessions"`
	Current  string   `json:"current"`
}

// CloseSessionResponse acknowledges close_session.
type CloseSessionResponse struct {
	SessionID string `json:"session_id"`
	Closed    bool   `json:"closed"`
}

// ActivityEntryResponse is one journal line.
type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	SessionID string                `json:"session_id"`
	Summary   string                `json:"summary"`
	Path      string                `json:"path,omitempty"`
	Details   string                `json:"details,omitempty"`
}
