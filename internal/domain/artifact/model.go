// Package artifact defines the persisted snapshot of a fitted model and its
// provenance.
package artifact

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/trendify/internal/domain/regression"
)

// FormatVersion is the artifact schema version written by this build.
const FormatVersion = 1

// Metrics holds the in-sample fit quality.
type Metrics struct {
	R2  float64 `json:"r2"`
	MSE float64 `json:"mse"`
}

// Params are the unrounded fitted parameters, one coefficient per input
// column.
type Params struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Artifact is a fitted model plus the columns and description it was saved
// with. Model is nil when no parameters were captured.
type Artifact struct {
	ID            string    `json:"id"`
	FormatVersion int       `json:"format_version"`
	Formula       string    `json:"formula"`
	InputColumns  []string  `json:"input_columns"`
	OutputColumn  string    `json:"output_column"`
	Metrics       Metrics   `json:"metrics"`
	Description   string    `json:"description"`
	Model         *Params   `json:"model,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromModel snapshots a fitted model.
func FromModel(m *regression.Model, description string) *Artifact {
	eq := m.Equation()
	return &Artifact{
		ID:            uuid.NewString(),
		FormatVersion: FormatVersion,
		Formula:       m.Formula(),
		InputColumns:  eq.Features,
		OutputColumn:  eq.Target,
		Metrics:       Metrics{R2: m.R2(), MSE: m.MSE()},
		Description:   description,
		Model:         &Params{Coefficients: eq.Coefficients, Intercept: eq.Intercept},
		CreatedAt:     time.Now().UTC(),
	}
}

// Equation returns the structured equation. ok is false when the artifact
// carries no fitted parameters.
func (a *Artifact) Equation() (regression.Equation, bool) {
	if a.Model == nil {
		return regression.Equation{}, false
	}
	return regression.Equation{
		Target:       a.OutputColumn,
		Features:     append([]string(nil), a.InputColumns...),
		Coefficients: append([]float64(nil), a.Model.Coefficients...),
		Intercept:    a.Model.Intercept,
	}, true
}
