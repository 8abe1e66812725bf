package mcp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/session"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// ErrorDetails names what a pipeline failure was about.
type ErrorDetails struct {
	Path    string   `json:"path,omitempty"`
	Columns []string `json:"columns,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

var recoveryHints = map[domain.ErrorKind]string{
	domain.KindUnrecognizedFormat:    "Use a .csv, .xlsx, .xls, .db or .sqlite file",
	domain.KindNoTablesFound:         "Check that the database has at least one user table",
	domain.KindEmptyTable:            "Load a file with a header and at least one data row",
	domain.KindUnreadableTable:       "Check that the file is not corrupt and matches its suffix",
	domain.KindUnknownColumn:         "Call get_session to list the loaded columns",
	domain.KindEmptySelection:        "Select at least one feature column",
	domain.KindMissingSelection:      "Call select_features and select_target before fitting",
	domain.KindNonNumericData:        "Call remediate_nulls or select numeric columns",
	domain.KindInvalidConstant:       "Pass a numeric fill constant such as 0 or 1.5",
	domain.KindFitFailed:             "Drop duplicated or constant feature columns and add rows",
	domain.KindUnsupportedFormat:     "Use a .gob or .trend artifact path",
	domain.KindFileNotFound:          "Check the path spelling",
	domain.KindCorruptArtifact:       "Re-save the model from a fitted pipeline",
	domain.KindMissingOrInvalidInput: "Provide a numeric value for every model input",
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "session not found", RecoveryHint: "Call list_sessions or start a new session"}
	case errors.Is(err, session.ErrNoTable):
		return &APIError{Code: "NO_DATASET", Message: "no dataset loaded", RecoveryHint: "Call load_dataset first"}
	case errors.Is(err, session.ErrNoModel):
		return &APIError{Code: "NO_MODEL", Message: "no model available", RecoveryHint: "Call fit_model or load_model first"}
	case errors.Is(err, session.ErrPipelineLocked):
		return &APIError{Code: "PIPELINE_LOCKED", Message: "a loaded model locks the pipeline", RecoveryHint: "Call new_model to start a new pipeline"}
	}

	kind := domain.KindOf(err)
	if kind == "" {
		return nil
	}
	apiErr := &APIError{
		Code:         strings.ToUpper(string(kind)),
		Message:      err.Error(),
		RecoveryHint: recoveryHints[kind],
	}
	var oe *domain.OpError
	if errors.As(err, &oe) && (oe.Path != "" || len(oe.Columns) > 0 || len(oe.Fields) > 0) {
		apiErr.Details = ErrorDetails{Path: oe.Path, Columns: oe.Columns, Fields: oe.Fields}
	}
	return apiErr
}
