package session

import "errors"

var (
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoTable indicates no dataset has been loaded into the session.
	ErrNoTable = errors.New("no dataset loaded")
	// ErrNoModel indicates the session has no fitted or loaded model.
	ErrNoModel = errors.New("no model available")
	// ErrPipelineLocked indicates a loaded artifact blocks the pipeline
	// until a new model is started.
	ErrPipelineLocked = errors.New("pipeline locked by loaded artifact")
)
