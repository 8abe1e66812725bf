package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the pipeline failure taxonomy.
var (
	ErrUnrecognizedFormat    = errors.New("unrecognized format")
	ErrNoTablesFound         = errors.New("no tables found")
	ErrEmptyTable            = errors.New("empty table")
	ErrUnreadableTable       = errors.New("unreadable table")
	ErrUnknownColumn         = errors.New("unknown column")
	ErrEmptySelection        = errors.New("empty selection")
	ErrMissingSelection      = errors.New("missing selection")
	ErrNonNumericData        = errors.New("non-numeric data")
	ErrInvalidConstant       = errors.New("invalid constant")
	ErrFitFailed             = errors.New("fit failed")
	ErrUnsupportedFormat     = errors.New("unsupported format")
	ErrFileNotFound          = errors.New("file not found")
	ErrCorruptArtifact       = errors.New("corrupt artifact")
	ErrMissingOrInvalidInput = errors.New("missing or invalid input")
)

// ErrorKind names a member of the failure taxonomy.
type ErrorKind string

const (
	KindUnrecognizedFormat    ErrorKind = "unrecognized_format"
	KindNoTablesFound         ErrorKind = "no_tables_found"
	KindEmptyTable            ErrorKind = "empty_table"
	KindUnreadableTable       ErrorKind = "unreadable_table"
	KindUnknownColumn         ErrorKind = "unknown_column"
	KindEmptySelection        ErrorKind = "empty_selection"
	KindMissingSelection      ErrorKind = "missing_selection"
	KindNonNumericData        ErrorKind = "non_numeric_data"
	KindInvalidConstant       ErrorKind = "invalid_constant"
	KindFitFailed             ErrorKind = "fit_failed"
	KindUnsupportedFormat     ErrorKind = "unsupported_format"
	KindFileNotFound          ErrorKind = "file_not_found"
	KindCorruptArtifact       ErrorKind = "corrupt_artifact"
	KindMissingOrInvalidInput ErrorKind = "missing_or_invalid_input"
)

var kindSentinels = map[ErrorKind]error{
	KindUnrecognizedFormat:    ErrUnrecognizedFormat,
	KindNoTablesFound:         ErrNoTablesFound,
	KindEmptyTable:            ErrEmptyTable,
	KindUnreadableTable:       ErrUnreadableTable,
	KindUnknownColumn:         ErrUnknownColumn,
	KindEmptySelection:        ErrEmptySelection,
	KindMissingSelection:      ErrMissingSelection,
	KindNonNumericData:        ErrNonNumericData,
	KindInvalidConstant:       ErrInvalidConstant,
	KindFitFailed:             ErrFitFailed,
	KindUnsupportedFormat:     ErrUnsupportedFormat,
	KindFileNotFound:          ErrFileNotFound,
	KindCorruptArtifact:       ErrCorruptArtifact,
	KindMissingOrInvalidInput: ErrMissingOrInvalidInput,
}

// OpError wraps a taxonomy failure with the operation and the offending
// path, columns or input fields.
type OpError struct {
	Op      string
	Kind    ErrorKind
	Path    string
	Columns []string
	Fields  []string
	Reason  string
	Err     error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		b.WriteString(sentinel.Error())
	} else {
		b.WriteString(string(e.Kind))
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (path=%s)", e.Path)
	}
	if len(e.Columns) > 0 {
		fmt.Fprintf(&b, " (columns=%s)", strings.Join(e.Columns, ", "))
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " (fields=%s)", strings.Join(e.Fields, ", "))
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the taxonomy kind carried by err, or "" when err is not a
// pipeline failure.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ""
}

// PathError builds a failure about a file.
func PathError(op string, kind ErrorKind, path string, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Path: path, Err: err}
}

// ColumnError builds a failure naming the offending columns.
func ColumnError(op string, kind ErrorKind, columns ...string) *OpError {
	return &OpError{Op: op, Kind: kind, Columns: columns}
}

// FieldError builds a failure naming the offending input fields.
func FieldError(op string, kind ErrorKind, fields ...string) *OpError {
	return &OpError{Op: op, Kind: kind, Fields: fields}
}

// Failure builds a failure with a free-form reason.
func Failure(op string, kind ErrorKind, reason string) *OpError {
	return &OpError{Op: op, Kind: kind, Reason: reason}
}
