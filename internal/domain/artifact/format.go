package artifact

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rpggio/trendify/internal/domain"
)

// Format is an on-disk artifact encoding, chosen by file suffix.
type Format string

const (
	// FormatNative is a gob-encoded object graph.
	FormatNative Format = "gob"
	// FormatPortable is a checksummed, compressed JSON envelope.
	FormatPortable Format = "trend"
)

// Formats lists the supported suffixes.
var Formats = []Format{FormatNative, FormatPortable}

// FormatFor picks the format from the lower-cased suffix of path.
func FormatFor(op, path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, f := range Formats {
		if ext == string(f) {
			return f, nil
		}
	}
	return "", &domain.OpError{
		Op:     op,
		Kind:   domain.KindUnsupportedFormat,
		Path:   path,
		Reason: fmt.Sprintf("suffix must be .%s or .%s", FormatNative, FormatPortable),
	}
}

// Store persists artifacts.
type Store interface {
	Save(ctx context.Context, a *Artifact, path string) error
	Load(ctx context.Context, path string) (*Artifact, error)
}

// Validate checks the structure of a decoded artifact.
func (a *Artifact) Validate() error {
	reason := ""
	switch {
	case a.OutputColumn == "":
		reason = "output column is empty"
	case len(a.InputColumns) == 0:
		reason = "no input columns"
	case a.Formula == "":
		reason = "formula is empty"
	case a.Model != nil && len(a.Model.Coefficients) != len(a.InputColumns):
		reason = fmt.Sprintf("%d coefficients for %d input columns", len(a.Model.Coefficients), len(a.InputColumns))
	case a.FormatVersion > FormatVersion:
		reason = fmt.Sprintf("format version %d is newer than %d", a.FormatVersion, FormatVersion)
	}
	if reason != "" {
		return domain.Failure("validate artifact", domain.KindCorruptArtifact, reason)
	}
	return nil
}
