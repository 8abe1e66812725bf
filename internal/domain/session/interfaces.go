package session

import (
	"context"

	"github.com/rpggio/trendify/internal/domain/activity"
	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/dataset"
)

// TableReader loads a dataset from a file.
type TableReader interface {
	Read(ctx context.Context, path string) (*dataset.Table, error)
}

// ArtifactStore persists artifacts.
type ArtifactStore interface {
	Save(ctx context.Context, a *artifact.Artifact, path string) error
	Load(ctx context.Context, path string) (*artifact.Artifact, error)
}

// Journal records pipeline activity.
type Journal interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
