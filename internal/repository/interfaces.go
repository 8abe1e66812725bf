package repository

import (
	"context"

	"github.com/rpggio/trendify/internal/domain/activity"
	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/dataset"
)

// TableReader resolves a file path to an in-memory table
type TableReader interface {
	Read(ctx context.Context, path string) (*dataset.Table, error)
}

// ArtifactStore manages artifact persistence
type ArtifactStore interface {
	Save(ctx context.Context, a *artifact.Artifact, path string) error
	Load(ctx context.Context, path string) (*artifact.Artifact, error)
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
	List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}
