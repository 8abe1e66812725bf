package mocks

import (
	"context"

	"github.com/rpggio/trendify/internal/domain/activity"
	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/domain/regression"
	"github.com/rpggio/trendify/internal/domain/session"
	"github.com/rpggio/trendify/internal/repository"
	"github.com/stretchr/testify/mock"
)

var (
	_ repository.TableReader        = (*TableReader)(nil)
	_ repository.ArtifactStore      = (*ArtifactStore)(nil)
	_ repository.ActivityRepository = (*ActivityRepository)(nil)
	_ regression.Plotter            = (*Plotter)(nil)
	_ session.Journal               = (*Journal)(nil)
	_ session.TableReader           = (*TableReader)(nil)
)

// TableReader is a mock for repository.TableReader.
type TableReader struct {
	mock.Mock
}

func (m *TableReader) Read(ctx context.Context, path string) (*dataset.Table, error) {
	args := m.Called(ctx, path)
	if t, ok := args.Get(0).(*dataset.Table); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

// ArtifactStore is a mock for repository.ArtifactStore.
type ArtifactStore struct {
	mock.Mock
}

func (m *ArtifactStore) Save(ctx context.Context, a *artifact.Artifact, path string) error {
	args := m.Called(ctx, a, path)
	return args.Error(0)
}

func (m *ArtifactStore) Load(ctx context.Context, path string) (*artifact.Artifact, error) {
	args := m.Called(ctx, path)
	if a, ok := args.Get(0).(*artifact.Artifact); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Plotter is a mock for regression.Plotter.
type Plotter struct {
	mock.Mock
}

func (m *Plotter) Scatter2D(req regression.Scatter2D) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *Plotter) Surface3D(req regression.Surface3D) error {
	args := m.Called(req)
	return args.Error(0)
}

// Journal is a mock for the session activity journal.
type Journal struct {
	mock.Mock
}

func (m *Journal) LogActivity(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
