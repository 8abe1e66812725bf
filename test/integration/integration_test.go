package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpggio/trendify/internal/app"
	"github.com/rpggio/trendify/internal/config"
	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/activity"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/domain/session"
	"github.com/rpggio/trendify/internal/sqlite"
)

type testEnv struct {
	app *app.App
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Journal.Path = ":memory:"
	cfg.Plot.Dir = dir

	a, err := app.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return &testEnv{app: a, dir: dir}
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const doubling = "x,y\n1,2\n2,4\n3,6\n4,8\n5,10\n"

func fitXY(t *testing.T, ctx context.Context, svc *session.Service, id, path string) *session.FitResult {
	t.Helper()
	_, err := svc.LoadTable(ctx, id, path)
	require.NoError(t, err)
	_, err = svc.SelectFeatures(ctx, id, []string{"x"})
	require.NoError(t, err)
	_, err = svc.SelectTarget(ctx, id, "y")
	require.NoError(t, err)
	fit, err := svc.Fit(ctx, id)
	require.NoError(t, err)
	return fit
}

func TestEndToEnd_FitSaveLoadPredict(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.app.Sessions

	fit := fitXY(t, ctx, svc, "", env.write(t, "doubling.csv", doubling))
	require.Equal(t, "y = 2.0000 * x + 0.0000", fit.Model.Formula)
	require.InDelta(t, 1.0, fit.Model.R2, 1e-9)
	require.InDelta(t, 0.0, fit.Model.MSE, 1e-9)

	for _, name := range []string{"model.gob", "model.trend"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(env.dir, name)
			_, err := svc.SaveArtifact(ctx, "", path)
			require.NoError(t, err)

			// A fresh session proves nothing leaks from the fitted pipeline.
			id := "reload-" + name
			loaded, err := svc.LoadArtifact(ctx, id, path)
			require.NoError(t, err)
			require.Equal(t, fit.Model.Formula, loaded.Formula)
			require.Equal(t, []string{"x"}, loaded.InputColumns)
			require.Equal(t, "y", loaded.OutputColumn)

			predicted, err := svc.Predict(ctx, id, map[string]string{"x": "6"})
			require.NoError(t, err)
			require.InDelta(t, 12.0, predicted.Value, 1e-9)
			require.Equal(t, session.ModeArtifact, predicted.Source)
		})
	}
}

func TestEndToEnd_FillMean(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.app.Sessions

	loaded, err := svc.LoadTable(ctx, "", env.write(t, "gaps.csv", "a,b\n1,10\n,20\n3,30\nNA,40\n5,50\n"))
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Census.Missing("a"))

	result, err := svc.Remediate(ctx, "", dataset.Remedy{Policy: dataset.PolicyFillMean})
	require.NoError(t, err)
	require.Equal(t, []dataset.Fill{{Column: "a", Value: 3.0, Cells: 2}}, result.Report.Filled)
	require.Zero(t, result.Census.Missing("a"))

	census, err := svc.Census(ctx, "")
	require.NoError(t, err)
	require.True(t, census.Empty())
}

func TestEndToEnd_ArtifactLocksPipeline(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.app.Sessions
	data := env.write(t, "doubling.csv", doubling)

	fitXY(t, ctx, svc, "", data)
	model := filepath.Join(env.dir, "locked.gob")
	_, err := svc.SaveArtifact(ctx, "", model)
	require.NoError(t, err)

	_, err = svc.LoadArtifact(ctx, "", model)
	require.NoError(t, err)

	_, err = svc.LoadTable(ctx, "", data)
	require.ErrorIs(t, err, session.ErrPipelineLocked)
	_, err = svc.Fit(ctx, "")
	require.ErrorIs(t, err, session.ErrPipelineLocked)

	snap, err := svc.NewModel(ctx, "")
	require.NoError(t, err)
	require.Equal(t, session.ModePipeline, snap.Mode)

	_, err = svc.LoadTable(ctx, "", data)
	require.NoError(t, err)
}

func TestEndToEnd_SpreadsheetSource(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{{"sqft", "rooms", "price"}, {1000, 2, 210}, {1500, 3, 305}, {2000, 3, 395}, {2500, 4, 500}, {1200, 2, 245}}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(env.dir, "houses.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	svc := env.app.Sessions
	_, err := svc.LoadTable(ctx, "", path)
	require.NoError(t, err)
	_, err = svc.SelectFeatures(ctx, "", []string{"sqft", "rooms"})
	require.NoError(t, err)
	_, err = svc.SelectTarget(ctx, "", "price")
	require.NoError(t, err)
	fit, err := svc.Fit(ctx, "")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(fit.Model.Formula, "price = "))
	require.Greater(t, fit.Model.R2, 0.9)

	plotted, err := svc.Plot(ctx, "", "")
	require.NoError(t, err)
	require.FileExists(t, plotted.Path)
}

func TestEndToEnd_SQLiteSource(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	path := filepath.Join(env.dir, "points.db")
	db, err := sqlite.New(path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE points (x REAL, y REAL)`)
	require.NoError(t, err)
	for _, p := range [][2]float64{{1, 2}, {2, 4}, {3, 6}, {4, 8}, {5, 10}} {
		_, err = db.Exec(`INSERT INTO points (x, y) VALUES (?, ?)`, p[0], p[1])
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	fit := fitXY(t, ctx, env.app.Sessions, "", path)
	require.Equal(t, "y = 2.0000 * x + 0.0000", fit.Model.Formula)
}

func TestEndToEnd_FailuresKeepState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.app.Sessions
	data := env.write(t, "doubling.csv", doubling)

	fitXY(t, ctx, svc, "", data)

	_, err := svc.LoadTable(ctx, "", filepath.Join(env.dir, "missing.csv"))
	require.ErrorIs(t, err, domain.ErrFileNotFound)
	_, err = svc.LoadTable(ctx, "", env.write(t, "notes.txt", "x\n1\n"))
	require.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
	_, err = svc.LoadArtifact(ctx, "", env.write(t, "broken.trend", "not an artifact"))
	require.ErrorIs(t, err, domain.ErrCorruptArtifact)

	snap, err := svc.Get(ctx, "")
	require.NoError(t, err)
	require.Equal(t, session.ModePipeline, snap.Mode)
	require.Equal(t, 5, snap.Rows)
	require.NotNil(t, snap.Model)

	predicted, err := svc.Predict(ctx, "", map[string]string{"x": "6"})
	require.NoError(t, err)
	require.InDelta(t, 12.0, predicted.Value, 1e-9)
}

func TestEndToEnd_Journal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.app.Sessions

	fitXY(t, ctx, svc, "journaled", env.write(t, "doubling.csv", doubling))
	_, err := svc.Predict(ctx, "journaled", map[string]string{"x": "1"})
	require.NoError(t, err)

	id := "journaled"
	entries, err := env.app.Activity.GetRecentActivity(ctx, activity.ListActivityOptions{SessionID: &id})
	require.NoError(t, err)

	var types []activity.ActivityType
	for _, e := range entries {
		types = append(types, e.ActivityType)
	}
	require.Equal(t, []activity.ActivityType{
		activity.TypePrediction,
		activity.TypeModelFitted,
		activity.TypeColumnsSelected,
		activity.TypeColumnsSelected,
		activity.TypeDatasetLoaded,
	}, types)
}
