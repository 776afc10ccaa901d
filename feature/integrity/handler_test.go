package integrity

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"quest-sync/core/artifact"
	"quest-sync/core/database"
	"quest-sync/core/models"
	"quest-sync/core/storage/mocks"
	"quest-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type row struct {
	ID    int    `gorm:"column:id"`
	Title string `gorm:"column:title"`
}

type indexRebuilder struct {
	fs    afero.Fs
	index *artifact.Index
	calls int
}

func (r *indexRebuilder) RebuildIndex() (artifact.ScanReport, error) {
	r.calls++
	return r.index.Rebuild(r.fs, "/audio/de")
}

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, *indexRebuilder) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE quests (id INTEGER PRIMARY KEY, title TEXT)").Error)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/audio/de/Z/Record_1_Side_Male_A.mp3", []byte("x"), 0o644))
	rebuilder := &indexRebuilder{fs: fs, index: artifact.NewIndex("de")}

	mockClient := new(mocks.Client)
	feature := NewFeature(Targets{
		Client:        mockClient,
		Bucket:        "quests",
		CatalogObject: "catalog.json",
		DB:            db,
		Table:         "quests",
		Model:         row{},
		Required:      []string{"id"},
		Fs:            fs,
		ArtifactRoot:  "/audio/de",
		Index:         rebuilder.index,
		Rebuilder:     rebuilder,
	}, zap.NewNop())
	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, mockClient, rebuilder
}

func get(t *testing.T, app *fiber.App, url string, out any) int {
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}

func TestHandleStorageCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "quests").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "quests", mock.Anything).Return(nil)

	var report checks.StorageReport
	assert.Equal(t, 200, get(t, app, "/integrity/storage", &report))
	assert.False(t, report.BucketExists)
	mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)

	assert.Equal(t, 200, get(t, app, "/integrity/storage?fix=true", &report))
	assert.True(t, report.BucketExists)
	mockClient.AssertNumberOfCalls(t, "MakeBucket", 1)
}

func TestHandleDatabaseCheck(t *testing.T) {
	app, _, _ := setupTestApp(t)

	var report checks.TableReport
	assert.Equal(t, 200, get(t, app, "/integrity/database", &report))
	assert.Equal(t, "ok", report.Status)
}

func TestHandleArtifactCheck(t *testing.T) {
	app, _, rebuilder := setupTestApp(t)

	var report checks.ArtifactReport
	assert.Equal(t, 200, get(t, app, "/integrity/artifacts", &report))
	assert.Equal(t, []string{"Z/Record_1_Side_Male_A.mp3"}, report.Unindexed)
	assert.Equal(t, "error", report.Status)

	assert.Equal(t, 200, get(t, app, "/integrity/artifacts?fix=true", &report))
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, 1, rebuilder.calls)
	assert.True(t, rebuilder.index.IsAlreadyPresent(1, models.VariantMale))
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "quests").Return(true, nil)
	mockClient.On("GetObject", mock.Anything, "quests", "catalog.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte("[]"))), nil)

	var report map[string]map[string]any
	assert.Equal(t, 200, get(t, app, "/integrity", &report))
	assert.Equal(t, "ok", report["storage"]["status"])
	assert.Equal(t, "ok", report["database"]["status"])
	assert.Equal(t, "error", report["artifacts"]["status"])
}

func TestService_MissingBackends(t *testing.T) {
	svc := NewService(Targets{}, nil)
	report := svc.CheckAll(t.Context(), true)
	for _, name := range []string{"storage", "database", "artifacts"} {
		r, ok := report[name].(map[string]any)
		require.True(t, ok, name)
		assert.Equal(t, "error", r["status"])
	}
}
