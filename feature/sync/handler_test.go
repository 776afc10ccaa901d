package sync_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"quest-sync/core/artifact"
	"quest-sync/core/models"
	"quest-sync/core/reconcile"
	"quest-sync/core/snapshot"
	"quest-sync/core/source"
	"quest-sync/core/syncer"
	"quest-sync/core/synth"
	syncfeature "quest-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	app   *fiber.App
	fs    afero.Fs
	synth *synth.Recorder
	index *artifact.Index
}

func setupApp(t *testing.T) *testEnv {
	fs := afero.NewMemMapFs()
	a := source.NewStatic("a",
		models.Quest{ID: 1, Title: "Brot backen", Description: "Backe Brot.", Zone: "Elwynn"},
		models.Quest{ID: 2, Title: "Holz hacken", Description: "Hacke Holz.", Zone: "Elwynn"},
	)
	rec, err := reconcile.NewReconciler(a, nil, reconcile.Options{CacheTTL: -1}, nil)
	require.NoError(t, err)

	env := &testEnv{fs: fs, synth: synth.NewRecorder(), index: artifact.NewIndex("de")}
	orch, err := syncer.New(syncer.Deps{
		Reconciler:  rec,
		Repository:  snapshot.NewRepository(fs, "/out", "de", nil, nil),
		Index:       env.index,
		Synthesizer: env.synth,
		Fs:          fs,
	}, syncer.Options{LanguageCode: "de", AudioRoot: "/audio", Variants: []models.Variant{models.VariantMale}})
	require.NoError(t, err)

	svc := syncfeature.NewService(orch, syncer.ApplyOptions{OnlyNewAndChanged: true}, zap.NewNop())
	feature := syncfeature.NewFeature(svc)
	assert.Equal(t, "sync", feature.Name())
	assert.True(t, feature.IsEnabled())

	env.app = fiber.New()
	require.NoError(t, feature.Load(env.app))
	return env
}

func call(t *testing.T, app *fiber.App, method, url string, out any) int {
	resp, err := app.Test(httptest.NewRequest(method, url, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func TestSyncFlow(t *testing.T) {
	env := setupApp(t)

	var errBody map[string]string
	assert.Equal(t, 409, call(t, env.app, "POST", "/sync/apply", &errBody))
	assert.Equal(t, syncer.ErrNoScan.Error(), errBody["error"])
	assert.Equal(t, 409, call(t, env.app, "GET", "/sync/plan", nil))

	var scan syncer.ScanResult
	assert.Equal(t, 200, call(t, env.app, "POST", "/sync/scan", &scan))
	assert.True(t, scan.Success)
	require.NotNil(t, scan.Diff)
	assert.Equal(t, 2, scan.Diff.Counts.New)

	var status syncer.Status
	assert.Equal(t, 200, call(t, env.app, "GET", "/sync/status", &status))
	assert.Equal(t, syncer.StateScanned, status.State)
	require.NotNil(t, status.Pending)
	assert.Equal(t, 2, status.Pending.New)

	var plan []syncer.Candidate
	assert.Equal(t, 200, call(t, env.app, "GET", "/sync/plan?ids=2", &plan))
	require.Len(t, plan, 1)
	assert.Equal(t, 2, plan[0].QuestID)

	var applied syncer.ApplyResult
	assert.Equal(t, 200, call(t, env.app, "POST", "/sync/apply", &applied))
	assert.True(t, applied.Success)
	assert.True(t, applied.Committed)
	assert.Equal(t, 2, applied.Synthesized)
	assert.Len(t, env.synth.Requests(), 2)

	// The scan is consumed.
	assert.Equal(t, 409, call(t, env.app, "POST", "/sync/apply", nil))

	var entries []artifact.Entry
	assert.Equal(t, 200, call(t, env.app, "GET", "/artifacts/1", &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, models.VariantMale, entries[0].Gender)
	assert.Equal(t, 400, call(t, env.app, "GET", "/artifacts/x", nil))

	var report artifact.ScanReport
	assert.Equal(t, 200, call(t, env.app, "POST", "/artifacts/rebuild", &report))
	assert.Equal(t, 2, report.Indexed)

	assert.Equal(t, 200, call(t, env.app, "DELETE", "/sync/snapshot", nil))
	assert.Equal(t, 200, call(t, env.app, "POST", "/sync/scan", &scan))
	assert.Equal(t, 2, scan.Diff.Counts.New)
}

func TestApplyQueryOptions(t *testing.T) {
	env := setupApp(t)
	require.Equal(t, 200, call(t, env.app, "POST", "/sync/scan", nil))

	assert.Equal(t, 400, call(t, env.app, "POST", "/sync/apply?ids=1,abc", nil))

	var applied syncer.ApplyResult
	assert.Equal(t, 200, call(t, env.app, "POST", "/sync/apply?ids=1&full=true", &applied))
	assert.Equal(t, 1, applied.Selected)
	assert.Equal(t, 1, applied.Synthesized)
	assert.Equal(t, []int{1}, []int{env.synth.Requests()[0].QuestID})
}
