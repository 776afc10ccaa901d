package syncer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"quest-sync/core/artifact"
	"quest-sync/core/models"
	"quest-sync/core/reconcile"
	"quest-sync/core/snapshot"
	"quest-sync/core/source"
	"quest-sync/core/synth"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recordingExporter struct {
	err     error
	batches []ExportBatch
}

func (e *recordingExporter) Export(ctx context.Context, batch ExportBatch) error {
	e.batches = append(e.batches, batch)
	return e.err
}

type fixture struct {
	fs       afero.Fs
	a, b     *source.Static
	synth    *synth.Recorder
	repo     *snapshot.Repository
	index    *artifact.Index
	store    *artifact.Store
	exporter *recordingExporter
	orch     *Orchestrator
}

func quest(id int, title, zone string) models.Quest {
	return models.Quest{ID: id, Title: title, Description: "Text of " + title, Zone: zone}
}

func newFixture(t *testing.T, opts Options, records ...models.Quest) *fixture {
	t.Helper()
	f := &fixture{
		fs:       afero.NewMemMapFs(),
		a:        source.NewStatic("catalog", records...),
		b:        source.NewStatic("enrichment"),
		synth:    synth.NewRecorder(),
		exporter: &recordingExporter{},
	}
	clock := &stepClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}

	rec, err := reconcile.NewReconciler(f.a, f.b, reconcile.Options{CacheTTL: -1}, nil)
	require.NoError(t, err)

	if opts.LanguageCode == "" {
		opts.LanguageCode = "de"
	}
	if opts.AudioRoot == "" {
		opts.AudioRoot = "/audio"
	}
	f.repo = snapshot.NewRepository(f.fs, "/out", opts.LanguageCode, clock, nil)
	f.index = artifact.NewIndex(opts.LanguageCode)
	f.store = artifact.NewStore(f.fs, f.repo.Dir(), clock)

	f.orch, err = New(Deps{
		Reconciler:  rec,
		Repository:  f.repo,
		Index:       f.index,
		Synthesizer: f.synth,
		Fs:          f.fs,
		IndexStore:  f.store,
		Exporter:    f.exporter,
		Clock:       clock,
	}, opts)
	require.NoError(t, err)
	return f
}

func (f *fixture) scan(t *testing.T) *ScanResult {
	t.Helper()
	res, err := f.orch.Scan(context.Background())
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	return res
}

func (f *fixture) apply(t *testing.T, scan *ScanResult, opts ApplyOptions) *ApplyResult {
	t.Helper()
	res, err := f.orch.Apply(context.Background(), scan, opts)
	require.NoError(t, err)
	return res
}

func calledIDs(r *synth.Recorder) []int {
	seen := map[int]bool{}
	var ids []int
	for _, req := range r.Requests() {
		if !seen[req.QuestID] {
			seen[req.QuestID] = true
			ids = append(ids, req.QuestID)
		}
	}
	sort.Ints(ids)
	return ids
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{}, Options{LanguageCode: "de"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	f := newFixture(t, Options{})
	deps := f.orch.deps
	_, err = New(deps, Options{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestScan_FirstRunIsAllNewAndPersistsNothing(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Elwynn"), quest(2, "B", "Westfall"), quest(3, "C", "Elwynn"))

	res := f.scan(t)
	assert.Equal(t, 3, res.Diff.Counts.New)
	assert.Empty(t, res.Diff.OldDataVersion)
	assert.NotEmpty(t, res.Diff.NewDataVersion)
	assert.Equal(t, StateScanned, f.orch.State())
	assert.Same(t, res, f.orch.LastScan())
	assert.False(t, f.repo.Exists())

	q, ok := res.Record(2)
	require.True(t, ok)
	assert.Equal(t, "Westfall", q.Zone)
}

func TestScan_SourceAFailure(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"))
	f.a.Err = errors.New("catalog down")

	res, err := f.orch.Scan(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "catalog down")
	assert.Equal(t, StateIdle, f.orch.State())
	assert.Nil(t, f.orch.LastScan())
}

func TestScan_SourceBFailureTreatedAsEmpty(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"))
	f.b.Err = errors.New("bucket unreachable")

	res := f.scan(t)
	assert.Equal(t, 1, res.Diff.Counts.New)
}

func TestScan_Cancelled(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.orch.Scan(ctx)
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.False(t, res.Success)
	assert.Equal(t, StateIdle, f.orch.State())
	assert.False(t, f.repo.Exists())
}

func TestApply_CommitsSnapshotIndexAndFiles(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "Into the Woods", "Elwynn"), quest(2, "Harvest", "Westfall"), quest(3, "Wolves", "Elwynn"))

	scan := f.scan(t)
	res := f.apply(t, scan, ApplyOptions{OnlyNewAndChanged: true})

	assert.True(t, res.Success, res.Error)
	assert.True(t, res.Committed)
	assert.Equal(t, 3, res.Selected)
	assert.Equal(t, 6, res.Synthesized)
	assert.Equal(t, StateApplied, f.orch.State())

	saved := f.repo.Load()
	require.NotNil(t, saved)
	assert.Equal(t, scan.Diff.NewDataVersion, saved.DataVersion)
	assert.Len(t, saved.Entries, 3)

	meta := f.repo.LoadMeta()
	require.NotNil(t, meta)
	assert.Equal(t, saved.DataVersion, meta.LastDataVersion)
	assert.Equal(t, 6, meta.TotalArtifactsGenerated)

	assert.Equal(t, 6, f.index.Len())
	e, ok := f.index.Get(1, models.VariantFemale)
	require.True(t, ok)
	assert.Equal(t, "Elwynn/Record_1_Side_female_Into_the_Woods.mp3", e.RelativePath)
	assert.True(t, artifact.Exists(f.fs, "/audio/de", e))

	persisted, err := f.store.Load("de")
	require.NoError(t, err)
	assert.Equal(t, 6, persisted.Len())

	_, err = f.orch.Apply(context.Background(), scan, ApplyOptions{})
	assert.ErrorIs(t, err, ErrNoScan)
}

func TestApply_OnlyNewAndChangedScenario(t *testing.T) {
	records := []models.Quest{
		quest(1, "One", "Z"), quest(2, "Two", "Z"), quest(3, "Three", "Z"),
		quest(4, "Four", "Z"), quest(5, "Five", "Z"), quest(6, "Six", "Z"),
	}
	f := newFixture(t, Options{Variants: []models.Variant{models.VariantMale}}, records...)
	first := f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true})
	require.True(t, first.Success)
	require.Len(t, f.synth.Requests(), 6)

	f.a.Records[0].Description = "Rewritten text"
	f.a.Records = append(f.a.Records, quest(7, "Seven", "Z"), quest(8, "Eight", "Z"))
	f.synth = synth.NewRecorder()
	f.orch.deps.Synthesizer = f.synth

	scan := f.scan(t)
	require.Equal(t, snapshot.Counts{New: 2, Changed: 1, Unchanged: 5}, scan.Diff.Counts)

	res := f.apply(t, scan, ApplyOptions{OnlyNewAndChanged: true})
	assert.True(t, res.Success)
	assert.Len(t, f.synth.Requests(), 3)
	assert.Equal(t, []int{1, 7, 8}, calledIDs(f.synth))
	assert.Equal(t, 9, f.repo.LoadMeta().TotalArtifactsGenerated)
}

func TestApply_PartialFailureStillCommits(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"), quest(2, "B", "Z"), quest(3, "C", "Z"))
	f.synth.FailFor[2] = errors.New("quota exceeded")

	res := f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true})
	assert.False(t, res.Success)
	assert.True(t, res.Committed)
	assert.Equal(t, 4, res.Synthesized)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, 2, res.Failures[0].QuestID)
	assert.Equal(t, "quota exceeded", res.Failures[0].Error)
	assert.Contains(t, res.Error, "2 synthesis call(s) failed")
	assert.True(t, f.repo.Exists())
	assert.False(t, f.index.IsAlreadyPresent(2, models.VariantMale))
}

func TestApply_CancelledBeforeCommit(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"), quest(2, "B", "Z"))
	ctx, cancel := context.WithCancel(context.Background())
	f.synth.OnCall = func(synth.Request) { cancel() }

	scan := f.scan(t)
	res, err := f.orch.Apply(ctx, scan, ApplyOptions{OnlyNewAndChanged: true})
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.False(t, res.Success)
	assert.False(t, res.Committed)
	assert.Empty(t, res.Failures)
	assert.Equal(t, 1, res.Synthesized)
	assert.False(t, f.repo.Exists())
	assert.Equal(t, StateIdle, f.orch.State())

	persisted, err := f.store.Load("de")
	require.NoError(t, err)
	assert.Equal(t, 1, persisted.Len())

	f.synth.OnCall = nil
	again := f.scan(t)
	assert.Equal(t, 2, again.Diff.Counts.New)
}

func TestApply_FullResyncConsultsIndex(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"), quest(2, "B", "Z"), quest(3, "C", "Z"))
	require.True(t, f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true}).Success)

	gone, ok := f.index.Get(2, models.VariantFemale)
	require.True(t, ok)
	require.NoError(t, f.fs.Remove("/audio/de/"+gone.RelativePath))
	f.synth = synth.NewRecorder()
	f.orch.deps.Synthesizer = f.synth

	scan := f.scan(t)
	require.Equal(t, 3, scan.Diff.Counts.Unchanged)

	plan := f.orch.Plan(scan, ApplyOptions{OnlyNewAndChanged: true})
	assert.Empty(t, plan)

	res := f.apply(t, scan, ApplyOptions{OnlyNewAndChanged: false})
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Selected)
	assert.Equal(t, 5, res.Skipped)
	require.Len(t, f.synth.Requests(), 1)
	assert.Equal(t, 2, f.synth.Requests()[0].QuestID)
	assert.Equal(t, models.VariantFemale, f.synth.Requests()[0].Variant)
}

func TestApply_RepairMissing(t *testing.T) {
	f := newFixture(t, Options{Variants: []models.Variant{models.VariantMale}}, quest(1, "A", "Z"), quest(2, "B", "Z"))
	require.True(t, f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true}).Success)
	require.True(t, f.index.Remove(1, models.VariantMale))

	scan := f.scan(t)
	plan := f.orch.Plan(scan, ApplyOptions{OnlyNewAndChanged: true, RepairMissing: true})
	require.Len(t, plan, 1)
	assert.Equal(t, 1, plan[0].QuestID)
	assert.Equal(t, snapshot.DiffUnchanged, plan[0].DiffType)
}

func TestApply_RemovedAndFilteredRecords(t *testing.T) {
	f := newFixture(t, Options{Variants: []models.Variant{models.VariantMale}}, quest(1, "A", "Z"), quest(2, "B", "Z"), quest(3, "C", "Z"))
	require.True(t, f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true}).Success)

	f.a.Records = []models.Quest{quest(1, "A", "Z"), quest(2, "B", "Z"), quest(4, "D", "Z"), quest(5, "E", "Z")}
	f.synth = synth.NewRecorder()
	f.orch.deps.Synthesizer = f.synth

	scan := f.scan(t)
	require.Equal(t, 1, scan.Diff.Counts.Removed)

	res := f.apply(t, scan, ApplyOptions{IDs: []int{5, 3}})
	assert.True(t, res.Success)
	assert.Equal(t, []int{5}, calledIDs(f.synth))

	saved := f.repo.Load()
	require.NotNil(t, saved)
	assert.Len(t, saved.Entries, 4)
}

func TestApply_SkipsBlankText(t *testing.T) {
	f := newFixture(t, Options{}, models.Quest{ID: 1, Zone: "Z"}, quest(2, "B", "Z"))

	res := f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true})
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []int{2}, calledIDs(f.synth))
}

func TestApply_ChangedTitleReplacesArtifact(t *testing.T) {
	f := newFixture(t, Options{Variants: []models.Variant{models.VariantMale}}, quest(1, "Old Name", "Z"))
	require.True(t, f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true}).Success)
	old, _ := f.index.Get(1, models.VariantMale)

	f.a.Records[0].Title = "New Name"
	res := f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true})
	require.True(t, res.Success)

	current, _ := f.index.Get(1, models.VariantMale)
	assert.Equal(t, "Z/Record_1_Side_male_New_Name.mp3", current.RelativePath)
	assert.False(t, artifact.Exists(f.fs, "/audio/de", old))
	assert.Equal(t, 1, f.index.Len())
}

func TestApply_NotConfigured(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"))
	f.synth.Unconfigured = true

	scan := f.scan(t)
	res := f.apply(t, scan, ApplyOptions{OnlyNewAndChanged: true})
	assert.False(t, res.Success)
	assert.Equal(t, synth.ErrNotConfigured.Error(), res.Error)
	assert.False(t, res.Committed)
	assert.Equal(t, StateFailed, f.orch.State())
	assert.Empty(t, f.synth.Requests())

	f.synth.Unconfigured = false
	retry := f.apply(t, scan, ApplyOptions{OnlyNewAndChanged: true})
	assert.True(t, retry.Success)
}

func TestApply_Export(t *testing.T) {
	t.Run("failure does not affect result", func(t *testing.T) {
		f := newFixture(t, Options{}, quest(1, "A", "Z"))
		f.exporter.err = errors.New("upload refused")

		res := f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true, AutoExport: true})
		assert.True(t, res.Success)
		assert.False(t, res.Exported)
		assert.Len(t, f.exporter.batches, 1)
	})

	t.Run("hands over written artifacts", func(t *testing.T) {
		f := newFixture(t, Options{}, quest(1, "A", "Z"))

		res := f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true, AutoExport: true})
		assert.True(t, res.Exported)
		require.Len(t, f.exporter.batches, 1)
		assert.Equal(t, "/audio/de", f.exporter.batches[0].Root)
		assert.Len(t, f.exporter.batches[0].Entries, 2)
	})

	t.Run("disabled", func(t *testing.T) {
		f := newFixture(t, Options{}, quest(1, "A", "Z"))
		f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true})
		assert.Empty(t, f.exporter.batches)
	})
}

func TestApply_InvalidArguments(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"))

	_, err := f.orch.Apply(context.Background(), nil, ApplyOptions{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	stale := f.scan(t)
	f.scan(t)
	_, err = f.orch.Apply(context.Background(), stale, ApplyOptions{})
	assert.ErrorIs(t, err, ErrNoScan)
}

func TestApply_WorkersAndBusy(t *testing.T) {
	f := newFixture(t, Options{Workers: 4}, quest(1, "A", "Z"), quest(2, "B", "Z"), quest(3, "C", "Z"), quest(4, "D", "Z"))
	started := make(chan struct{}, 8)
	release := make(chan struct{})
	f.synth.OnCall = func(synth.Request) {
		started <- struct{}{}
		<-release
	}

	scan := f.scan(t)
	done := make(chan *ApplyResult)
	go func() {
		res, _ := f.orch.Apply(context.Background(), scan, ApplyOptions{OnlyNewAndChanged: true})
		done <- res
	}()

	<-started
	assert.Equal(t, StateApplying, f.orch.State())
	_, err := f.orch.Scan(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, f.orch.Reset(), ErrBusy)

	close(release)
	res := <-done
	assert.True(t, res.Success)
	assert.Equal(t, 8, res.Synthesized)
	assert.Equal(t, 8, f.index.Len())
}

func TestReset(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"))
	require.True(t, f.apply(t, f.scan(t), ApplyOptions{OnlyNewAndChanged: true}).Success)
	require.True(t, f.repo.Exists())

	require.NoError(t, f.orch.Reset())
	assert.False(t, f.repo.Exists())
	assert.Equal(t, StateIdle, f.orch.State())
	assert.Nil(t, f.orch.LastScan())

	assert.Equal(t, 1, f.scan(t).Diff.Counts.New)
}

func TestRebuildIndex(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, afero.WriteFile(f.fs, "/audio/de/Z/Record_9_Raid_male_Boss.mp3", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(f.fs, "/audio/de/Z/cover.png", []byte("x"), 0o644))

	report, err := f.orch.RebuildIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Indexed)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, f.orch.Artifacts(9), 1)

	persisted, err := f.store.Load("de")
	require.NoError(t, err)
	assert.True(t, persisted.IsAlreadyPresent(9, models.VariantMale))
}

func TestStatus(t *testing.T) {
	f := newFixture(t, Options{}, quest(1, "A", "Z"))
	assert.Equal(t, StateIdle, f.orch.Status().State)

	scan := f.scan(t)
	st := f.orch.Status()
	require.NotNil(t, st.Pending)
	assert.Equal(t, 1, st.Pending.New)
	assert.Nil(t, st.Meta)

	f.apply(t, scan, ApplyOptions{OnlyNewAndChanged: true})
	st = f.orch.Status()
	assert.Equal(t, StateApplied, st.State)
	assert.Nil(t, st.Pending)
	require.NotNil(t, st.LastApply)
	require.NotNil(t, st.Meta)
	assert.Equal(t, 2, st.Artifacts)
}

func TestSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleep(context.Background(), time.Millisecond))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "applying", StateApplying.String())
	assert.Equal(t, "unknown", State(42).String())

	var st State
	require.NoError(t, st.UnmarshalText([]byte("scanned")))
	assert.Equal(t, StateScanned, st)
	assert.Error(t, st.UnmarshalText([]byte("sleeping")))
}

func TestConfig(t *testing.T) {
	cfg := Config{
		AudioRoot:         "/a",
		LanguageCode:      "de",
		Variants:          "Female, male,female",
		Workers:           3,
		DelayMillis:       250,
		CacheTTLSeconds:   -5,
		OnlyNewAndChanged: true,
		AutoExport:        true,
	}
	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, []models.Variant{models.VariantFemale, models.VariantMale}, opts.Variants)
	assert.Equal(t, 250*time.Millisecond, opts.Delay)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, time.Duration(-1), cfg.CacheTTL())
	assert.Equal(t, ApplyOptions{OnlyNewAndChanged: true, AutoExport: true}, cfg.ApplyOptions())

	cfg.Variants = "robot"
	_, err = cfg.Options()
	assert.Error(t, err)

	cfg.CacheTTLSeconds = 10
	assert.Equal(t, 10*time.Second, cfg.CacheTTL())
}
