package syncer

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quest-sync/core/artifact"
	"quest-sync/core/models"
	"quest-sync/core/snapshot"
	"quest-sync/core/synth"
	"quest-sync/core/utils"
)

// Apply synthesizes the regeneration set of scan and commits its snapshot.
// Per-record failures are collected and do not stop the batch. The snapshot is
// committed unless the context is cancelled or the provider is not configured.
func (o *Orchestrator) Apply(ctx context.Context, scan *ScanResult, opts ApplyOptions) (*ApplyResult, error) {
	if ctx == nil || scan == nil {
		return nil, fmt.Errorf("%w: context and scan are required", ErrInvalidArgument)
	}

	o.mu.Lock()
	if o.state.busy() {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	if scan != o.last || o.consumed || scan.pending == nil {
		o.mu.Unlock()
		return nil, ErrNoScan
	}
	o.state = StateApplying
	o.mu.Unlock()

	res := &ApplyResult{
		StartedAt:   o.deps.Clock.Now().UTC(),
		DataVersion: scan.pending.DataVersion,
	}
	work, skipped := o.plan(scan, opts)
	res.Selected = len(work)
	res.Skipped = skipped

	if len(work) > 0 && !o.deps.Synthesizer.IsConfigured() {
		res.Error = synth.ErrNotConfigured.Error()
		return o.finishApply(res, StateFailed, false), nil
	}

	t := o.run(ctx, scan, work)
	res.Synthesized = t.synthesized
	res.Skipped += t.skipped
	res.Failures = t.failures

	if err := ctx.Err(); err != nil {
		res.Cancelled = true
		res.Error = "apply cancelled before commit: " + err.Error()
		o.persistIndex("persist artifact index after cancellation")
		return o.finishApply(res, StateIdle, true), nil
	}

	o.persistIndex("persist artifact index")

	total := res.Synthesized
	if prev := o.deps.Repository.LoadMeta(); prev != nil {
		total += prev.TotalArtifactsGenerated
	}
	meta := &snapshot.Meta{
		LastDataVersion:         scan.pending.DataVersion,
		LastSyncAt:              o.deps.Clock.Now().UTC(),
		LanguageCode:            o.opts.LanguageCode,
		TotalArtifactsGenerated: total,
	}
	if err := o.deps.Repository.Commit(scan.pending, meta); err != nil {
		res.Error = fmt.Sprintf("commit snapshot: %v", err)
		return o.finishApply(res, StateFailed, true), nil
	}
	res.Committed = true
	o.deps.Reconciler.Invalidate()

	if opts.AutoExport && o.deps.Exporter != nil && len(t.written) > 0 {
		batch := ExportBatch{LanguageCode: o.opts.LanguageCode, Root: o.LanguageRoot(), Entries: t.written}
		res.Exported = utils.BestEffort(o.deps.Logger, "export artifacts downstream", func() error {
			return o.deps.Exporter.Export(ctx, batch)
		})
	}

	res.Success = len(res.Failures) == 0
	if !res.Success {
		res.Error = fmt.Sprintf("%d synthesis call(s) failed", len(res.Failures))
	}
	return o.finishApply(res, StateApplied, true), nil
}

// Plan returns the regeneration set Apply would process, without side effects.
func (o *Orchestrator) Plan(scan *ScanResult, opts ApplyOptions) []Candidate {
	if scan == nil || scan.Diff == nil {
		return nil
	}
	work, _ := o.plan(scan, opts)
	return work
}

func (o *Orchestrator) plan(scan *ScanResult, opts ApplyOptions) ([]Candidate, int) {
	var filter map[int]bool
	if len(opts.IDs) > 0 {
		filter = make(map[int]bool, len(opts.IDs))
		for _, id := range opts.IDs {
			filter[id] = true
		}
	}

	var work []Candidate
	skipped := 0
	for _, e := range scan.Diff.Entries {
		if e.DiffType == snapshot.DiffRemoved {
			continue
		}
		if filter != nil && !filter[e.QuestID] {
			continue
		}

		var variants []models.Variant
		switch e.DiffType {
		case snapshot.DiffNew, snapshot.DiffChanged:
			variants = o.opts.Variants
		case snapshot.DiffUnchanged:
			if opts.OnlyNewAndChanged && !opts.RepairMissing {
				continue
			}
			variants = o.missingVariants(e.QuestID)
			skipped += len(o.opts.Variants) - len(variants)
		}
		if len(variants) == 0 {
			continue
		}
		work = append(work, Candidate{
			QuestID:  e.QuestID,
			Title:    e.Title,
			Zone:     e.Zone,
			DiffType: e.DiffType,
			Variants: variants,
		})
	}
	return work, skipped
}

// missingVariants consults the index and the disk; both must agree an artifact exists.
func (o *Orchestrator) missingVariants(id int) []models.Variant {
	root := o.LanguageRoot()
	var missing []models.Variant
	for _, v := range o.opts.Variants {
		e, ok := o.deps.Index.Get(id, v)
		if !ok || !artifact.Exists(o.deps.Fs, root, e) {
			missing = append(missing, v)
		}
	}
	return missing
}

type tally struct {
	mu          sync.Mutex
	synthesized int
	skipped     int
	failures    []Failure
	written     []artifact.Entry
}

func (t *tally) fail(id int, v models.Variant, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures = append(t.failures, Failure{QuestID: id, Variant: v, Error: err.Error()})
}

func (t *tally) skip() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.skipped++
}

func (t *tally) done(e artifact.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.synthesized++
	t.written = append(t.written, e)
}

func (o *Orchestrator) run(ctx context.Context, scan *ScanResult, work []Candidate) *tally {
	t := &tally{}
	var calls atomic.Int64

	var g errgroup.Group
	g.SetLimit(o.opts.Workers)
	for _, c := range work {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			o.process(ctx, scan, c, t, &calls)
			return nil
		})
	}
	_ = g.Wait()
	return t
}

func (o *Orchestrator) process(ctx context.Context, scan *ScanResult, c Candidate, t *tally, calls *atomic.Int64) {
	q, ok := scan.Record(c.QuestID)
	if !ok {
		t.fail(c.QuestID, "", fmt.Errorf("record %d missing from scan", c.QuestID))
		return
	}
	text := synth.NarrationText(q)
	if text == "" {
		o.deps.Logger.Debug("Skipping quest without text", zap.Int("quest_id", q.ID))
		t.skip()
		return
	}

	for _, v := range c.Variants {
		if ctx.Err() != nil {
			return
		}
		if calls.Add(1) > 1 {
			if err := sleep(ctx, o.opts.Delay); err != nil {
				return
			}
		}

		audio, err := o.deps.Synthesizer.Synthesize(ctx, synth.Request{
			QuestID:      q.ID,
			Text:         text,
			Variant:      v,
			LanguageCode: o.opts.LanguageCode,
		})
		if err != nil {
			if isCancellation(err) && ctx.Err() != nil {
				return
			}
			o.deps.Logger.Warn("Synthesis failed",
				zap.Int("quest_id", q.ID),
				zap.String("variant", string(v)),
				zap.Error(err),
			)
			t.fail(q.ID, v, err)
			continue
		}

		entry, err := o.writeArtifact(q, v, audio)
		if err != nil {
			o.deps.Logger.Warn("Failed to store artifact", zap.Int("quest_id", q.ID), zap.Error(err))
			t.fail(q.ID, v, err)
			continue
		}
		t.done(entry)
	}
}

// writeArtifact stores audio on disk and upserts the index entry.
func (o *Orchestrator) writeArtifact(q models.Quest, v models.Variant, audio *synth.Audio) (artifact.Entry, error) {
	ext := o.opts.Ext
	if ext == "" {
		ext = audio.Ext
	}
	if ext == "" {
		ext = "mp3"
	}
	root := o.LanguageRoot()
	rel := artifact.RelativePath(q, v, ext)
	full := filepath.Join(root, filepath.FromSlash(rel))

	if err := o.deps.Fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return artifact.Entry{}, fmt.Errorf("create artifact directory: %w", err)
	}
	if err := afero.WriteFile(o.deps.Fs, full, audio.Data, 0o644); err != nil {
		return artifact.Entry{}, fmt.Errorf("write artifact: %w", err)
	}

	if old, ok := o.deps.Index.Get(q.ID, v); ok && old.RelativePath != rel {
		utils.BestEffort(o.deps.Logger, "remove superseded artifact", func() error {
			return o.deps.Fs.Remove(filepath.Join(root, filepath.FromSlash(old.RelativePath)))
		})
	}

	size := int64(len(audio.Data))
	entry := artifact.Entry{
		QuestID:       q.ID,
		Zone:          q.Zone,
		IsMainStory:   q.IsMainStory,
		Gender:        v,
		RelativePath:  rel,
		Title:         q.Title,
		Category:      q.Category,
		FileSizeBytes: &size,
	}
	o.deps.Index.Update(entry)
	return entry, nil
}

func (o *Orchestrator) persistIndex(action string) {
	if o.deps.IndexStore == nil {
		return
	}
	utils.BestEffort(o.deps.Logger, action, func() error {
		return o.deps.IndexStore.Save(o.deps.Index)
	})
}

func (o *Orchestrator) finishApply(res *ApplyResult, next State, consumed bool) *ApplyResult {
	res.FinishedAt = o.deps.Clock.Now().UTC()

	o.mu.Lock()
	o.state = next
	if consumed {
		o.consumed = true
	}
	o.lastApply = res
	o.mu.Unlock()

	o.deps.Logger.Info("Apply finished",
		zap.Bool("success", res.Success),
		zap.Bool("committed", res.Committed),
		zap.Bool("cancelled", res.Cancelled),
		zap.Int("selected", res.Selected),
		zap.Int("synthesized", res.Synthesized),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", len(res.Failures)),
	)
	return res
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
