package syncer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"quest-sync/core/artifact"
	"quest-sync/core/models"
	"quest-sync/core/reconcile"
	"quest-sync/core/snapshot"
	"quest-sync/core/synth"
	"quest-sync/core/utils"
)

// Deps are the collaborators of an Orchestrator. They are constructed once by
// the caller and shared by reference.
type Deps struct {
	Reconciler  *reconcile.Reconciler
	Repository  *snapshot.Repository
	Index       *artifact.Index
	Synthesizer synth.Synthesizer
	Fs          afero.Fs

	// Optional.
	Engine     *snapshot.Engine
	IndexStore *artifact.Store
	Exporter   Exporter
	Clock      utils.Clock
	Logger     *zap.Logger
}

// Orchestrator owns one Scan -> Apply cycle at a time.
type Orchestrator struct {
	deps Deps
	opts Options

	mu        sync.Mutex
	state     State
	last      *ScanResult
	lastApply *ApplyResult
	consumed  bool
}

// New validates deps and creates an Orchestrator.
func New(deps Deps, opts Options) (*Orchestrator, error) {
	switch {
	case deps.Reconciler == nil:
		return nil, fmt.Errorf("%w: reconciler is required", ErrInvalidArgument)
	case deps.Repository == nil:
		return nil, fmt.Errorf("%w: snapshot repository is required", ErrInvalidArgument)
	case deps.Index == nil:
		return nil, fmt.Errorf("%w: artifact index is required", ErrInvalidArgument)
	case deps.Synthesizer == nil:
		return nil, fmt.Errorf("%w: synthesizer is required", ErrInvalidArgument)
	case deps.Fs == nil:
		return nil, fmt.Errorf("%w: filesystem is required", ErrInvalidArgument)
	case opts.LanguageCode == "":
		return nil, fmt.Errorf("%w: language code is required", ErrInvalidArgument)
	}
	if deps.Clock == nil {
		deps.Clock = utils.RealClock{}
	}
	if deps.Engine == nil {
		deps.Engine = snapshot.NewEngine(deps.Clock)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if len(opts.Variants) == 0 {
		opts.Variants = []models.Variant{models.VariantMale, models.VariantFemale}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Orchestrator{deps: deps, opts: opts, state: StateIdle}, nil
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastScan returns the most recent successful scan, or nil.
func (o *Orchestrator) LastScan() *ScanResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// LanguageRoot is the directory holding this language's artifacts.
func (o *Orchestrator) LanguageRoot() string {
	return filepath.Join(o.opts.AudioRoot, o.opts.LanguageCode)
}

// Status reports state, pending diff counts and persisted metadata.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	st := Status{
		State:        o.state,
		LanguageCode: o.opts.LanguageCode,
		LastApply:    o.lastApply,
	}
	if o.last != nil && !o.consumed {
		counts := o.last.Diff.Counts
		at := o.last.FinishedAt
		st.Pending = &counts
		st.LastScanAt = &at
	}
	o.mu.Unlock()

	st.Meta = o.deps.Repository.LoadMeta()
	st.Artifacts = o.deps.Index.Len()
	return st
}

// Scan reconciles both sources and diffs them against the committed snapshot.
// Nothing is persisted. A failed or cancelled scan is reported in the result.
func (o *Orchestrator) Scan(ctx context.Context) (*ScanResult, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: nil context", ErrInvalidArgument)
	}
	if err := o.begin(StateScanning); err != nil {
		return nil, err
	}

	res := &ScanResult{StartedAt: o.deps.Clock.Now().UTC()}
	finish := func(next State) (*ScanResult, error) {
		res.FinishedAt = o.deps.Clock.Now().UTC()
		o.mu.Lock()
		o.state = next
		if res.Success {
			o.last = res
			o.consumed = false
		}
		o.mu.Unlock()
		return res, nil
	}

	previous := o.deps.Repository.Load()

	built, err := o.deps.Reconciler.Refresh(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.Cancelled = true
		res.Error = ctxErr.Error()
		o.deps.Logger.Info("Scan cancelled")
		return finish(StateIdle)
	}
	if err != nil {
		res.Error = fmt.Sprintf("reconcile sources: %v", err)
		o.deps.Logger.Error("Scan failed", zap.Error(err))
		return finish(StateIdle)
	}

	diff, pending := o.deps.Engine.Compute(built.Records, previous, o.opts.LanguageCode)
	records := make(map[int]models.Quest, len(built.Records))
	for _, q := range built.Records {
		records[q.ID] = q
	}

	res.Success = true
	res.Summary = built.Summary
	res.Diff = diff
	res.pending = pending
	res.records = records

	o.deps.Logger.Info("Scan completed",
		zap.String("language", o.opts.LanguageCode),
		zap.String("old_version", diff.OldDataVersion),
		zap.String("new_version", diff.NewDataVersion),
		zap.Int("new", diff.Counts.New),
		zap.Int("changed", diff.Counts.Changed),
		zap.Int("removed", diff.Counts.Removed),
		zap.Int("unchanged", diff.Counts.Unchanged),
	)
	return finish(StateScanned)
}

// Reset deletes the committed snapshot so the next Scan treats everything as New.
func (o *Orchestrator) Reset() error {
	if err := o.begin(StateIdle); err != nil {
		return err
	}
	defer o.deps.Reconciler.Invalidate()

	o.mu.Lock()
	o.last = nil
	o.lastApply = nil
	o.consumed = false
	o.mu.Unlock()

	if err := o.deps.Repository.Delete(); err != nil {
		return fmt.Errorf("reset snapshot: %w", err)
	}
	o.deps.Logger.Info("Snapshot reset", zap.String("language", o.opts.LanguageCode))
	return nil
}

// RebuildIndex rescans the language directory and persists the index.
func (o *Orchestrator) RebuildIndex() (artifact.ScanReport, error) {
	o.mu.Lock()
	if o.state.busy() {
		o.mu.Unlock()
		return artifact.ScanReport{}, ErrBusy
	}
	o.mu.Unlock()

	report, err := o.deps.Index.Rebuild(o.deps.Fs, o.LanguageRoot())
	if err != nil {
		return report, err
	}
	if o.deps.IndexStore != nil {
		if err := o.deps.IndexStore.Save(o.deps.Index); err != nil {
			return report, fmt.Errorf("save artifact index: %w", err)
		}
	}
	o.deps.Logger.Info("Artifact index rebuilt",
		zap.Int("indexed", report.Indexed),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// Artifacts returns the indexed artifacts of one record.
func (o *Orchestrator) Artifacts(id int) []artifact.Entry {
	return o.deps.Index.ForRecord(id)
}

// begin moves to next unless an operation is running.
func (o *Orchestrator) begin(next State) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.busy() {
		return ErrBusy
	}
	o.state = next
	return nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
