package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	appctx "github.com/Ramsey-B/backoffice/pkg/context"
	"github.com/Ramsey-B/backoffice/pkg/kafka"
	"github.com/Ramsey-B/backoffice/pkg/metrics"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

const DefaultLockKey = "import:merchants"

var (
	// ErrFeed wraps a failure to fetch the merchant feed.
	ErrFeed = errors.New("fetch merchants")
	// ErrAborted wraps the failure that stopped a run through StopOn.
	ErrAborted = errors.New("import aborted")
)

// DriverConfig is everything one run needs. Nothing is read from globals.
type DriverConfig struct {
	Store  Store
	Feed   Feed
	Policy OnConflict
	// Reset truncates every import table before the first merchant.
	Reset bool
	// CloseStore closes the store when the run ends, as the one-shot command does.
	CloseStore bool
	// StopOn lists failure kinds that abort the remaining merchants. Defaults to canceled only.
	StopOn []FailureKind
	Locker  Locker
	LockKey string
	LockTTL time.Duration
	Events  EventPublisher
	Logger  ectologger.Logger
}

// Driver runs a full import: fetch, optional reset, then one merchant at a time.
type Driver struct {
	cfg          DriverConfig
	orchestrator *Orchestrator
	stopOn       map[FailureKind]bool
}

func NewDriver(cfg DriverConfig) (*Driver, error) {
	if cfg.Store == nil {
		return nil, errors.New("import driver requires a store")
	}
	if cfg.Feed == nil {
		return nil, errors.New("import driver requires a feed")
	}
	if cfg.Logger == nil {
		return nil, errors.New("import driver requires a logger")
	}
	orchestrator, err := NewOrchestrator(cfg.Store, cfg.Policy, cfg.Logger)
	if err != nil {
		return nil, err
	}
	if cfg.LockKey == "" {
		cfg.LockKey = DefaultLockKey
	}
	if cfg.LockTTL == 0 {
		cfg.LockTTL = 30 * time.Minute
	}

	stopOn := map[FailureKind]bool{FailureCanceled: true}
	for _, kind := range cfg.StopOn {
		stopOn[kind] = true
	}

	return &Driver{cfg: cfg, orchestrator: orchestrator, stopOn: stopOn}, nil
}

// Run executes one import. The returned error is set only for run level failures:
// lock contention, feed fetch, reset, or an abort requested through StopOn.
func (d *Driver) Run(ctx context.Context) (summary Summary, err error) {
	runID := uuid.New().String()
	ctx = appctx.SetImportRun(ctx, runID)
	summary = Summary{RunID: runID, Policy: d.cfg.Policy, Failures: []MerchantFailure{}}

	if d.cfg.CloseStore {
		defer func() {
			if cerr := d.cfg.Store.Close(); cerr != nil {
				d.cfg.Logger.WithContext(ctx).WithError(cerr).Warn("failed to close import store")
			}
		}()
	}

	if d.cfg.Locker == nil {
		err = d.run(ctx, &summary)
		return summary, err
	}

	err = d.cfg.Locker.WithLock(ctx, d.cfg.LockKey, d.cfg.LockTTL, func(ctx context.Context) error {
		return d.run(ctx, &summary)
	})
	return summary, err
}

func (d *Driver) run(ctx context.Context, summary *Summary) error {
	ctx, span := tracing.StartSpan(ctx, "Driver.Run")
	defer span.End()

	log := d.cfg.Logger.WithContext(ctx).WithFields(map[string]any{
		"import_run": summary.RunID,
		"policy":     d.cfg.Policy,
	})
	start := time.Now()
	defer func() {
		summary.Duration = time.Since(start)
		metrics.RecordImportRun(summary.Duration)
	}()

	merchants, err := d.cfg.Feed.Merchants(ctx)
	if err != nil {
		log.WithError(err).Error("failed to fetch merchants, aborting import")
		return fmt.Errorf("%w: %w", ErrFeed, err)
	}
	log.Infof("Fetched %d merchants", len(merchants))

	if d.cfg.Reset {
		if err := d.cfg.Store.Reset(ctx); err != nil {
			log.WithError(err).Error("failed to reset import tables, aborting import")
			return fmt.Errorf("reset import tables: %w", err)
		}
		log.Warn("Import tables truncated")
	}

	for i := range merchants {
		result := d.orchestrator.ImportMerchant(ctx, &merchants[i])
		summary.add(result)
		d.record(ctx, summary.RunID, result)

		if result.Failure != nil && d.stopOn[result.Failure.Kind] {
			summary.Aborted = true
			log.WithError(result.Failure).Errorf("Stopping import after %d of %d merchants", i+1, len(merchants))
			return fmt.Errorf("%w at merchant %s: %w", ErrAborted, result.MerchantSlug, result.Failure)
		}
	}

	log.WithFields(map[string]any{
		"total":    summary.Total,
		"imported": summary.Imported,
		"updated":  summary.Updated,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed,
		"warnings": summary.Warnings,
	}).Info("Import finished")
	return nil
}

func (d *Driver) record(ctx context.Context, runID string, result Result) {
	metrics.RecordImportMerchant(string(result.Outcome))
	for _, w := range result.Warnings {
		metrics.RecordImportFailure(string(w.Entity), string(w.Kind))
	}
	if result.Failure != nil {
		metrics.RecordImportFailure(string(result.Failure.Entity), string(result.Failure.Kind))
	}

	if d.cfg.Events == nil {
		return
	}

	evt := kafka.ImportEvent{
		Type:         "merchant." + string(result.Outcome),
		RunID:        runID,
		MerchantSlug: result.MerchantSlug,
	}
	if result.MerchantID != 0 {
		evt.MerchantID = fmt.Sprintf("%d", result.MerchantID)
	}
	for _, w := range result.Warnings {
		evt.Warnings = append(evt.Warnings, w.Error())
	}
	if result.Failure != nil {
		evt.Error = result.Failure.Error()
	}

	if err := d.cfg.Events.PublishImportEvent(ctx, evt); err != nil {
		d.cfg.Logger.WithContext(ctx).WithError(err).WithField("merchant_slug", result.MerchantSlug).
			Warn("failed to publish import event")
	}
}
