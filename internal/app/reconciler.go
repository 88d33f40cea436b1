package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/clock"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/metrics"
)

const DefaultAutoCloseGrace = 24 * time.Hour

type ReconcileRepository interface {
	ListOpenEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEventStatus(ctx context.Context, tenantID, eventID string, status domain.EventStatus) error
}

// Reconciler closes scheduled or in-progress events whose start plus the
// grace window has passed. Each event is written independently; a failed
// write is logged and left for the next pass.
type Reconciler struct {
	repo     ReconcileRepository
	clock    clock.Clock
	grace    time.Duration
	location *time.Location
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

type ReconcilerOption func(*Reconciler)

// WithAutoCloseGrace overrides the 24 hour window after an event's start.
func WithAutoCloseGrace(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		if d > 0 {
			r.grace = d
		}
	}
}

// WithLocation sets the zone event dates and times are written in.
func WithLocation(loc *time.Location) ReconcilerOption {
	return func(r *Reconciler) {
		if loc != nil {
			r.location = loc
		}
	}
}

func WithReconcilerLogger(logger *zap.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithReconcilerMetrics(m *metrics.Metrics) ReconcilerOption {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

func NewReconciler(repo ReconcileRepository, clk clock.Clock, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		repo:     repo,
		clock:    clk,
		grace:    DefaultAutoCloseGrace,
		location: time.UTC,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type ReconcileResult struct {
	Closed  []string
	Skipped int
	Failed  int
}

// Reconcile closes expired events and returns the slice with the new statuses
// applied. Events whose write failed keep their old status.
func (r *Reconciler) Reconcile(ctx context.Context, events []domain.Event) ([]domain.Event, ReconcileResult) {
	r.metrics.ReconcileRun()
	now := r.clock.Now()

	var res ReconcileResult
	out := make([]domain.Event, len(events))
	copy(out, events)

	for i := range out {
		event := &out[i]
		if event.Status != domain.EventStatusScheduled && event.Status != domain.EventStatusInProgress {
			continue
		}
		if _, ok := event.StartsAt(r.location); !ok {
			res.Skipped++
			r.metrics.Reconciled("skipped")
			continue
		}
		if !event.Expired(now, r.grace, r.location) {
			continue
		}

		if err := r.repo.UpdateEventStatus(ctx, event.TenantID, event.ID, domain.EventStatusClosed); err != nil {
			res.Failed++
			r.metrics.Reconciled("failed")
			r.logger.Warn("auto-close failed",
				zap.String("tenant_id", event.TenantID),
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		event.Status = domain.EventStatusClosed
		res.Closed = append(res.Closed, event.ID)
		r.metrics.Reconciled("closed")
	}

	if len(res.Closed) > 0 || res.Failed > 0 {
		r.logger.Info("reconciliation pass",
			zap.Int("closed", len(res.Closed)),
			zap.Int("skipped", res.Skipped),
			zap.Int("failed", res.Failed),
		)
	}
	return out, res
}

// ReconcileAll runs a pass over every open event of every tenant.
func (r *Reconciler) ReconcileAll(ctx context.Context) (ReconcileResult, error) {
	events, err := r.repo.ListOpenEvents(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}
	_, res := r.Reconcile(ctx, events)
	return res, nil
}

// Run reconciles every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.ReconcileAll(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("background reconciliation failed", zap.Error(err))
			}
		}
	}
}
