package taskstore

import (
	"context"
	"reflect"
	"time"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/config"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
)

// Source fetches the current issue set from wherever the orchestrator
// keeps it.
type Source interface {
	Fetch(ctx context.Context) ([]domain.TaskIssue, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]domain.TaskIssue, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]domain.TaskIssue, error) { return f(ctx) }

// Poller periodically fetches the issue set, persists it to the store,
// and fires the change callback when the snapshot differs from the
// previous one.
type Poller struct {
	source   Source
	store    *Store
	logger   *config.Logger
	interval time.Duration

	last      []domain.TaskIssue
	onChanged func([]domain.TaskIssue)
}

// NewPoller creates a poller. store and logger may be nil.
func NewPoller(source Source, store *Store, logger *config.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{source: source, store: store, logger: logger, interval: interval}
}

// OnChanged registers the snapshot-changed callback. It runs on the
// poller goroutine.
func (p *Poller) OnChanged(fn func([]domain.TaskIssue)) {
	p.onChanged = fn
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	issues, err := p.source.Fetch(ctx)
	if err != nil {
		p.logger.Printf("taskstore: poll: %v", err)
		return
	}
	if reflect.DeepEqual(issues, p.last) {
		return
	}
	p.last = issues

	if p.store != nil {
		if err := p.store.ReplaceAll(issues); err != nil {
			p.logger.Printf("taskstore: persist snapshot: %v", err)
		}
	}
	if p.onChanged != nil {
		p.onChanged(issues)
	}
}
