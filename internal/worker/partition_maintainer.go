package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// OrderPartitioner creates monthly order partitions ahead of time.
type OrderPartitioner interface {
	EnsureOrderPartitions(ctx context.Context, at time.Time, ahead int) error
}

// PartitionMaintainer keeps partitions for the current and upcoming months in place so
// purchases do not create them under load.
type PartitionMaintainer struct {
	partitioner OrderPartitioner
	interval    time.Duration
	ahead       int
	now         func() time.Time
	logger      *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPartitionMaintainer constructs the maintainer.
func NewPartitionMaintainer(partitioner OrderPartitioner, interval time.Duration, ahead int, logger *slog.Logger) *PartitionMaintainer {
	if interval <= 0 {
		interval = time.Hour
	}
	if ahead < 0 {
		ahead = 0
	}
	return &PartitionMaintainer{
		partitioner: partitioner,
		interval:    interval,
		ahead:       ahead,
		now:         time.Now,
		logger:      logger,
	}
}

// Start runs one maintenance pass right away and then one per interval.
func (p *PartitionMaintainer) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.loop(runCtx)
}

// Stop waits for the running pass to finish.
func (p *PartitionMaintainer) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PartitionMaintainer) loop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.maintain(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.maintain(ctx)
		}
	}
}

func (p *PartitionMaintainer) maintain(ctx context.Context) {
	at := p.now().UTC()
	if err := p.partitioner.EnsureOrderPartitions(ctx, at, p.ahead); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error("ensure order partitions failed", slog.String("error", err.Error()))
		return
	}
	p.logger.Debug("order partitions ensured", slog.Time("from", at), slog.Int("ahead", p.ahead))
}
