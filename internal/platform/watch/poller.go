package watch

import (
	"context"
	"sync"
	"time"

	"Mansoor88-6/launcher-kit/internal/platform"

	"go.uber.org/zap"
)

// SnapshotFunc returns the identifiers of every installed package
type SnapshotFunc func(ctx context.Context) (map[string]struct{}, error)

type registration struct {
	filter   platform.IntentFilter
	receiver platform.Receiver
}

// Poller turns periodic package snapshots into package broadcasts.
// It implements platform.BroadcastRegistrar and only polls while at least
// one receiver is registered.
type Poller struct {
	snapshot     SnapshotFunc
	pollInterval time.Duration
	logger       *zap.Logger

	mu        sync.Mutex
	receivers []registration
	known     map[string]struct{}
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewPoller creates a new package poller
func NewPoller(snapshot SnapshotFunc, pollInterval time.Duration, logger *zap.Logger) *Poller {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Poller{
		snapshot:     snapshot,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// RegisterReceiver arms a receiver. Registering the same receiver again
// replaces its filter.
func (p *Poller) RegisterReceiver(filter platform.IntentFilter, receiver platform.Receiver) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, r := range p.receivers {
		if r.receiver == receiver {
			p.receivers[i].filter = filter
			return nil
		}
	}
	p.receivers = append(p.receivers, registration{filter: filter, receiver: receiver})

	if p.stopChan == nil {
		p.startLocked()
	}
	return nil
}

// UnregisterReceiver disarms a receiver
func (p *Poller) UnregisterReceiver(receiver platform.Receiver) error {
	p.mu.Lock()
	idx := -1
	for i, r := range p.receivers {
		if r.receiver == receiver {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.mu.Unlock()
		return platform.ErrReceiverNotRegistered
	}
	p.receivers = append(p.receivers[:idx], p.receivers[idx+1:]...)

	var stop chan struct{}
	if len(p.receivers) == 0 && p.stopChan != nil {
		stop = p.stopChan
		p.stopChan = nil
		p.known = nil
	}
	p.mu.Unlock()

	if stop != nil {
		close(stop)
		p.wg.Wait()
		p.logger.Debug("Package poller stopped")
	}
	return nil
}

// Close stops polling and drops every receiver
func (p *Poller) Close() {
	p.mu.Lock()
	p.receivers = nil
	stop := p.stopChan
	p.stopChan = nil
	p.known = nil
	p.mu.Unlock()

	if stop != nil {
		close(stop)
		p.wg.Wait()
	}
}

func (p *Poller) startLocked() {
	stop := make(chan struct{})
	p.stopChan = stop
	p.known = nil
	p.wg.Add(1)
	go p.pollLoop(stop)

	p.logger.Debug("Package poller started",
		zap.Duration("poll_interval", p.pollInterval),
	)
}

func (p *Poller) pollLoop(stop chan struct{}) {
	defer p.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Initial poll sets the baseline
	p.Poll(ctx)

	for {
		select {
		case <-ticker.C:
			p.Poll(ctx)
		case <-stop:
			return
		}
	}
}

// Poll takes one snapshot and dispatches broadcasts for the differences
// against the previous one. The first snapshot only sets the baseline.
func (p *Poller) Poll(ctx context.Context) {
	current, err := p.snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("Failed to snapshot installed packages",
				zap.Error(err),
				zap.String("kind", string(platform.KindOf(err))),
			)
		}
		return
	}

	// Check again after potentially slow operation
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	previous := p.known
	p.known = current
	receivers := make([]registration, len(p.receivers))
	copy(receivers, p.receivers)
	p.mu.Unlock()

	if previous == nil {
		return
	}

	for _, b := range diff(previous, current) {
		p.logger.Debug("Package change detected",
			zap.String("action", b.Action),
			zap.String("data", b.Data),
		)
		for _, r := range receivers {
			if r.filter.Matches(b) {
				r.receiver.OnReceive(ctx, b)
			}
		}
	}
}

func diff(previous, current map[string]struct{}) []platform.Broadcast {
	var out []platform.Broadcast
	for id := range previous {
		if _, ok := current[id]; !ok {
			out = append(out, platform.PackageBroadcast(platform.ActionPackageRemoved, id))
		}
	}
	for id := range current {
		if _, ok := previous[id]; !ok {
			out = append(out, platform.PackageBroadcast(platform.ActionPackageAdded, id))
		}
	}
	return out
}
