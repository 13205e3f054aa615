package collector

import (
	"encoding/json"
	"sync"
	"time"

	"Mansoor88-6/launcher-kit/internal/models"

	"go.uber.org/zap"
)

// EventCollector batches emitted app events for the journal
type EventCollector struct {
	deviceID      string
	events        []models.AppEvent
	batchSize     int
	flushInterval time.Duration
	onBatchReady  func([]models.AppEvent)
	logger        *zap.Logger
	mu            sync.Mutex
	stopChan      chan struct{}
	wg            sync.WaitGroup
}

// NewEventCollector creates a new event collector
func NewEventCollector(
	deviceID string,
	batchSize int,
	flushInterval time.Duration,
	logger *zap.Logger,
) *EventCollector {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &EventCollector{
		deviceID:      deviceID,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		logger:        logger,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the event collector with auto-flush
func (ec *EventCollector) Start(onBatchReady func([]models.AppEvent)) {
	ec.mu.Lock()
	ec.onBatchReady = onBatchReady
	ec.mu.Unlock()

	if ec.flushInterval > 0 {
		ec.wg.Add(1)
		go ec.autoFlushLoop()
	}

	ec.logger.Info("Event collector started",
		zap.Int("batch_size", ec.batchSize),
		zap.Duration("flush_interval", ec.flushInterval),
	)
}

// Stop stops the collector and flushes what is pending
func (ec *EventCollector) Stop() {
	ec.mu.Lock()
	select {
	case <-ec.stopChan:
		ec.mu.Unlock()
		return
	default:
		close(ec.stopChan)
	}
	ec.mu.Unlock()

	ec.wg.Wait()
	ec.Flush()

	ec.logger.Info("Event collector stopped")
}

// Observe records one emission. It has the shape of an events.Observer.
func (ec *EventCollector) Observe(event, payload string) {
	ec.AddEvent(models.AppEvent{
		DeviceID:    ec.deviceID,
		Event:       event,
		PackageName: packageNameOf(event, payload),
		Payload:     payload,
		CreatedAt:   time.Now(),
	})
}

// packageNameOf extracts the identifier from an event payload: the record's
// packageName for installs, the raw payload otherwise
func packageNameOf(event, payload string) string {
	if event != models.EventAppInstalled {
		return payload
	}
	var record models.AppRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return ""
	}
	return record.PackageName
}

// AddEvent adds a new event to the collection
func (ec *EventCollector) AddEvent(event models.AppEvent) {
	ec.mu.Lock()
	ec.events = append(ec.events, event)
	var batch []models.AppEvent
	if len(ec.events) >= ec.batchSize {
		batch = ec.takeLocked()
	}
	onBatchReady := ec.onBatchReady
	ec.mu.Unlock()

	if batch != nil {
		ec.logger.Debug("Batch size reached, flushing events",
			zap.Int("count", len(batch)),
		)
		if onBatchReady != nil {
			onBatchReady(batch)
		}
	}
}

// Flush manually flushes all pending events
func (ec *EventCollector) Flush() {
	ec.mu.Lock()
	if len(ec.events) == 0 {
		ec.mu.Unlock()
		return
	}
	batch := ec.takeLocked()
	onBatchReady := ec.onBatchReady
	ec.mu.Unlock()

	ec.logger.Debug("Flushing events",
		zap.Int("count", len(batch)),
	)
	if onBatchReady != nil {
		onBatchReady(batch)
	}
}

func (ec *EventCollector) takeLocked() []models.AppEvent {
	batch := make([]models.AppEvent, len(ec.events))
	copy(batch, ec.events)
	ec.events = ec.events[:0]
	return batch
}

// GetPendingCount returns the number of pending events
func (ec *EventCollector) GetPendingCount() int {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return len(ec.events)
}

func (ec *EventCollector) autoFlushLoop() {
	defer ec.wg.Done()

	ticker := time.NewTicker(ec.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ec.Flush()
		case <-ec.stopChan:
			return
		}
	}
}
