package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs the background loop that delivers due reminders.
type Scheduler struct {
	store         Store
	dispatcher    *Dispatcher
	interval      time.Duration
	batchSize     int
	running       bool
	stopCh        chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
	logger        *slog.Logger
	processedChan chan int // For testing: reports processed count
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	Interval  time.Duration // How often to check for due reminders
	BatchSize int           // Max reminders to process per cycle
}

// DefaultSchedulerConfig returns default scheduler configuration.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:  30 * time.Second,
		BatchSize: 100,
	}
}

// NewScheduler creates a new reminder scheduler.
func NewScheduler(store Store, dispatcher *Dispatcher, config SchedulerConfig) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = 30 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}

	return &Scheduler{
		store:      store,
		dispatcher: dispatcher,
		interval:   config.Interval,
		batchSize:  config.BatchSize,
		stopCh:     make(chan struct{}),
		logger:     slog.Default(),
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("review reminder scheduler started", "interval", s.interval)
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("review reminder scheduler stopped")
}

// IsRunning returns whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// EnableTestMode enables test mode with a channel for processed counts.
func (s *Scheduler) EnableTestMode() <-chan int {
	s.processedChan = make(chan int, 100)
	return s.processedChan
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Process immediately on start
	s.processCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.processCycle(ctx)
		}
	}
}

// processCycle runs one cycle of reminder delivery.
func (s *Scheduler) processCycle(ctx context.Context) {
	processed, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("failed to process due reminders", "error", err)
		return
	}

	if processed > 0 {
		s.logger.Info("processed due reminders", "count", processed)
	}

	if s.processedChan != nil {
		select {
		case s.processedChan <- processed:
		default:
			// Don't block if channel is full
		}
	}
}

// RunOnce delivers all currently due reminders and returns how many were
// dispatched. Each reminder is independent: a failing one is marked FAILED
// and never blocks its siblings.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	now := nowFunc().Unix()
	due, err := s.store.GetDueReminders(ctx, now, s.batchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, reminder := range due {
		select {
		case <-ctx.Done():
			return processed, ctx.Err()
		default:
		}

		if err := s.dispatcher.Dispatch(ctx, reminder); err != nil {
			if markErr := s.store.MarkFailed(ctx, reminder.ID); markErr != nil {
				s.logger.Error("failed to mark reminder failed", "reminder_id", reminder.ID, "error", markErr)
			}
			continue
		}

		if err := s.store.MarkSent(ctx, reminder.ID, nowFunc().Unix()); err != nil {
			s.logger.Error("failed to mark reminder sent", "reminder_id", reminder.ID, "error", err)
			continue
		}
		processed++
	}

	return processed, nil
}
