package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Mishleyn/T-Prep/store"
)

// memoryStore is an in-memory Store for scheduler tests.
type memoryStore struct {
	mu        sync.Mutex
	reminders map[int32]*store.ReviewReminder
}

func newMemoryStore() *memoryStore {
	return &memoryStore{reminders: make(map[int32]*store.ReviewReminder)}
}

func (m *memoryStore) add(r *store.ReviewReminder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[r.ID] = r
}

func (m *memoryStore) GetDueReminders(_ context.Context, before int64, limit int) ([]*store.ReviewReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var due []*store.ReviewReminder
	for _, r := range m.reminders {
		if r.Status == store.ReminderStatusPending && r.FireAt <= before && len(due) < limit {
			due = append(due, r)
		}
	}
	return due, nil
}

func (m *memoryStore) MarkSent(_ context.Context, id int32, sentTs int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.reminders[id]
	r.Status = store.ReminderStatusSent
	r.SentTs = &sentTs
	return nil
}

func (m *memoryStore) MarkFailed(_ context.Context, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[id].Status = store.ReminderStatusFailed
	return nil
}

func (m *memoryStore) status(id int32) store.ReminderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reminders[id].Status
}

type failingSender struct {
	failFor map[int32]bool
	sent    []int32
}

func (s *failingSender) Send(_ context.Context, r *store.ReviewReminder) error {
	if s.failFor[r.ID] {
		return errors.New("channel unavailable")
	}
	s.sent = append(s.sent, r.ID)
	return nil
}

func (s *failingSender) Name() string { return "fake" }

func TestRunOnceDeliversDueReminders(t *testing.T) {
	ms := newMemoryStore()
	now := time.Now().Unix()
	ms.add(&store.ReviewReminder{ID: 1, QuestionID: 7, Stage: 1, FireAt: now - 10, Status: store.ReminderStatusPending})
	ms.add(&store.ReviewReminder{ID: 2, QuestionID: 7, Stage: 2, FireAt: now + 3600, Status: store.ReminderStatusPending})

	sender := &failingSender{}
	dispatcher := NewDispatcher()
	dispatcher.Register(ChannelLog, sender)

	sched := NewScheduler(ms, dispatcher, DefaultSchedulerConfig())
	processed, err := sched.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	require.Equal(t, store.ReminderStatusSent, ms.status(1))
	require.Equal(t, store.ReminderStatusPending, ms.status(2))
	require.Equal(t, []int32{1}, sender.sent)
}

func TestRunOnceFailureDoesNotBlockSiblings(t *testing.T) {
	ms := newMemoryStore()
	now := time.Now().Unix()
	ms.add(&store.ReviewReminder{ID: 1, QuestionID: 7, Stage: 1, FireAt: now - 20, Status: store.ReminderStatusPending})
	ms.add(&store.ReviewReminder{ID: 2, QuestionID: 7, Stage: 2, FireAt: now - 10, Status: store.ReminderStatusPending})

	sender := &failingSender{failFor: map[int32]bool{1: true}}
	dispatcher := NewDispatcher()
	dispatcher.Register(ChannelLog, sender)

	sched := NewScheduler(ms, dispatcher, DefaultSchedulerConfig())
	processed, err := sched.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	require.Equal(t, store.ReminderStatusFailed, ms.status(1))
	require.Equal(t, store.ReminderStatusSent, ms.status(2))
}

func TestSchedulerStartStop(t *testing.T) {
	ms := newMemoryStore()
	dispatcher := NewDispatcher()
	dispatcher.Register(ChannelLog, NewLogSender(nil))

	sched := NewScheduler(ms, dispatcher, SchedulerConfig{Interval: 10 * time.Millisecond})
	processedCh := sched.EnableTestMode()

	sched.Start(context.Background())
	require.True(t, sched.IsRunning())

	select {
	case <-processedCh:
	case <-time.After(time.Second):
		t.Fatal("scheduler never ran a cycle")
	}

	sched.Stop()
	require.False(t, sched.IsRunning())

	// Stop is idempotent.
	sched.Stop()
}

func TestCancelledRemindersAreSkipped(t *testing.T) {
	ms := newMemoryStore()
	now := time.Now().Unix()
	ms.add(&store.ReviewReminder{ID: 1, QuestionID: 7, Stage: 1, FireAt: now - 10, Status: store.ReminderStatusCancelled})

	sender := &failingSender{}
	dispatcher := NewDispatcher()
	dispatcher.Register(ChannelLog, sender)

	sched := NewScheduler(ms, dispatcher, DefaultSchedulerConfig())
	processed, err := sched.RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, processed)
	require.Empty(t, sender.sent)
}
