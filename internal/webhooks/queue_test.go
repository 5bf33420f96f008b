package webhooks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender fails deliveries for lead ids present in failFor.
type fakeSender struct {
	mu      sync.Mutex
	enabled bool
	failFor map[string]bool
	sent    []store.JSONB
}

func newFakeSender() *fakeSender {
	return &fakeSender{enabled: true, failFor: make(map[string]bool)}
}

func (f *fakeSender) Enabled() bool { return f.enabled }

func (f *fakeSender) Send(ctx context.Context, payload store.JSONB) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[payload["lead_id"].(string)] {
		return errors.New("received non-2xx status code: 500")
	}
	f.sent = append(f.sent, payload)
	return nil
}

// fakeFailureStore is an in-memory failed_deliveries table with the same
// bounded-append behavior as the real one.
type fakeFailureStore struct {
	mu      sync.Mutex
	entries []store.FailedDelivery
}

func (f *fakeFailureStore) CreateFailedDelivery(ctx context.Context, params store.CreateFailedDeliveryParams, maxEntries int) (store.FailedDelivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry := store.FailedDelivery{
		ID:            uuid.New(),
		LeadID:        params.LeadID,
		Destination:   params.Destination,
		Payload:       params.Payload,
		Reason:        params.Reason,
		FirstFailedAt: time.Now(),
	}
	f.entries = append(f.entries, entry)
	if maxEntries > 0 && len(f.entries) > maxEntries {
		sort.Slice(f.entries, func(i, j int) bool {
			return f.entries[i].FirstFailedAt.Before(f.entries[j].FirstFailedAt)
		})
		f.entries = f.entries[len(f.entries)-maxEntries:]
	}
	return entry, nil
}

func (f *fakeFailureStore) ListFailedDeliveries(ctx context.Context) ([]store.FailedDelivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.FailedDelivery, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeFailureStore) DeleteFailedDelivery(ctx context.Context, deliveryID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == deliveryID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeFailureStore) IncrementFailedDeliveryRetry(ctx context.Context, deliveryID uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == deliveryID {
			f.entries[i].RetryCount++
			f.entries[i].Reason = reason
		}
	}
	return nil
}

func (f *fakeFailureStore) ClearFailedDeliveries(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = nil
	return nil
}

func (f *fakeFailureStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func testLead() store.Lead {
	return store.Lead{
		ID:       uuid.New(),
		PageID:   uuid.New(),
		PageType: store.PageTypeOpenHouse,
		FullName: "Jordan Smith",
		Email:    "jordan@example.com",
		Phone:    "555-0100",
		Status:   store.LeadStatusNew,
		Source:   store.LeadSourceDirect,
	}
}

func TestDeliver_UnconfiguredEndpointSkips(t *testing.T) {
	sender := newFakeSender()
	sender.enabled = false
	fs := &fakeFailureStore{}
	svc := NewService(sender, fs, 100, observability.NewLogger())

	err := svc.Deliver(context.Background(), testLead())

	require.NoError(t, err)
	assert.Equal(t, 0, fs.count())
}

func TestDeliver_FailureQueuesEntry(t *testing.T) {
	sender := newFakeSender()
	fs := &fakeFailureStore{}
	svc := NewService(sender, fs, 100, observability.NewLogger())

	lead := testLead()
	sender.failFor[lead.ID.String()] = true

	err := svc.Deliver(context.Background(), lead)

	require.Error(t, err)
	require.Equal(t, 1, fs.count())
	assert.Equal(t, lead.ID, fs.entries[0].LeadID)
	assert.Equal(t, "webhook", fs.entries[0].Destination)
}

func TestRetryAll_Convergence(t *testing.T) {
	sender := newFakeSender()
	fs := &fakeFailureStore{}
	svc := NewService(sender, fs, 100, observability.NewLogger())

	// Three deliveries fail and queue up.
	leads := []store.Lead{testLead(), testLead(), testLead()}
	for _, lead := range leads {
		sender.failFor[lead.ID.String()] = true
		require.Error(t, svc.Deliver(context.Background(), lead))
	}
	require.Equal(t, 3, fs.count())

	// The endpoint recovers for two of the three.
	delete(sender.failFor, leads[0].ID.String())
	delete(sender.failFor, leads[1].ID.String())

	report, err := svc.RetryAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RetryReport{Retried: 3, Succeeded: 2, Remaining: 1}, report)

	// The stuck entry keeps its place and its retry count grows.
	require.Equal(t, 1, fs.count())
	assert.Equal(t, leads[2].ID, fs.entries[0].LeadID)
	assert.Equal(t, 1, fs.entries[0].RetryCount)

	// Full recovery drains the queue.
	delete(sender.failFor, leads[2].ID.String())
	report, err = svc.RetryAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RetryReport{Retried: 1, Succeeded: 1, Remaining: 0}, report)
}

// snapshotSender enqueues a new failure while a retry pass is running.
type snapshotSender struct {
	*fakeSender
	svc      **Service
	sneaked  *store.Lead
	sneakMu  sync.Mutex
	sneakers int
}

func (s *snapshotSender) Send(ctx context.Context, payload store.JSONB) error {
	s.sneakMu.Lock()
	if s.sneaked != nil && s.sneakers == 0 {
		s.sneakers++
		lead := *s.sneaked
		s.failFor[lead.ID.String()] = true
		s.sneakMu.Unlock()
		// A delivery failing mid-pass lands in the queue but not in the
		// running pass's snapshot.
		_ = (*s.svc).Deliver(ctx, lead)
	} else {
		s.sneakMu.Unlock()
	}
	return s.fakeSender.Send(ctx, payload)
}

func TestRetryAll_SnapshotExcludesMidPassFailures(t *testing.T) {
	inner := newFakeSender()
	sender := &snapshotSender{fakeSender: inner}
	fs := &fakeFailureStore{}
	svc := NewService(sender, fs, 100, observability.NewLogger())
	sender.svc = &svc

	queued := testLead()
	inner.failFor[queued.ID.String()] = true
	require.Error(t, svc.Deliver(context.Background(), queued))
	delete(inner.failFor, queued.ID.String())

	sneaked := testLead()
	sender.sneaked = &sneaked

	report, err := svc.RetryAll(context.Background())
	require.NoError(t, err)

	// Only the pre-pass entry was retried; the mid-pass failure stays queued.
	assert.Equal(t, 1, report.Retried)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Remaining)
	require.Equal(t, 1, fs.count())
	assert.Equal(t, sneaked.ID, fs.entries[0].LeadID)
}

func TestQueueCapPrunesOldest(t *testing.T) {
	sender := newFakeSender()
	fs := &fakeFailureStore{}
	svc := NewService(sender, fs, 3, observability.NewLogger())

	var leads []store.Lead
	for i := 0; i < 5; i++ {
		lead := testLead()
		sender.failFor[lead.ID.String()] = true
		require.Error(t, svc.Deliver(context.Background(), lead))
		leads = append(leads, lead)
	}

	require.Equal(t, 3, fs.count())
	kept := map[uuid.UUID]bool{}
	for _, e := range fs.entries {
		kept[e.LeadID] = true
	}
	assert.False(t, kept[leads[0].ID])
	assert.False(t, kept[leads[1].ID])
	assert.True(t, kept[leads[4].ID])
}

func TestClear(t *testing.T) {
	sender := newFakeSender()
	fs := &fakeFailureStore{}
	svc := NewService(sender, fs, 100, observability.NewLogger())

	lead := testLead()
	sender.failFor[lead.ID.String()] = true
	require.Error(t, svc.Deliver(context.Background(), lead))
	require.Equal(t, 1, fs.count())

	require.NoError(t, svc.Clear(context.Background()))
	assert.Equal(t, 0, fs.count())
}
