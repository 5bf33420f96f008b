package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildTags(t *testing.T) {
	cases := []struct {
		name             string
		pageType         string
		preApproved      *bool
		workingWithAgent *bool
		want             []string
	}{
		{
			name:     "unanswered questions add nothing",
			pageType: store.PageTypeOpenHouse,
			want:     []string{"frs-lead", "open-house-lead"},
		},
		{
			name:        "explicit false pre-approval",
			pageType:    store.PageTypeOpenHouse,
			preApproved: boolPtr(false),
			want:        []string{"frs-lead", "open-house-lead", "not-pre-approved"},
		},
		{
			name:             "explicit false agent",
			pageType:         store.PageTypeCustomerSpotlight,
			workingWithAgent: boolPtr(false),
			want:             []string{"frs-lead", "customer-spotlight-lead", "no-agent"},
		},
		{
			name:             "explicit true adds no qualifier",
			pageType:         store.PageTypeMortgageCalculator,
			preApproved:      boolPtr(true),
			workingWithAgent: boolPtr(true),
			want:             []string{"frs-lead", "mortgage-calculator-lead"},
		},
		{
			name:             "both explicit false",
			pageType:         store.PageTypeSpecialEvent,
			preApproved:      boolPtr(false),
			workingWithAgent: boolPtr(false),
			want:             []string{"frs-lead", "special-event-lead", "not-pre-approved", "no-agent"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildTags(tc.pageType, tc.preApproved, tc.workingWithAgent))
		})
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in    string
		first string
		last  string
	}{
		{"Jordan Smith", "Jordan", "Smith"},
		{"Cher", "Cher", ""},
		{"Mary Anne van der Berg", "Mary", "Anne van der Berg"},
		{"  Jordan   Smith  ", "Jordan", "Smith"},
		{"", "", ""},
		{"   ", "", ""},
	}
	for _, tc := range cases {
		first, last := SplitName(tc.in)
		assert.Equal(t, tc.first, first, "input %q", tc.in)
		assert.Equal(t, tc.last, last, "input %q", tc.in)
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****6789", MaskKey("fka_123456789"))
	assert.Equal(t, "****", MaskKey("abcd"))
	assert.Equal(t, "****", MaskKey(""))
}

// fakeProvider validates only validKey and records upserted contacts.
type fakeProvider struct {
	name     string
	validKey string
	down     bool
	contacts []Contact
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) ValidateKey(ctx context.Context, apiKey string) error {
	if f.down {
		return ErrProviderUnavailable
	}
	if apiKey != f.validKey {
		return ErrCredentialRejected
	}
	return nil
}

func (f *fakeProvider) UpsertContact(ctx context.Context, apiKey string, contact Contact) error {
	if f.down {
		return ErrProviderUnavailable
	}
	if apiKey != f.validKey {
		return ErrCredentialRejected
	}
	f.contacts = append(f.contacts, contact)
	return nil
}

// fakeConnectionStore keys connections by actor+provider.
type fakeConnectionStore struct {
	conns map[string]store.CrmConnection
	syncs map[uuid.UUID]int
}

func newFakeConnectionStore() *fakeConnectionStore {
	return &fakeConnectionStore{
		conns: make(map[string]store.CrmConnection),
		syncs: make(map[uuid.UUID]int),
	}
}

func connKey(actorID uuid.UUID, provider string) string {
	return actorID.String() + "/" + provider
}

func (f *fakeConnectionStore) UpsertCrmConnection(ctx context.Context, params store.UpsertCrmConnectionParams) (store.CrmConnection, error) {
	key := connKey(params.ActorID, params.Provider)
	conn, ok := f.conns[key]
	if !ok {
		conn = store.CrmConnection{
			ID:          uuid.New(),
			ActorID:     params.ActorID,
			Provider:    params.Provider,
			ConnectedAt: time.Now(),
		}
	}
	conn.APIKey = params.APIKey
	f.conns[key] = conn
	return conn, nil
}

func (f *fakeConnectionStore) GetCrmConnection(ctx context.Context, actorID uuid.UUID, provider string) (store.CrmConnection, error) {
	conn, ok := f.conns[connKey(actorID, provider)]
	if !ok {
		return store.CrmConnection{}, store.ErrNotFound
	}
	return conn, nil
}

func (f *fakeConnectionStore) ListCrmConnectionsByActor(ctx context.Context, actorID uuid.UUID) ([]store.CrmConnection, error) {
	var out []store.CrmConnection
	for _, conn := range f.conns {
		if conn.ActorID == actorID {
			out = append(out, conn)
		}
	}
	return out, nil
}

func (f *fakeConnectionStore) DeleteCrmConnection(ctx context.Context, actorID uuid.UUID, provider string) error {
	key := connKey(actorID, provider)
	if _, ok := f.conns[key]; !ok {
		return store.ErrNotFound
	}
	delete(f.conns, key)
	return nil
}

func (f *fakeConnectionStore) RecordCrmSync(ctx context.Context, connectionID uuid.UUID) error {
	f.syncs[connectionID]++
	return nil
}

func TestServiceConnect(t *testing.T) {
	provider := &fakeProvider{name: "followupboss", validKey: "good-key-1234"}
	cs := newFakeConnectionStore()
	svc := NewService(cs, observability.NewLogger(), provider)
	actorID := uuid.New()

	view, err := svc.Connect(context.Background(), actorID, "followupboss", "good-key-1234")

	require.NoError(t, err)
	assert.Equal(t, "followupboss", view.Provider)
	assert.Equal(t, "****1234", view.MaskedAPIKey)
	assert.Len(t, cs.conns, 1)
}

func TestServiceConnect_RejectedKeyNotPersisted(t *testing.T) {
	provider := &fakeProvider{name: "followupboss", validKey: "good-key-1234"}
	cs := newFakeConnectionStore()
	svc := NewService(cs, observability.NewLogger(), provider)

	_, err := svc.Connect(context.Background(), uuid.New(), "followupboss", "wrong-key")

	assert.ErrorIs(t, err, ErrCredentialRejected)
	assert.Empty(t, cs.conns)
}

func TestServiceConnect_UnknownProvider(t *testing.T) {
	cs := newFakeConnectionStore()
	svc := NewService(cs, observability.NewLogger())

	_, err := svc.Connect(context.Background(), uuid.New(), "salesforce", "key")

	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestServiceDisconnect(t *testing.T) {
	provider := &fakeProvider{name: "followupboss", validKey: "good-key-1234"}
	cs := newFakeConnectionStore()
	svc := NewService(cs, observability.NewLogger(), provider)
	actorID := uuid.New()

	_, err := svc.Connect(context.Background(), actorID, "followupboss", "good-key-1234")
	require.NoError(t, err)

	require.NoError(t, svc.Disconnect(context.Background(), actorID, "followupboss"))
	assert.Empty(t, cs.conns)

	err = svc.Disconnect(context.Background(), actorID, "followupboss")
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestServiceTest(t *testing.T) {
	provider := &fakeProvider{name: "followupboss", validKey: "good-key-1234"}
	cs := newFakeConnectionStore()
	svc := NewService(cs, observability.NewLogger(), provider)
	actorID := uuid.New()

	_, err := svc.Connect(context.Background(), actorID, "followupboss", "good-key-1234")
	require.NoError(t, err)

	require.NoError(t, svc.Test(context.Background(), actorID, "followupboss"))

	// A key revoked on the provider side fails the test without being removed.
	provider.validKey = "rotated"
	assert.ErrorIs(t, svc.Test(context.Background(), actorID, "followupboss"), ErrCredentialRejected)
	assert.Len(t, cs.conns, 1)

	assert.ErrorIs(t, svc.Test(context.Background(), uuid.New(), "followupboss"), ErrConnectionNotFound)
}

func deliverableLead(loanOfficerID *uuid.UUID) store.Lead {
	return store.Lead{
		ID:            uuid.New(),
		PageID:        uuid.New(),
		PageType:      store.PageTypeOpenHouse,
		FullName:      "Jordan Smith",
		Email:         "jordan@example.com",
		Phone:         "555-0100",
		LoanOfficerID: loanOfficerID,
		PreApproved:   boolPtr(false),
	}
}

func TestAdapterDeliver(t *testing.T) {
	provider := &fakeProvider{name: "followupboss", validKey: "good-key-1234"}
	cs := newFakeConnectionStore()
	actorID := uuid.New()
	conn, err := cs.UpsertCrmConnection(context.Background(), store.UpsertCrmConnectionParams{
		ActorID:  actorID,
		Provider: "followupboss",
		APIKey:   "good-key-1234",
	})
	require.NoError(t, err)

	adapter := NewAdapter(cs, observability.NewLogger(), provider)
	err = adapter.Deliver(context.Background(), deliverableLead(&actorID))

	require.NoError(t, err)
	require.Len(t, provider.contacts, 1)
	contact := provider.contacts[0]
	assert.Equal(t, "Jordan", contact.FirstName)
	assert.Equal(t, "Smith", contact.LastName)
	assert.Equal(t, []string{"frs-lead", "open-house-lead", "not-pre-approved"}, contact.Tags)
	assert.Equal(t, "FRS Lead Pages", contact.Source)
	assert.Equal(t, 1, cs.syncs[conn.ID])
}

func TestAdapterDeliver_NoActorIsSilentSkip(t *testing.T) {
	provider := &fakeProvider{name: "followupboss", validKey: "good-key-1234"}
	adapter := NewAdapter(newFakeConnectionStore(), observability.NewLogger(), provider)

	err := adapter.Deliver(context.Background(), deliverableLead(nil))

	require.NoError(t, err)
	assert.Empty(t, provider.contacts)
}

func TestAdapterDeliver_NoConnectionsIsSilentSkip(t *testing.T) {
	provider := &fakeProvider{name: "followupboss", validKey: "good-key-1234"}
	adapter := NewAdapter(newFakeConnectionStore(), observability.NewLogger(), provider)
	actorID := uuid.New()

	err := adapter.Deliver(context.Background(), deliverableLead(&actorID))

	require.NoError(t, err)
	assert.Empty(t, provider.contacts)
}

func TestAdapterDeliver_OneProviderFailureDoesNotStopOthers(t *testing.T) {
	broken := &fakeProvider{name: "followupboss", validKey: "good-key-1234", down: true}
	healthy := &fakeProvider{name: "fluentcrm", validKey: "other-key-5678"}
	cs := newFakeConnectionStore()
	actorID := uuid.New()
	for provider, key := range map[string]string{"followupboss": "good-key-1234", "fluentcrm": "other-key-5678"} {
		_, err := cs.UpsertCrmConnection(context.Background(), store.UpsertCrmConnectionParams{
			ActorID:  actorID,
			Provider: provider,
			APIKey:   key,
		})
		require.NoError(t, err)
	}

	adapter := NewAdapter(cs, observability.NewLogger(), broken, healthy)
	err := adapter.Deliver(context.Background(), deliverableLead(&actorID))

	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.Len(t, healthy.contacts, 1)
}
