package attribution

import (
	"context"
	"testing"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePageStore struct {
	pages map[uuid.UUID]store.LeadPage
}

func (f *fakePageStore) GetLeadPageByID(ctx context.Context, pageID uuid.UUID) (store.LeadPage, error) {
	page, ok := f.pages[pageID]
	if !ok {
		return store.LeadPage{}, store.ErrNotFound
	}
	return page, nil
}

func TestResolve(t *testing.T) {
	pageID := uuid.New()
	loID := uuid.New()
	realtorID := uuid.New()
	fs := &fakePageStore{pages: map[uuid.UUID]store.LeadPage{
		pageID: {
			ID:            pageID,
			PageType:      store.PageTypeOpenHouse,
			LoanOfficerID: &loID,
			RealtorID:     &realtorID,
		},
	}}
	r := New(fs, observability.NewLogger())

	attr, err := r.Resolve(context.Background(), pageID)

	require.NoError(t, err)
	assert.Equal(t, pageID, attr.PageID)
	assert.Equal(t, store.PageTypeOpenHouse, attr.PageType)
	assert.Equal(t, &loID, attr.LoanOfficerID)
	assert.Equal(t, &realtorID, attr.RealtorID)
}

func TestResolve_UnattributedPage(t *testing.T) {
	pageID := uuid.New()
	fs := &fakePageStore{pages: map[uuid.UUID]store.LeadPage{
		pageID: {ID: pageID, PageType: store.PageTypeMortgageCalculator},
	}}
	r := New(fs, observability.NewLogger())

	attr, err := r.Resolve(context.Background(), pageID)

	// A page with no assigned actors still resolves; consumers treat nil
	// actors as generic behavior.
	require.NoError(t, err)
	assert.Nil(t, attr.LoanOfficerID)
	assert.Nil(t, attr.RealtorID)
}

func TestResolve_UnknownPage(t *testing.T) {
	r := New(&fakePageStore{pages: map[uuid.UUID]store.LeadPage{}}, observability.NewLogger())

	_, err := r.Resolve(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrPageNotFound)
}
