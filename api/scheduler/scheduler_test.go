package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/ledger"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/records"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) Pending(ctx context.Context, olderThan time.Duration) ([]models.LedgerItem, error) {
	args := m.Called(ctx, olderThan)
	items, _ := args.Get(0).([]models.LedgerItem)
	return items, args.Error(1)
}

func TestStaleRequestsGroupsCaseIDs(t *testing.T) {
	lister := &mockLister{}
	lister.On("Pending", mock.Anything, 72*time.Hour).Return([]models.LedgerItem{
		{CaseID: "C002", Index: 0},
		{CaseID: "C001", Index: 1},
		{CaseID: "C002", Index: 3},
	}, nil)

	s := NewScheduler(lister, nil, 72*time.Hour)
	ids, err := s.StaleRequests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"C001", "C002"}, ids)
	lister.AssertExpectations(t)
}

func TestStaleRequestsError(t *testing.T) {
	lister := &mockLister{}
	lister.On("Pending", mock.Anything, time.Hour).Return(nil, errors.New("mocked-error"))

	s := NewScheduler(lister, nil, time.Hour)
	_, err := s.StaleRequests(context.Background())
	assert.EqualError(t, err, "mocked-error")
}

func TestStaleRequestsAgainstLedger(t *testing.T) {
	ctx := context.Background()
	cases := databases.NewMemoryCaseDatabase()
	_, err := records.New(cases).Create(ctx, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)
	l := ledger.New(cases)
	_, err = l.Submit(ctx, "C001", "U00001", "need details")
	require.NoError(t, err)

	// a negative age puts the cutoff in the future, so every pending request is stale
	ids, err := NewScheduler(l, nil, -time.Minute).StaleRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C001"}, ids)

	ids, err = NewScheduler(l, nil, time.Hour).StaleRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
