package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/databases/mocks"
	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/models"
)

func newStore() *Store {
	s := New(databases.NewMemoryCaseDatabase())
	s.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	first, err := s.Create(ctx, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)
	second, err := s.Create(ctx, models.NewCase{Title: "Fraud"})
	require.NoError(t, err)

	assert.Equal(t, "C001", first.ID)
	assert.Equal(t, "C002", second.ID)
}

func TestCreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	created, err := s.Create(ctx, models.NewCase{
		Title: "Theft Case", Type: "Criminal", Court: "High Court", Accused: []string{"John"}, RegisteredBy: "R00001",
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Theft Case", got.Title)
	assert.Equal(t, "Criminal", got.Type)
	assert.Equal(t, "High Court", got.Court)
	assert.Equal(t, []string{"John"}, got.Accused)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Empty(t, got.Evidence)
	assert.Empty(t, got.HearingDates)
	assert.Empty(t, got.Reports)
	assert.Empty(t, got.Documents)
	assert.Empty(t, got.Messages)
	assert.Empty(t, got.Schedules)
	assert.Empty(t, got.AccessRequests)
	assert.Equal(t, "", got.Judgement)

	again, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestCreateRequiresTitle(t *testing.T) {
	_, err := newStore().Create(context.Background(), models.NewCase{Title: "  "})
	assert.True(t, domainerrors.Is(err, domainerrors.CodeValidation))
}

func TestCreateRetriesOnDuplicateID(t *testing.T) {
	db := &mocks.CaseDatabase{}
	db.On("CountDocuments", mock.Anything).Return(int64(3), nil).Once()
	db.On("CountDocuments", mock.Anything).Return(int64(4), nil).Once()
	db.On("InsertOne", mock.Anything, mock.MatchedBy(func(c models.Case) bool { return c.ID == "C004" })).
		Return(fmt.Errorf("insert: %w", databases.ErrDuplicate))
	db.On("InsertOne", mock.Anything, mock.MatchedBy(func(c models.Case) bool { return c.ID == "C005" })).
		Return(nil)

	c, err := New(db).Create(context.Background(), models.NewCase{Title: "Fraud"})
	require.NoError(t, err)
	assert.Equal(t, "C005", c.ID)
	db.AssertExpectations(t)
}

func TestCreateStoreFailure(t *testing.T) {
	db := &mocks.CaseDatabase{}
	db.On("CountDocuments", mock.Anything).Return(int64(0), errors.New("mocked-error"))

	_, err := New(db).Create(context.Background(), models.NewCase{Title: "Fraud"})
	assert.True(t, domainerrors.Is(err, domainerrors.CodeInternal))
}

func TestGetNotFound(t *testing.T) {
	_, err := newStore().Get(context.Background(), "C404")
	assert.True(t, domainerrors.Is(err, domainerrors.CodeNotFound))
}

func TestUpdateDoesNotSyncStatus(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	c, err := s.Create(ctx, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)

	judgement := "Guilty"
	updated, err := s.Update(ctx, c.ID, models.CasePatch{Judgement: &judgement})
	require.NoError(t, err)
	assert.Equal(t, "Guilty", updated.Judgement)
	assert.Equal(t, models.StatusPending, updated.Status)

	_, err = s.Update(ctx, "C404", models.CasePatch{Judgement: &judgement})
	assert.True(t, domainerrors.Is(err, domainerrors.CodeNotFound))
}

func TestDeliverJudgementResolves(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	c, err := s.Create(ctx, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)

	_, err = s.DeliverJudgement(ctx, c.ID, "Guilty")
	require.NoError(t, err)

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guilty", got.Judgement)
	assert.Equal(t, models.StatusResolved, got.Status)
}

func TestAssignJudge(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	c, err := s.Create(ctx, models.NewCase{Title: "Theft Case", Judge: "Old Name"})
	require.NoError(t, err)

	_, err = s.AssignJudge(ctx, c.ID, "", "")
	assert.True(t, domainerrors.Is(err, domainerrors.CodeValidation))

	updated, err := s.AssignJudge(ctx, c.ID, "", "J00001")
	require.NoError(t, err)
	assert.Equal(t, "J00001", updated.JudgeID)
	assert.Equal(t, "Old Name", updated.Judge)

	_, err = s.AssignLawyer(ctx, "C404", "Saul", "")
	assert.True(t, domainerrors.Is(err, domainerrors.CodeNotFound))
}

func TestAppendsReturnUpdatedCase(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	c, err := s.Create(ctx, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)

	updated, err := s.AddEvidence(ctx, c.ID, "Photo A")
	require.NoError(t, err)
	require.Len(t, updated.Evidence, 1)
	assert.Equal(t, "Photo A", updated.Evidence[0].Name)
	assert.Equal(t, "2026-03-14", updated.Evidence[0].UploadedAt)
	assert.Regexp(t, `^E[0-9a-f-]{36}$`, updated.Evidence[0].ID)

	updated, err = s.AddReport(ctx, c.ID, "forensics back")
	require.NoError(t, err)
	assert.Equal(t, []string{"forensics back"}, updated.Reports)

	updated, err = s.AddHearing(ctx, c.ID, "2026-04-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-04-01"}, updated.HearingDates)

	updated, err = s.AddMessage(ctx, c.ID, "L00001", "ready")
	require.NoError(t, err)
	assert.Equal(t, "L00001", updated.Messages[0].From)

	updated, err = s.AddSchedule(ctx, c.ID, "2026-04-02", "cross examination")
	require.NoError(t, err)
	assert.Equal(t, models.Schedule{Date: "2026-04-02", Details: "cross examination"}, updated.Schedules[0])

	_, err = s.AddDocuments(ctx, c.ID, nil)
	assert.True(t, domainerrors.Is(err, domainerrors.CodeValidation))

	updated, err = s.AddDocuments(ctx, c.ID, []models.Document{{Name: "a.pdf"}, {Name: "b.pdf"}})
	require.NoError(t, err)
	assert.Len(t, updated.Documents, 2)
	assert.False(t, updated.Documents[1].UploadedAt.IsZero())

	_, err = s.AddEvidence(ctx, "C404", "Photo")
	assert.True(t, domainerrors.Is(err, domainerrors.CodeNotFound))
}

func TestConcurrentEvidenceNoLostUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	c, err := s.Create(ctx, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, name := range []string{"Photo A", "Photo B"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := s.AddEvidence(ctx, c.ID, name)
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	names := []string{}
	for _, e := range got.Evidence {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"Photo A", "Photo B"}, names)
}

func TestViews(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	_, err := s.Create(ctx, models.NewCase{Title: "One", JudgeID: "J00001", RegisteredBy: "R00001"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.NewCase{Title: "Two", LawyerID: "L00001", RegisteredBy: "R00002"})
	require.NoError(t, err)

	judged, err := s.ListForJudge(ctx, "J00001")
	require.NoError(t, err)
	require.Len(t, judged, 1)
	assert.Equal(t, "C001", judged[0].ID)

	lawyered, err := s.ListForLawyer(ctx, "L00001")
	require.NoError(t, err)
	require.Len(t, lawyered, 1)
	assert.Equal(t, "C002", lawyered[0].ID)

	registered, err := s.ListRegisteredBy(ctx, "R00002")
	require.NoError(t, err)
	assert.Len(t, registered, 1)

	_, err = s.ReportDownload(ctx, "C001")
	assert.True(t, domainerrors.Is(err, domainerrors.CodeNotFound))

	_, err = s.AddReport(ctx, "C001", "first")
	require.NoError(t, err)
	_, err = s.AddReport(ctx, "C001", "second")
	require.NoError(t, err)
	report, err := s.ReportDownload(ctx, "C001")
	require.NoError(t, err)
	assert.Equal(t, "second", report.LatestReport)

	summary, err := s.Summary(ctx, "C001")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ReportsCount)
	assert.False(t, summary.HasJudgement)
}
