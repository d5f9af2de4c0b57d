package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/court-records-api/activity"
	"github.com/linesmerrill/court-records-api/auth"
	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/ledger"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/records"
)

var (
	registrar = models.Actor{ID: "R00001", Role: models.RoleRegistrar}
	judge     = models.Actor{ID: "J00001", Role: models.RoleJudge}
	citizen   = models.Actor{ID: "U00001", Role: models.RoleUser}
)

type spyAuditor struct {
	mu      sync.Mutex
	entries []models.Activity
}

func (s *spyAuditor) Append(actor models.Actor, action, targetType, targetID string, details map[string]interface{}) models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := models.Activity{ActorID: actor.ID, ActorRole: actor.Role, Action: action, TargetType: targetType, TargetID: targetID, Details: details}
	s.entries = append(s.entries, a)
	return a
}

func (s *spyAuditor) Query(context.Context, models.ActivityFilter) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Activity{}, s.entries...), nil
}

func (s *spyAuditor) take() []models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.entries
	s.entries = nil
	return out
}

func newCoordinator() (*Coordinator, *spyAuditor) {
	cases := databases.NewMemoryCaseDatabase()
	spy := &spyAuditor{}
	return &Coordinator{
		Records: records.New(cases),
		Ledger:  ledger.New(cases),
		Audit:   spy,
		Users:   databases.NewMemoryUserDatabase(),
		Tokens:  auth.NewJWTManager([]byte("secret"), time.Hour),
	}, spy
}

func TestOperationsAuditExactlyOnce(t *testing.T) {
	ctx := context.Background()
	co, spy := newCoordinator()
	judgeName := "Judge Judy"

	steps := []struct {
		name   string
		run    func() error
		action string
		target string
	}{
		{"register", func() error { _, err := co.RegisterCase(ctx, registrar, models.NewCase{Title: "Theft Case"}); return err }, models.ActionCaseRegister, "C001"},
		{"patch judge", func() error { _, err := co.PatchCase(ctx, registrar, "C001", models.CasePatch{Judge: &judgeName}); return err }, models.ActionJudgeAssigned, "C001"},
		{"patch other", func() error {
			d := "stolen bike"
			_, err := co.PatchCase(ctx, registrar, "C001", models.CasePatch{Description: &d})
			return err
		}, models.ActionCaseUpdate, "C001"},
		{"assign judge", func() error { _, err := co.AssignJudge(ctx, registrar, "C001", "", "J00001"); return err }, models.ActionJudgeAssigned, "C001"},
		{"assign lawyer", func() error { _, err := co.AssignLawyer(ctx, registrar, "C001", "Saul", "L00001"); return err }, models.ActionLawyerAssigned, "C001"},
		{"hearing", func() error { _, err := co.AddHearing(ctx, registrar, "C001", "2026-06-01"); return err }, models.ActionHearingAdded, "C001"},
		{"evidence", func() error { _, err := co.AddEvidence(ctx, models.Actor{ID: "P00001", Role: models.RolePolice}, "C001", "Photo A"); return err }, models.ActionEvidenceAdded, "C001"},
		{"report", func() error { _, err := co.AddReport(ctx, models.Actor{ID: "P00001", Role: models.RolePolice}, "C001", "forensics"); return err }, models.ActionReportSubmitted, "C001"},
		{"documents", func() error {
			_, err := co.AddDocuments(ctx, registrar, "C001", []models.Document{{Name: "a.pdf"}, {Name: "b.pdf"}})
			return err
		}, models.ActionDocumentsUploaded, "C001"},
		{"message", func() error { _, err := co.AddMessage(ctx, judge, "C001", "", "adjourned"); return err }, models.ActionMessageSent, "C001"},
		{"schedule", func() error { _, err := co.AddSchedule(ctx, registrar, "C001", "2026-06-02", "room 4"); return err }, models.ActionScheduleAdded, "C001"},
		{"submit request", func() error { _, err := co.SubmitAccessRequest(ctx, citizen, "C001", "need details"); return err }, models.ActionRequestSubmitted, "C001"},
		{"approve request", func() error { _, err := co.DecideAccessRequest(ctx, registrar, "C001", "0", "approved", "ok", false); return err }, models.ActionRequestApproved, "C001"},
		{"submit second", func() error { _, err := co.SubmitAccessRequest(ctx, citizen, "C001", "again"); return err }, models.ActionRequestSubmitted, "C001"},
		{"decline request", func() error { _, err := co.DecideAccessRequest(ctx, registrar, "C001", "1", "declined", "", false); return err }, models.ActionRequestDeclined, "C001"},
		{"judgement", func() error { _, err := co.DeliverJudgement(ctx, judge, "C001", "Guilty"); return err }, models.ActionJudgementDelivered, "C001"},
	}
	for _, step := range steps {
		require.NoError(t, step.run(), step.name)
		entries := spy.take()
		require.Len(t, entries, 1, step.name)
		assert.Equal(t, step.action, entries[0].Action, step.name)
		assert.Equal(t, step.target, entries[0].TargetID, step.name)
		assert.Equal(t, models.TargetCase, entries[0].TargetType, step.name)
	}

	c, err := co.GetCase(ctx, registrar, "C001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, c.Status)
	assert.Equal(t, "J00001", c.Messages[0].From)
	assert.Equal(t, "R00001", c.RegisteredBy)
}

func TestFailedOperationsAreNotAudited(t *testing.T) {
	ctx := context.Background()
	co, spy := newCoordinator()
	_, err := co.RegisterCase(ctx, registrar, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)
	_, err = co.SubmitAccessRequest(ctx, citizen, "C001", "need details")
	require.NoError(t, err)
	_, err = co.DecideAccessRequest(ctx, registrar, "C001", "0", "approved", "", false)
	require.NoError(t, err)
	spy.take()

	failures := []struct {
		name string
		run  func() error
		code domainerrors.Code
	}{
		{"register without title", func() error { _, err := co.RegisterCase(ctx, registrar, models.NewCase{}); return err }, domainerrors.CodeValidation},
		{"evidence on missing case", func() error { _, err := co.AddEvidence(ctx, registrar, "C404", "x"); return err }, domainerrors.CodeNotFound},
		{"assign judge without fields", func() error { _, err := co.AssignJudge(ctx, registrar, "C001", "", ""); return err }, domainerrors.CodeValidation},
		{"bad decision", func() error { _, err := co.DecideAccessRequest(ctx, registrar, "C001", "0", "maybe", "", false); return err }, domainerrors.CodeValidation},
		{"re-decision", func() error { _, err := co.DecideAccessRequest(ctx, registrar, "C001", "0", "declined", "", false); return err }, domainerrors.CodeConflict},
		{"decision index out of range", func() error { _, err := co.DecideAccessRequest(ctx, registrar, "C001", "7", "approved", "", false); return err }, domainerrors.CodeNotFound},
		{"no actor", func() error { _, err := co.AddReport(ctx, models.Actor{}, "C001", "r"); return err }, domainerrors.CodeUnauthorized},
		{"no actor read", func() error { _, err := co.ListCases(ctx, models.Actor{}); return err }, domainerrors.CodeUnauthorized},
	}
	for _, f := range failures {
		err := f.run()
		assert.True(t, domainerrors.Is(err, f.code), "%s: got %v", f.name, err)
		assert.Empty(t, spy.take(), f.name)
	}
}

func TestOverrideIsAudited(t *testing.T) {
	ctx := context.Background()
	co, spy := newCoordinator()
	_, err := co.RegisterCase(ctx, registrar, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)
	item, err := co.SubmitAccessRequest(ctx, citizen, "C001", "need details")
	require.NoError(t, err)
	_, err = co.DecideAccessRequest(ctx, registrar, "C001", item.RequestID, "approved", "", false)
	require.NoError(t, err)
	spy.take()

	decided, err := co.DecideAccessRequest(ctx, registrar, "C001", item.RequestID, "declined", "wrong case", true)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionDeclined, decided.Decision)

	entries := spy.take()
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].Details["override"])
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	co, spy := newCoordinator()

	u, err := co.CreateUser(ctx, registrar, models.NewUser{FullName: "Jane Roe", Email: "Jane@Court.test", Password: "secret1", Role: "judge"})
	require.NoError(t, err)
	assert.Regexp(t, `^J\d{5}$`, u.ID)
	assert.Equal(t, "jane@court.test", u.Email)
	assert.Equal(t, models.RoleJudge, u.Role)

	_, err = co.CreateUser(ctx, registrar, models.NewUser{FullName: "Jane Again", Email: "jane@court.test", Password: "secret1", Role: "judge"})
	assert.True(t, domainerrors.Is(err, domainerrors.CodeConflict))
	_, err = co.CreateUser(ctx, registrar, models.NewUser{FullName: "X", Email: "x@court.test", Password: "secret1", Role: "mayor"})
	assert.True(t, domainerrors.Is(err, domainerrors.CodeValidation))

	entries := spy.take()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionUserCreated, entries[0].Action)
	assert.Equal(t, registrar.ID, entries[0].ActorID)
	assert.Equal(t, u.ID, entries[0].TargetID)

	resp, err := co.Login(ctx, models.Credentials{Email: "jane@court.test", Password: "secret1"})
	require.NoError(t, err)
	actor, err := co.Tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{ID: u.ID, Role: models.RoleJudge}, actor)

	_, err = co.Login(ctx, models.Credentials{Identifier: u.ID, Password: "secret1"})
	require.NoError(t, err)
	_, err = co.Login(ctx, models.Credentials{Identifier: u.ID, Password: "wrong"})
	assert.True(t, domainerrors.Is(err, domainerrors.CodeUnauthorized))
	_, err = co.Login(ctx, models.Credentials{Identifier: "nobody@court.test", Password: "wrong"})
	assert.True(t, domainerrors.Is(err, domainerrors.CodeUnauthorized))

	entries = spy.take()
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionUserLogin, entries[0].Action)

	_, err = co.UpdateBio(ctx, citizen, u.ID, "hacked")
	assert.True(t, domainerrors.Is(err, domainerrors.CodeForbidden))
	updated, err := co.UpdateBio(ctx, actor, u.ID, "twenty years on the bench")
	require.NoError(t, err)
	assert.Equal(t, "twenty years on the bench", updated.Bio)

	created, err := co.CreateUser(ctx, registrar, models.NewUser{FullName: "Bob Police", Email: "bob@court.test", Password: "secret1", Role: models.RolePolice})
	require.NoError(t, err)
	users, err := co.ListUsers(ctx, registrar)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Bob Police", users[0].FullName)

	require.NoError(t, co.DeleteUser(ctx, registrar, created.ID))
	err = co.DeleteUser(ctx, registrar, created.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.CodeNotFound))

	entries = spy.take()
	actions := []string{}
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{models.ActionUserUpdated, models.ActionUserCreated, models.ActionUserDeleted}, actions)
	assert.Equal(t, models.TargetUser, entries[2].TargetType)
	assert.Equal(t, created.ID, entries[2].TargetID)
}

func TestPatchAuthorshipClaimIsAuditMetadata(t *testing.T) {
	ctx := context.Background()
	co, spy := newCoordinator()
	_, err := co.RegisterCase(ctx, registrar, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)
	spy.take()

	d := "stolen bike"
	c, err := co.PatchCase(ctx, judge, "C001", models.CasePatch{Description: &d, UpdatedBy: "R99999", UpdatedByRole: models.RoleRegistrar})
	require.NoError(t, err)
	assert.Equal(t, d, c.Description)

	entries := spy.take()
	require.Len(t, entries, 1)
	assert.Equal(t, judge.ID, entries[0].ActorID)
	assert.Equal(t, judge.Role, entries[0].ActorRole)
	assert.Equal(t, []string{"description"}, entries[0].Details["fields"])
	assert.Equal(t, "R99999", entries[0].Details["updatedBy"])
	assert.Equal(t, models.RoleRegistrar, entries[0].Details["updatedByRole"])
}

func TestSignupIsLimitedToCitizens(t *testing.T) {
	ctx := context.Background()
	co, spy := newCoordinator()

	for _, role := range []string{models.RoleRegistrar, "judge", models.RoleLawyer, models.RolePolice} {
		_, err := co.Signup(ctx, models.NewUser{FullName: "Eve", Email: "eve@court.test", Password: "secret1", Role: role})
		assert.True(t, domainerrors.Is(err, domainerrors.CodeForbidden), role)
	}
	_, err := co.Signup(ctx, models.NewUser{FullName: "X", Email: "x@court.test", Password: "secret1", Role: "mayor"})
	assert.True(t, domainerrors.Is(err, domainerrors.CodeValidation))
	assert.Empty(t, spy.take())

	u, err := co.Signup(ctx, models.NewUser{FullName: "Carl Citizen", Email: "carl@court.test", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)

	entries := spy.take()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionUserSignup, entries[0].Action)
	assert.Equal(t, u.ID, entries[0].ActorID)
}

func TestEnsureRegistrar(t *testing.T) {
	ctx := context.Background()
	co, spy := newCoordinator()

	in := models.NewUser{FullName: "Rita Registrar", Email: "Rita@Court.test", Password: "secret1", Role: models.RoleUser}
	u, err := co.EnsureRegistrar(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleRegistrar, u.Role)

	again, err := co.EnsureRegistrar(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	entries := spy.take()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionUserCreated, entries[0].Action)
}

type mockNotifier struct {
	mock.Mock
	sent chan models.LedgerItem
}

func (m *mockNotifier) AccessDecided(ctx context.Context, requester models.User, item models.LedgerItem) error {
	err := m.Called(requester.ID, item.CaseID).Error(0)
	m.sent <- item
	return err
}

func TestDecisionNotifiesRequester(t *testing.T) {
	ctx := context.Background()
	co, _ := newCoordinator()
	n := &mockNotifier{sent: make(chan models.LedgerItem, 1)}
	n.On("AccessDecided", mock.Anything, "C001").Return(errors.New("mocked-error"))
	co.Notifier = n

	u, err := co.Signup(ctx, models.NewUser{FullName: "Carl Citizen", Email: "carl@court.test", Password: "secret1", Role: models.RoleUser})
	require.NoError(t, err)
	requester := models.Actor{ID: u.ID, Role: u.Role}
	_, err = co.RegisterCase(ctx, registrar, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)
	_, err = co.SubmitAccessRequest(ctx, requester, "C001", "please")
	require.NoError(t, err)

	item, err := co.DecideAccessRequest(ctx, registrar, "C001", "0", "approved", "", false)
	require.NoError(t, err, "a failing notifier must not fail the decision")
	assert.Equal(t, models.DecisionApproved, item.Decision)

	select {
	case sent := <-n.sent:
		assert.Equal(t, u.ID, sent.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestWithActivityRecorder(t *testing.T) {
	ctx := context.Background()
	co, _ := newCoordinator()
	recorder := activity.NewRecorder(databases.NewMemoryActivityDatabase(), activity.Options{})
	co.Audit = recorder

	_, err := co.RegisterCase(ctx, registrar, models.NewCase{Title: "Theft Case"})
	require.NoError(t, err)
	_, err = co.AddEvidence(ctx, registrar, "C001", "Photo A")
	require.NoError(t, err)
	require.NoError(t, recorder.Close(ctx))

	entries, err := co.QueryActivity(ctx, registrar, models.ActivityFilter{TargetID: "C001"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionEvidenceAdded, entries[0].Action)
	assert.False(t, entries[0].At.Before(entries[1].At))
}

type fakeSender struct {
	status int
	last   *mail.SGMailV3
}

func (f *fakeSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.last = email
	return &rest.Response{StatusCode: f.status}, nil
}

func TestEmailNotifier(t *testing.T) {
	sender := &fakeSender{status: 202}
	n := &EmailNotifier{Client: sender, From: "no-reply@court.test", FromName: "Court Records"}
	item := models.LedgerItem{CaseID: "C001", Title: "Theft Case", AccessRequest: models.AccessRequest{Decision: models.DecisionApproved, Note: "ok"}}

	require.NoError(t, n.AccessDecided(context.Background(), models.User{FullName: "Carl", Email: "carl@court.test"}, item))
	require.NotNil(t, sender.last)
	assert.Equal(t, "Your access request for case C001 was approved", sender.last.Subject)

	sender.status = 500
	assert.Error(t, n.AccessDecided(context.Background(), models.User{Email: "carl@court.test"}, item))

	sender.last = nil
	assert.NoError(t, n.AccessDecided(context.Background(), models.User{}, item))
	assert.Nil(t, sender.last)
}
