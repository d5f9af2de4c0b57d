// Package ledger exposes the access requests embedded in each case as one cross-case ledger.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/records"
)

// Ledger is the access request ledger
type Ledger struct {
	DB    databases.CaseDatabase
	now   func() time.Time
	newID func() string
}

// New returns a Ledger over db
func New(db databases.CaseDatabase) *Ledger {
	return &Ledger{DB: db, now: time.Now, newID: uuid.NewString}
}

// Submit appends a pending access request and the plain request log item in one write
func (l *Ledger) Submit(ctx context.Context, caseID, requesterID, text string) (*models.LedgerItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domainerrors.Validation("request text is required")
	}
	now := l.now()
	entry := models.AccessRequest{
		RequestID:   l.newID(),
		UserID:      requesterID,
		CaseID:      caseID,
		Request:     text,
		SubmittedAt: now,
		Decision:    models.DecisionPending,
	}
	c, err := l.DB.Push(ctx, caseID, models.CaseAppend{
		Requests:       []models.RequestLog{{UserID: requesterID, Request: text, At: now}},
		AccessRequests: []models.AccessRequest{entry},
	})
	if err != nil {
		return nil, records.Classify(err, caseID)
	}
	idx := indexOf(c, entry.RequestID)
	if idx < 0 {
		return nil, domainerrors.Internal("submitted request missing from case "+caseID, nil)
	}
	item := itemOf(c, idx)
	return &item, nil
}

// ListAll flattens every case's ledger, newest submission first
func (l *Ledger) ListAll(ctx context.Context) ([]models.LedgerItem, error) {
	cases, err := l.DB.Find(ctx)
	if err != nil {
		return nil, records.Classify(err, "")
	}
	items := []models.LedgerItem{}
	for i := range cases {
		for idx := range cases[i].AccessRequests {
			items = append(items, itemOf(&cases[i], idx))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SubmittedAt.After(items[j].SubmittedAt)
	})
	return items, nil
}

// ParseDecisionFilter accepts "", pending, approved or declined
func ParseDecisionFilter(v string) (models.Decision, error) {
	switch d := models.Decision(v); d {
	case "", models.DecisionPending, models.DecisionApproved, models.DecisionDeclined:
		return d, nil
	}
	return "", domainerrors.Validation(fmt.Sprintf("invalid decision filter %q", v))
}

// ListForRequester returns the requester's entries, optionally narrowed to one decision,
// each enriched with display fields of its case
func (l *Ledger) ListForRequester(ctx context.Context, requesterID, decision string) ([]models.RequesterView, error) {
	filter, err := ParseDecisionFilter(decision)
	if err != nil {
		return nil, err
	}
	cases, err := l.DB.Find(ctx)
	if err != nil {
		return nil, records.Classify(err, "")
	}
	views := []models.RequesterView{}
	for _, c := range cases {
		for idx, r := range c.AccessRequests {
			if r.UserID != requesterID || (filter != "" && r.Decision != filter) {
				continue
			}
			views = append(views, viewOf(c, idx))
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].SubmittedAt.After(views[j].SubmittedAt)
	})
	return views, nil
}

// ParseDecision accepts exactly approved or declined
func ParseDecision(v string) (models.Decision, error) {
	d := models.Decision(v)
	if !d.Terminal() {
		return "", domainerrors.Validation(fmt.Sprintf("decision must be %q or %q", models.DecisionApproved, models.DecisionDeclined))
	}
	return d, nil
}

// Decide records a registrar decision on the entry ref names, either its positional index
// or its request id. A decided entry is only rewritten when override is set.
func (l *Ledger) Decide(ctx context.Context, caseID, ref, decision, note, deciderID string, override bool) (*models.LedgerItem, error) {
	d, err := ParseDecision(decision)
	if err != nil {
		return nil, err
	}
	idx, err := l.resolve(ctx, caseID, ref)
	if err != nil {
		return nil, err
	}
	c, err := l.DB.DecideAccessRequest(ctx, caseID, idx, models.AccessDecision{
		Decision:  d,
		DecidedAt: l.now(),
		DecidedBy: deciderID,
		Note:      note,
	}, override)
	if err != nil {
		return nil, records.Classify(err, caseID)
	}
	item := itemOf(c, idx)
	return &item, nil
}

func (l *Ledger) resolve(ctx context.Context, caseID, ref string) (int, error) {
	if idx, err := strconv.Atoi(ref); err == nil {
		if idx < 0 {
			return 0, domainerrors.NotFound(fmt.Sprintf("access request %d not found on case %s", idx, caseID))
		}
		return idx, nil
	}
	c, err := l.DB.FindOne(ctx, caseID)
	if err != nil {
		return 0, records.Classify(err, caseID)
	}
	idx := indexOf(c, ref)
	if idx < 0 {
		return 0, domainerrors.NotFound(fmt.Sprintf("access request %s not found on case %s", ref, caseID))
	}
	return idx, nil
}

// ApprovedCase returns the full case when requesterID holds an approved request on it
func (l *Ledger) ApprovedCase(ctx context.Context, caseID, requesterID string) (*models.Case, error) {
	c, err := l.DB.FindOne(ctx, caseID)
	if err != nil {
		return nil, records.Classify(err, caseID)
	}
	for _, r := range c.AccessRequests {
		if r.UserID == requesterID && r.Decision == models.DecisionApproved {
			return c, nil
		}
	}
	return nil, domainerrors.Forbidden("no approved access request for case " + caseID)
}

// Pending returns the entries still pending that were submitted more than olderThan ago
func (l *Ledger) Pending(ctx context.Context, olderThan time.Duration) ([]models.LedgerItem, error) {
	items, err := l.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := l.now().Add(-olderThan)
	out := []models.LedgerItem{}
	for _, it := range items {
		if it.Decision == models.DecisionPending && it.SubmittedAt.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out, nil
}

func indexOf(c *models.Case, requestID string) int {
	for i, r := range c.AccessRequests {
		if r.RequestID == requestID {
			return i
		}
	}
	return -1
}

func itemOf(c *models.Case, idx int) models.LedgerItem {
	return models.LedgerItem{
		CaseID:        c.ID,
		Title:         c.Title,
		Index:         idx,
		AccessRequest: c.AccessRequests[idx],
	}
}

func viewOf(c models.Case, idx int) models.RequesterView {
	r := c.AccessRequests[idx]
	v := models.RequesterView{
		CaseID:        c.ID,
		Title:         c.Title,
		Type:          c.Type,
		Court:         c.Court,
		Judge:         c.Judge,
		Lawyer:        c.Lawyer,
		Status:        c.Status,
		Description:   c.Description,
		Accused:       append([]string{}, c.Accused...),
		HearingDates:  append([]string{}, c.HearingDates...),
		EvidenceCount: len(c.Evidence),
		ReportsCount:  len(c.Reports),
		HasJudgement:  c.Judgement != "",
		RequestID:     r.RequestID,
		Request:       r.Request,
		Decision:      r.Decision,
		SubmittedAt:   r.SubmittedAt,
		DecidedAt:     r.DecidedAt,
		Note:          r.Note,
		Index:         idx,
	}
	if r.DecidedBy != "" {
		by := r.DecidedBy
		v.DecidedBy = &by
	}
	return v
}
