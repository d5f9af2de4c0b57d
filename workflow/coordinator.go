// Package workflow sequences every case, ledger and user mutation with exactly one
// activity entry. Entries are only recorded for operations that succeed.
package workflow

import (
	"context"
	"sort"

	"github.com/linesmerrill/court-records-api/auth"
	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/ledger"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/records"
)

// Auditor appends activity entries. Append must not fail the caller.
type Auditor interface {
	Append(actor models.Actor, action, targetType, targetID string, details map[string]interface{}) models.Activity
	Query(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error)
}

// Coordinator exposes the workflow operations
type Coordinator struct {
	Records  *records.Store
	Ledger   *ledger.Ledger
	Audit    Auditor
	Users    databases.UserDatabase
	Tokens   *auth.JWTManager
	Notifier Notifier
}

func requireActor(actor models.Actor) error {
	if !actor.Valid() {
		return domainerrors.Unauthorized("authentication required")
	}
	return nil
}

func (co *Coordinator) caseEvent(actor models.Actor, action, id string, details map[string]interface{}) {
	co.Audit.Append(actor, action, models.TargetCase, id, details)
}

// RegisterCase creates a case registered by the actor unless another registrar is named
func (co *Coordinator) RegisterCase(ctx context.Context, actor models.Actor, fields models.NewCase) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if fields.RegisteredBy == "" {
		fields.RegisteredBy = actor.ID
	}
	c, err := co.Records.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionCaseRegister, c.ID, map[string]interface{}{"title": c.Title})
	return c, nil
}

// GetCase returns one case
func (co *Coordinator) GetCase(ctx context.Context, actor models.Actor, id string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return co.Records.Get(ctx, id)
}

// ListCases returns every case
func (co *Coordinator) ListCases(ctx context.Context, actor models.Actor) ([]models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return co.Records.List(ctx)
}

// ListAssigned returns the cases the actor holds a role on
func (co *Coordinator) ListAssigned(ctx context.Context, actor models.Actor) ([]models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return co.Records.ListAssigned(ctx, actor)
}

// PatchCase merges patch into the case. A patch naming a judge is recorded as a judge
// assignment.
func (co *Coordinator) PatchCase(ctx context.Context, actor models.Actor, id string, patch models.CasePatch) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := co.Records.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	action := models.ActionCaseUpdate
	if patch.TouchesJudge() {
		action = models.ActionJudgeAssigned
	}
	fields := []string{}
	for k := range patch.Fields() {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	details := map[string]interface{}{"fields": fields}
	if patch.UpdatedBy != "" {
		details["updatedBy"] = patch.UpdatedBy
	}
	if patch.UpdatedByRole != "" {
		details["updatedByRole"] = patch.UpdatedByRole
	}
	co.caseEvent(actor, action, c.ID, details)
	return c, nil
}

// AssignJudge sets the judge name and/or id
func (co *Coordinator) AssignJudge(ctx context.Context, actor models.Actor, id, name, judgeID string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := co.Records.AssignJudge(ctx, id, name, judgeID)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionJudgeAssigned, c.ID, map[string]interface{}{"judge": name, "judgeId": judgeID})
	return c, nil
}

// AssignLawyer sets the lawyer name and/or id
func (co *Coordinator) AssignLawyer(ctx context.Context, actor models.Actor, id, name, lawyerID string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := co.Records.AssignLawyer(ctx, id, name, lawyerID)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionLawyerAssigned, c.ID, map[string]interface{}{"lawyer": name, "lawyerId": lawyerID})
	return c, nil
}

// AddHearing appends a hearing date
func (co *Coordinator) AddHearing(ctx context.Context, actor models.Actor, id, date string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := co.Records.AddHearing(ctx, id, date)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionHearingAdded, c.ID, map[string]interface{}{"date": date})
	return c, nil
}

// AddEvidence appends an evidence item
func (co *Coordinator) AddEvidence(ctx context.Context, actor models.Actor, id, name string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := co.Records.AddEvidence(ctx, id, name)
	if err != nil {
		return nil, err
	}
	added := c.Evidence[len(c.Evidence)-1]
	co.caseEvent(actor, models.ActionEvidenceAdded, c.ID, map[string]interface{}{"name": added.Name, "evidenceId": added.ID})
	return c, nil
}

// DeliverJudgement sets the judgement and resolves the case
func (co *Coordinator) DeliverJudgement(ctx context.Context, actor models.Actor, id, text string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := co.Records.DeliverJudgement(ctx, id, text)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionJudgementDelivered, c.ID, map[string]interface{}{"status": c.Status})
	return c, nil
}

// AddReport appends a report
func (co *Coordinator) AddReport(ctx context.Context, actor models.Actor, id, report string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := co.Records.AddReport(ctx, id, report)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionReportSubmitted, c.ID, map[string]interface{}{"size": len(c.Reports)})
	return c, nil
}

// AddDocuments appends document metadata in bulk
func (co *Coordinator) AddDocuments(ctx context.Context, actor models.Actor, id string, docs []models.Document) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := co.Records.AddDocuments(ctx, id, docs)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionDocumentsUploaded, c.ID, map[string]interface{}{"count": len(docs)})
	return c, nil
}

// AddMessage appends a message, sent by the actor unless from names someone else
func (co *Coordinator) AddMessage(ctx context.Context, actor models.Actor, id, from, text string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if from == "" {
		from = actor.ID
	}
	c, err := co.Records.AddMessage(ctx, id, from, text)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionMessageSent, c.ID, map[string]interface{}{"from": from})
	return c, nil
}

// AddSchedule appends a schedule entry
func (co *Coordinator) AddSchedule(ctx context.Context, actor models.Actor, id, date, details string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := co.Records.AddSchedule(ctx, id, date, details)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionScheduleAdded, c.ID, map[string]interface{}{"date": date, "details": details})
	return c, nil
}

// ReportDownload returns the latest report of a case
func (co *Coordinator) ReportDownload(ctx context.Context, actor models.Actor, id string) (*models.ReportDownload, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return co.Records.ReportDownload(ctx, id)
}

// Summary returns a case summary
func (co *Coordinator) Summary(ctx context.Context, actor models.Actor, id string) (*models.CaseSummary, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return co.Records.Summary(ctx, id)
}

// QueryActivity returns audit entries matching f
func (co *Coordinator) QueryActivity(ctx context.Context, actor models.Actor, f models.ActivityFilter) ([]models.Activity, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return co.Audit.Query(ctx, f)
}
