package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/court-records-api/api"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/workflow"
)

// Case exposes case record routes
type Case struct {
	WF *workflow.Coordinator
}

// CaseListHandler returns every case
func (c Case) CaseListHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cases, err := c.WF.ListCases(ctx, actorOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// CasesMineHandler returns the cases assigned to or registered by the caller
func (c Case) CasesMineHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cases, err := c.WF.ListAssigned(ctx, actorOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// CreateCaseHandler registers a case
func (c Case) CreateCaseHandler(w http.ResponseWriter, r *http.Request) {
	var body models.NewCase
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	created, err := c.WF.RegisterCase(ctx, actorOf(r), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CaseByIDHandler returns one case
func (c Case) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	found, err := c.WF.GetCase(ctx, actorOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// UpdateCaseHandler merges a partial update into a case
func (c Case) UpdateCaseHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.CasePatch
	if err := decode(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	updated, err := c.WF.PatchCase(ctx, actorOf(r), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// AssignJudgeHandler assigns the judge of a case
func (c Case) AssignJudgeHandler(w http.ResponseWriter, r *http.Request) {
	var body models.AssignJudgeRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	c.respond(w, r, func(ctx context.Context, id string) (*models.Case, error) {
		return c.WF.AssignJudge(ctx, actorOf(r), id, body.Judge, body.JudgeID)
	})
}

// AssignLawyerHandler assigns the lawyer of a case
func (c Case) AssignLawyerHandler(w http.ResponseWriter, r *http.Request) {
	var body models.AssignLawyerRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	c.respond(w, r, func(ctx context.Context, id string) (*models.Case, error) {
		return c.WF.AssignLawyer(ctx, actorOf(r), id, body.Lawyer, body.LawyerID)
	})
}

// AddHearingHandler appends a hearing date
func (c Case) AddHearingHandler(w http.ResponseWriter, r *http.Request) {
	var body models.HearingRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	c.respond(w, r, func(ctx context.Context, id string) (*models.Case, error) {
		return c.WF.AddHearing(ctx, actorOf(r), id, body.Date)
	})
}

// AddEvidenceHandler appends an evidence item and renders the new item
func (c Case) AddEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	var body models.EvidenceRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	updated, err := c.WF.AddEvidence(ctx, actorOf(r), mux.Vars(r)["id"], body.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated.Evidence[len(updated.Evidence)-1])
}

// DeliverJudgementHandler records the judgement and resolves the case
func (c Case) DeliverJudgementHandler(w http.ResponseWriter, r *http.Request) {
	var body models.JudgementRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	c.respond(w, r, func(ctx context.Context, id string) (*models.Case, error) {
		return c.WF.DeliverJudgement(ctx, actorOf(r), id, body.Judgement)
	})
}

// AddReportHandler appends a report and renders the full report list
func (c Case) AddReportHandler(w http.ResponseWriter, r *http.Request) {
	var body models.ReportRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	updated, err := c.WF.AddReport(ctx, actorOf(r), mux.Vars(r)["id"], body.Report)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated.Reports)
}

// AddDocumentsHandler appends document metadata
func (c Case) AddDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	var body models.DocumentsRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	c.respond(w, r, func(ctx context.Context, id string) (*models.Case, error) {
		return c.WF.AddDocuments(ctx, actorOf(r), id, body.Documents)
	})
}

// AddMessageHandler appends a message
func (c Case) AddMessageHandler(w http.ResponseWriter, r *http.Request) {
	var body models.MessageRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	c.respond(w, r, func(ctx context.Context, id string) (*models.Case, error) {
		return c.WF.AddMessage(ctx, actorOf(r), id, body.From, body.Text)
	})
}

// AddScheduleHandler appends a schedule entry
func (c Case) AddScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var body models.ScheduleRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	c.respond(w, r, func(ctx context.Context, id string) (*models.Case, error) {
		return c.WF.AddSchedule(ctx, actorOf(r), id, body.Date, body.Details)
	})
}

// ReportDownloadHandler serves the latest report as <id>-report.json
func (c Case) ReportDownloadHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	report, err := c.WF.ReportDownload(ctx, actorOf(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, id+"-report.json", report)
}

// SummaryDownloadHandler serves the case summary as <id>-summary.json
func (c Case) SummaryDownloadHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	summary, err := c.WF.Summary(ctx, actorOf(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, id+"-summary.json", summary)
}

// respond runs an append against the case named in the path and renders the updated case
func (c Case) respond(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*models.Case, error)) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	updated, err := op(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
