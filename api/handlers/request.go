package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/court-records-api/api"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/workflow"
)

// Request exposes the access request ledger routes
type Request struct {
	WF *workflow.Coordinator
}

// SubmitRequestHandler files an access request on the case in the path
func (q Request) SubmitRequestHandler(w http.ResponseWriter, r *http.Request) {
	var body models.AccessRequestBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	item, err := q.WF.SubmitAccessRequest(ctx, actorOf(r), mux.Vars(r)["id"], body.Request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// DecisionHandler approves or declines the request named by index or request id
func (q Request) DecisionHandler(w http.ResponseWriter, r *http.Request) {
	var body models.DecisionRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	vars := mux.Vars(r)
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	item, err := q.WF.DecideAccessRequest(ctx, actorOf(r), vars["id"], vars["ref"], body.Decision, body.Note, body.Override)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// RequestListHandler returns every access request across cases
func (q Request) RequestListHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	items, err := q.WF.ListRequests(ctx, actorOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// MyRequestsHandler returns the caller's requests, optionally filtered by ?decision=
func (q Request) MyRequestsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	views, err := q.WF.ListMyRequests(ctx, actorOf(r), r.URL.Query().Get("decision"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// ApprovedCaseHandler returns the full case to a requester holding an approved request
func (q Request) ApprovedCaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	c, err := q.WF.ApprovedCase(ctx, actorOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
