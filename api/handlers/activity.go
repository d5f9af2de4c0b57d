package handlers

import (
	"net/http"
	"strconv"

	"github.com/linesmerrill/court-records-api/activity"
	"github.com/linesmerrill/court-records-api/api"
	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/workflow"
)

// Activity exposes the audit log query and its live feed
type Activity struct {
	WF  *workflow.Coordinator
	Hub *activity.Hub
}

// ActivityListHandler returns entries filtered by role, actorId, targetId and action
func (a Activity) ActivityListHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.ActivityFilter{
		Role:     q.Get("role"),
		ActorID:  q.Get("actorId"),
		TargetID: q.Get("targetId"),
		Action:   q.Get("action"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, domainerrors.Validation("limit must be a non-negative integer"))
			return
		}
		f.Limit = limit
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	entries, err := a.WF.QueryActivity(ctx, actorOf(r), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ActivityFeedHandler upgrades to a websocket receiving every persisted entry
func (a Activity) ActivityFeedHandler(w http.ResponseWriter, r *http.Request) {
	a.Hub.ServeWS(w, r)
}
