package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/court-records-api/models"
)

const notifyTimeout = 10 * time.Second

// SubmitAccessRequest files a pending access request by the actor
func (co *Coordinator) SubmitAccessRequest(ctx context.Context, actor models.Actor, caseID, text string) (*models.LedgerItem, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	item, err := co.Ledger.Submit(ctx, caseID, actor.ID, text)
	if err != nil {
		return nil, err
	}
	co.caseEvent(actor, models.ActionRequestSubmitted, caseID, map[string]interface{}{
		"request":   text,
		"requestId": item.RequestID,
	})
	return item, nil
}

// DecideAccessRequest approves or declines the entry ref names
func (co *Coordinator) DecideAccessRequest(ctx context.Context, actor models.Actor, caseID, ref, decision, note string, override bool) (*models.LedgerItem, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	item, err := co.Ledger.Decide(ctx, caseID, ref, decision, note, actor.ID, override)
	if err != nil {
		return nil, err
	}
	action := models.ActionRequestApproved
	if item.Decision == models.DecisionDeclined {
		action = models.ActionRequestDeclined
	}
	details := map[string]interface{}{
		"index":     item.Index,
		"requestId": item.RequestID,
		"note":      note,
	}
	if override {
		details["override"] = true
	}
	co.caseEvent(actor, action, caseID, details)
	co.notify(*item)
	return item, nil
}

// notify mails the requester in the background; failures are only logged
func (co *Coordinator) notify(item models.LedgerItem) {
	if co.Notifier == nil || co.Users == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		requester, err := co.Users.FindByID(ctx, item.UserID)
		if err != nil {
			zap.S().Debugw("no requester to notify", "userId", item.UserID, "error", err)
			return
		}
		if err := co.Notifier.AccessDecided(ctx, *requester, item); err != nil {
			zap.S().Errorw("failed to send decision notification", "userId", item.UserID, "caseId", item.CaseID, "error", err)
		}
	}()
}

// ListRequests returns every access request across cases
func (co *Coordinator) ListRequests(ctx context.Context, actor models.Actor) ([]models.LedgerItem, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return co.Ledger.ListAll(ctx)
}

// ListMyRequests returns the actor's own access requests
func (co *Coordinator) ListMyRequests(ctx context.Context, actor models.Actor, decision string) ([]models.RequesterView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return co.Ledger.ListForRequester(ctx, actor.ID, decision)
}

// ApprovedCase returns the full case when the actor holds an approved request on it
func (co *Coordinator) ApprovedCase(ctx context.Context, actor models.Actor, caseID string) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return co.Ledger.ApprovedCase(ctx, caseID, actor.ID)
}
