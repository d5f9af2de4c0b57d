package models

import "time"

// Activity actions recorded in the audit log
const (
	ActionCaseRegister       = "CASE_REGISTER"
	ActionCaseUpdate         = "CASE_UPDATE"
	ActionJudgeAssigned      = "JUDGE_ASSIGNED"
	ActionLawyerAssigned     = "LAWYER_ASSIGNED"
	ActionHearingAdded       = "HEARING_ADDED"
	ActionEvidenceAdded      = "EVIDENCE_ADDED"
	ActionJudgementDelivered = "JUDGEMENT_DELIVERED"
	ActionReportSubmitted    = "REPORT_SUBMITTED"
	ActionDocumentsUploaded  = "DOCUMENTS_UPLOADED"
	ActionMessageSent        = "MESSAGE_SENT"
	ActionRequestSubmitted   = "REQUEST_SUBMITTED"
	ActionRequestApproved    = "REQUEST_APPROVED"
	ActionRequestDeclined    = "REQUEST_DECLINED"
	ActionScheduleAdded      = "SCHEDULE_ADDED"
	ActionUserLogin          = "USER_LOGIN"
	ActionUserSignup         = "USER_SIGNUP"
	ActionUserCreated        = "USER_CREATED"
	ActionUserUpdated        = "USER_UPDATED"
	ActionUserDeleted        = "USER_DELETED"
)

// Activity target types
const (
	TargetCase = "Case"
	TargetUser = "User"
)

// Activity is one append-only audit log entry
type Activity struct {
	ID         string                 `json:"id" bson:"id"`
	ActorID    string                 `json:"actorId" bson:"actorId"`
	ActorRole  string                 `json:"actorRole" bson:"actorRole"`
	Action     string                 `json:"action" bson:"action"`
	TargetType string                 `json:"targetType" bson:"targetType"`
	TargetID   string                 `json:"targetId" bson:"targetId"`
	Details    map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	At         time.Time              `json:"at" bson:"at"`
}

// ActivityFilter narrows an activity query, empty fields match everything
type ActivityFilter struct {
	Role     string
	ActorID  string
	TargetID string
	Action   string
	Limit    int
}

// Matches reports whether a satisfies every set field of f
func (f ActivityFilter) Matches(a Activity) bool {
	if f.Role != "" && a.ActorRole != f.Role {
		return false
	}
	if f.ActorID != "" && a.ActorID != f.ActorID {
		return false
	}
	if f.TargetID != "" && a.TargetID != f.TargetID {
		return false
	}
	if f.Action != "" && a.Action != f.Action {
		return false
	}
	return true
}
