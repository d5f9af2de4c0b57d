package models

import "time"

// Decision is the registrar verdict on an access request
type Decision string

// Decision values
const (
	DecisionPending  Decision = "pending"
	DecisionApproved Decision = "approved"
	DecisionDeclined Decision = "declined"
)

// Terminal reports whether d is a final verdict
func (d Decision) Terminal() bool {
	return d == DecisionApproved || d == DecisionDeclined
}

// AccessRequest is a citizen's ask for case detail, embedded in the case it targets
type AccessRequest struct {
	RequestID   string     `json:"requestId" bson:"requestId"`
	UserID      string     `json:"userId" bson:"userId"`
	CaseID      string     `json:"caseId" bson:"caseId"`
	Request     string     `json:"request" bson:"request"`
	SubmittedAt time.Time  `json:"submittedAt" bson:"submittedAt"`
	Decision    Decision   `json:"decision" bson:"decision"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty" bson:"decidedAt,omitempty"`
	DecidedBy   string     `json:"decidedBy,omitempty" bson:"decidedBy,omitempty"`
	Note        string     `json:"note,omitempty" bson:"note,omitempty"`
}

func (r AccessRequest) clone() AccessRequest {
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		r.DecidedAt = &t
	}
	return r
}

// AccessDecision carries the fields written when an access request is decided
type AccessDecision struct {
	Decision  Decision
	DecidedAt time.Time
	DecidedBy string
	Note      string
}

// ApplyTo writes the decision onto r
func (d AccessDecision) ApplyTo(r *AccessRequest) {
	at := d.DecidedAt
	r.Decision = d.Decision
	r.DecidedAt = &at
	r.DecidedBy = d.DecidedBy
	r.Note = d.Note
}

// LedgerItem is one access request flattened out of its case
type LedgerItem struct {
	CaseID string `json:"caseId"`
	Title  string `json:"title"`
	Index  int    `json:"index"`
	AccessRequest
}

// RequesterView is a requester's access request enriched with display fields from the case
type RequesterView struct {
	CaseID        string     `json:"caseId"`
	Title         string     `json:"title"`
	Type          string     `json:"type"`
	Court         string     `json:"court"`
	Judge         string     `json:"judge"`
	Lawyer        string     `json:"lawyer"`
	Status        string     `json:"status"`
	Description   string     `json:"description"`
	Accused       []string   `json:"accused"`
	HearingDates  []string   `json:"hearingDates"`
	EvidenceCount int        `json:"evidenceCount"`
	ReportsCount  int        `json:"reportsCount"`
	HasJudgement  bool       `json:"hasJudgement"`
	RequestID     string     `json:"requestId"`
	Request       string     `json:"request"`
	Decision      Decision   `json:"decision"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	DecidedBy     *string    `json:"decidedBy"`
	Note          string     `json:"note,omitempty"`
	Index         int        `json:"index"`
}
