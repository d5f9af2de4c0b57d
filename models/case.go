package models

import (
	"strings"
	"time"
)

// Case statuses. Status is otherwise a free-form label.
const (
	StatusPending  = "Pending"
	StatusResolved = "Resolved"
)

// Case holds the structure for the cases collection in mongo
type Case struct {
	ID           string `json:"id" bson:"id"`
	Title        string `json:"title" bson:"title"`
	Type         string `json:"type" bson:"type"`
	Court        string `json:"court" bson:"court"`
	Status       string `json:"status" bson:"status"`
	Judge        string `json:"judge" bson:"judge"`
	JudgeID      string `json:"judgeId" bson:"judgeId"`
	Lawyer       string `json:"lawyer" bson:"lawyer"`
	LawyerID     string `json:"lawyerId" bson:"lawyerId"`
	Judgement    string `json:"judgement" bson:"judgement"`
	Description  string `json:"description" bson:"description"`
	RegisteredBy string `json:"registeredBy" bson:"registeredBy"`

	Accused        []string        `json:"accused" bson:"accused"`
	Evidence       []Evidence      `json:"evidence" bson:"evidence"`
	HearingDates   []string        `json:"hearingDates" bson:"hearingDates"`
	Reports        []string        `json:"reports" bson:"reports"`
	Documents      []Document      `json:"documents" bson:"documents"`
	Requests       []RequestLog    `json:"requests" bson:"requests"`
	AccessRequests []AccessRequest `json:"requestApprovals" bson:"requestApprovals"`
	Messages       []Message       `json:"messages" bson:"messages"`
	Schedules      []Schedule      `json:"schedules" bson:"schedules"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Evidence is a single evidentiary artifact attached to a case
type Evidence struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	UploadedAt string `json:"uploadedAt" bson:"uploadedAt"` // YYYY-MM-DD
}

// Document is upload metadata only, the bytes live in blob storage
type Document struct {
	Name        string    `json:"name" bson:"name" validate:"required"`
	URL         string    `json:"url,omitempty" bson:"url,omitempty"`
	ContentType string    `json:"contentType,omitempty" bson:"contentType,omitempty"`
	Size        int64     `json:"size,omitempty" bson:"size,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

// Message is a free-text note exchanged on a case
type Message struct {
	From string    `json:"from" bson:"from"`
	Text string    `json:"text" bson:"text"`
	At   time.Time `json:"at" bson:"at"`
}

// Schedule is a registrar scheduling entry
type Schedule struct {
	Date    string `json:"date" bson:"date"`
	Details string `json:"details" bson:"details"`
}

// RequestLog is the plain request record kept for display next to the ledger entry
type RequestLog struct {
	UserID  string    `json:"userId" bson:"userId"`
	Request string    `json:"request" bson:"request"`
	At      time.Time `json:"at" bson:"at"`
}

// NewCase holds the fields accepted when registering a case
type NewCase struct {
	Title        string   `json:"title" validate:"required"`
	Type         string   `json:"type"`
	Court        string   `json:"court"`
	Judge        string   `json:"judge"`
	JudgeID      string   `json:"judgeId"`
	Lawyer       string   `json:"lawyer"`
	LawyerID     string   `json:"lawyerId"`
	Accused      []string `json:"accused"`
	Description  string   `json:"description"`
	RegisteredBy string   `json:"registeredBy"`
}

// CasePatch is a shallow partial update, nil fields are left untouched
type CasePatch struct {
	Title       *string   `json:"title,omitempty"`
	Type        *string   `json:"type,omitempty"`
	Court       *string   `json:"court,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Judge       *string   `json:"judge,omitempty"`
	JudgeID     *string   `json:"judgeId,omitempty"`
	Lawyer      *string   `json:"lawyer,omitempty"`
	LawyerID    *string   `json:"lawyerId,omitempty"`
	Judgement   *string   `json:"judgement,omitempty"`
	Description *string   `json:"description,omitempty"`
	Accused     *[]string `json:"accused,omitempty"`

	// UpdatedBy and UpdatedByRole are the caller's own claim of authorship. They are
	// kept as audit details only; the audited actor always comes from the token.
	UpdatedBy     string `json:"updatedBy,omitempty"`
	UpdatedByRole string `json:"updatedByRole,omitempty"`
}

// Fields returns the set fields keyed by their stored names
func (p CasePatch) Fields() map[string]interface{} {
	f := map[string]interface{}{}
	put := func(k string, v *string) {
		if v != nil {
			f[k] = *v
		}
	}
	put("title", p.Title)
	put("type", p.Type)
	put("court", p.Court)
	put("status", p.Status)
	put("judge", p.Judge)
	put("judgeId", p.JudgeID)
	put("lawyer", p.Lawyer)
	put("lawyerId", p.LawyerID)
	put("judgement", p.Judgement)
	put("description", p.Description)
	if p.Accused != nil {
		f["accused"] = append([]string{}, (*p.Accused)...)
	}
	return f
}

// Empty reports whether the patch sets nothing
func (p CasePatch) Empty() bool {
	return len(p.Fields()) == 0
}

// TouchesJudge reports whether the patch carries a non-empty judge name or id
func (p CasePatch) TouchesJudge() bool {
	return (p.Judge != nil && *p.Judge != "") || (p.JudgeID != nil && *p.JudgeID != "")
}

// ApplyTo merges the patch into c
func (p CasePatch) ApplyTo(c *Case) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.Title, p.Title)
	set(&c.Type, p.Type)
	set(&c.Court, p.Court)
	set(&c.Status, p.Status)
	set(&c.Judge, p.Judge)
	set(&c.JudgeID, p.JudgeID)
	set(&c.Lawyer, p.Lawyer)
	set(&c.LawyerID, p.LawyerID)
	set(&c.Judgement, p.Judgement)
	set(&c.Description, p.Description)
	if p.Accused != nil {
		c.Accused = append([]string{}, (*p.Accused)...)
	}
}

// CaseAppend lists items to push onto a case's embedded sequences in one write
type CaseAppend struct {
	Evidence       []Evidence
	HearingDates   []string
	Reports        []string
	Documents      []Document
	Requests       []RequestLog
	AccessRequests []AccessRequest
	Messages       []Message
	Schedules      []Schedule
}

// Fields returns the non-empty sequences keyed by their stored names
func (a CaseAppend) Fields() map[string]interface{} {
	f := map[string]interface{}{}
	if len(a.Evidence) > 0 {
		f["evidence"] = a.Evidence
	}
	if len(a.HearingDates) > 0 {
		f["hearingDates"] = a.HearingDates
	}
	if len(a.Reports) > 0 {
		f["reports"] = a.Reports
	}
	if len(a.Documents) > 0 {
		f["documents"] = a.Documents
	}
	if len(a.Requests) > 0 {
		f["requests"] = a.Requests
	}
	if len(a.AccessRequests) > 0 {
		f["requestApprovals"] = a.AccessRequests
	}
	if len(a.Messages) > 0 {
		f["messages"] = a.Messages
	}
	if len(a.Schedules) > 0 {
		f["schedules"] = a.Schedules
	}
	return f
}

// ApplyTo appends every item onto c
func (a CaseAppend) ApplyTo(c *Case) {
	c.Evidence = append(c.Evidence, a.Evidence...)
	c.HearingDates = append(c.HearingDates, a.HearingDates...)
	c.Reports = append(c.Reports, a.Reports...)
	c.Documents = append(c.Documents, a.Documents...)
	c.Requests = append(c.Requests, a.Requests...)
	c.AccessRequests = append(c.AccessRequests, a.AccessRequests...)
	c.Messages = append(c.Messages, a.Messages...)
	c.Schedules = append(c.Schedules, a.Schedules...)
}

// Normalize makes every sequence non-nil so stored and returned cases render [] instead of null
func (c *Case) Normalize() {
	if c.Accused == nil {
		c.Accused = []string{}
	}
	if c.Evidence == nil {
		c.Evidence = []Evidence{}
	}
	if c.HearingDates == nil {
		c.HearingDates = []string{}
	}
	if c.Reports == nil {
		c.Reports = []string{}
	}
	if c.Documents == nil {
		c.Documents = []Document{}
	}
	if c.Requests == nil {
		c.Requests = []RequestLog{}
	}
	if c.AccessRequests == nil {
		c.AccessRequests = []AccessRequest{}
	}
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	if c.Schedules == nil {
		c.Schedules = []Schedule{}
	}
}

// Clone returns a deep copy of c
func (c Case) Clone() Case {
	out := c
	out.Accused = append([]string{}, c.Accused...)
	out.Evidence = append([]Evidence{}, c.Evidence...)
	out.HearingDates = append([]string{}, c.HearingDates...)
	out.Reports = append([]string{}, c.Reports...)
	out.Documents = append([]Document{}, c.Documents...)
	out.Requests = append([]RequestLog{}, c.Requests...)
	out.AccessRequests = make([]AccessRequest, len(c.AccessRequests))
	for i, r := range c.AccessRequests {
		out.AccessRequests[i] = r.clone()
	}
	out.Messages = append([]Message{}, c.Messages...)
	out.Schedules = append([]Schedule{}, c.Schedules...)
	return out
}

// AssignedTo reports whether the actor holds a role on the case
func (c Case) AssignedTo(actor Actor) bool {
	switch strings.ToLower(actor.Role) {
	case strings.ToLower(RoleJudge):
		return c.JudgeID == actor.ID
	case strings.ToLower(RoleLawyer):
		return c.LawyerID == actor.ID
	default:
		return c.RegisteredBy == actor.ID
	}
}
