package models

// Request bodies accepted by the HTTP layer

// AssignJudgeRequest names the judge by display name and/or user id
type AssignJudgeRequest struct {
	Judge   string `json:"judge"`
	JudgeID string `json:"judgeId"`
}

// AssignLawyerRequest names the lawyer by display name and/or user id
type AssignLawyerRequest struct {
	Lawyer   string `json:"lawyer"`
	LawyerID string `json:"lawyerId"`
}

// HearingRequest adds a hearing date
type HearingRequest struct {
	Date string `json:"date" validate:"required"`
}

// EvidenceRequest adds an evidence item
type EvidenceRequest struct {
	Name string `json:"name" validate:"required"`
}

// JudgementRequest delivers a judgement
type JudgementRequest struct {
	Judgement string `json:"judgement" validate:"required"`
}

// ReportRequest adds a report
type ReportRequest struct {
	Report string `json:"report" validate:"required"`
}

// DocumentsRequest adds document metadata in bulk
type DocumentsRequest struct {
	Documents []Document `json:"documents" validate:"required,min=1,dive"`
}

// MessageRequest adds a message, From defaults to the caller
type MessageRequest struct {
	From string `json:"from"`
	Text string `json:"text" validate:"required"`
}

// ScheduleRequest adds a schedule entry
type ScheduleRequest struct {
	Date    string `json:"date" validate:"required"`
	Details string `json:"details"`
}

// AccessRequestBody files an access request
type AccessRequestBody struct {
	Request string `json:"request" validate:"required"`
}

// DecisionRequest decides an access request
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved declined"`
	Note     string `json:"note"`
	Override bool   `json:"override"`
}

// BioRequest updates a profile bio
type BioRequest struct {
	Bio string `json:"bio"`
}
