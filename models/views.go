package models

import "time"

// ReportDownload is the attachment served for a case's latest report
type ReportDownload struct {
	CaseID       string    `json:"caseId"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Judge        string    `json:"judge"`
	Lawyer       string    `json:"lawyer"`
	LatestReport string    `json:"latestReport"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// CaseSummary is the attachment served for a case summary download
type CaseSummary struct {
	CaseID        string    `json:"caseId"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Court         string    `json:"court"`
	Judge         string    `json:"judge"`
	Lawyer        string    `json:"lawyer"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	Accused       []string  `json:"accused"`
	HearingDates  []string  `json:"hearingDates"`
	EvidenceCount int       `json:"evidenceCount"`
	ReportsCount  int       `json:"reportsCount"`
	HasJudgement  bool      `json:"hasJudgement"`
	RegisteredBy  string    `json:"registeredBy"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// SummaryOf projects c into a summary stamped at now
func SummaryOf(c Case, now time.Time) CaseSummary {
	return CaseSummary{
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
		RegisteredBy:  c.RegisteredBy,
		GeneratedAt:   now,
	}
}

// DocumentSignature is a signed upload request for the blob store
type DocumentSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder"`
	Preset    string `json:"uploadPreset,omitempty"`
}
