package records

import (
	"context"

	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/models"
)

// ListAssigned returns the cases the actor holds a role on: judge and lawyer by their
// assignment id, everyone else by registration.
func (s *Store) ListAssigned(ctx context.Context, actor models.Actor) ([]models.Case, error) {
	cases, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Case{}
	for _, c := range cases {
		if c.AssignedTo(actor) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListForJudge returns the cases assigned to judgeID
func (s *Store) ListForJudge(ctx context.Context, judgeID string) ([]models.Case, error) {
	return s.ListAssigned(ctx, models.Actor{ID: judgeID, Role: models.RoleJudge})
}

// ListForLawyer returns the cases assigned to lawyerID
func (s *Store) ListForLawyer(ctx context.Context, lawyerID string) ([]models.Case, error) {
	return s.ListAssigned(ctx, models.Actor{ID: lawyerID, Role: models.RoleLawyer})
}

// ListRegisteredBy returns the cases registered by actorID
func (s *Store) ListRegisteredBy(ctx context.Context, actorID string) ([]models.Case, error) {
	return s.ListAssigned(ctx, models.Actor{ID: actorID, Role: models.RoleRegistrar})
}

// ReportDownload returns the latest report of the case
func (s *Store) ReportDownload(ctx context.Context, id string) (*models.ReportDownload, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(c.Reports) == 0 {
		return nil, domainerrors.NotFound("no reports found for case " + id)
	}
	return &models.ReportDownload{
		CaseID:       c.ID,
		Title:        c.Title,
		Status:       c.Status,
		Judge:        c.Judge,
		Lawyer:       c.Lawyer,
		LatestReport: c.Reports[len(c.Reports)-1],
		GeneratedAt:  s.now(),
	}, nil
}

// Summary returns a downloadable summary of the case
func (s *Store) Summary(ctx context.Context, id string) (*models.CaseSummary, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := models.SummaryOf(*c, s.now())
	return &summary, nil
}
