// Package records owns the authoritative case representation and every mutation of it.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/models"
)

// createAttempts bounds how often Create recounts after losing an id race
const createAttempts = 5

// Store is the case record store
type Store struct {
	DB  databases.CaseDatabase
	now func() time.Time
}

// New returns a Store over db
func New(db databases.CaseDatabase) *Store {
	return &Store{DB: db, now: time.Now}
}

// Classify translates storage errors into domain errors for case id
func Classify(err error, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, databases.ErrNotFound):
		return domainerrors.Wrap(err, domainerrors.CodeNotFound, fmt.Sprintf("case %s not found", id))
	case errors.Is(err, databases.ErrOutOfRange):
		return domainerrors.Wrap(err, domainerrors.CodeNotFound, fmt.Sprintf("access request not found on case %s", id))
	case errors.Is(err, databases.ErrConflict):
		return domainerrors.Wrap(err, domainerrors.CodeConflict, fmt.Sprintf("access request on case %s already decided", id))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domainerrors.Internal("case store timed out", err)
	}
	var de *domainerrors.Error
	if errors.As(err, &de) {
		return err
	}
	return domainerrors.Internal(fmt.Sprintf("case %s store failure", id), err)
}

// Create registers a case with the next sequential id, status Pending and empty lists
func (s *Store) Create(ctx context.Context, fields models.NewCase) (*models.Case, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return nil, domainerrors.Validation("title is required")
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		count, err := s.DB.CountDocuments(ctx)
		if err != nil {
			return nil, Classify(err, "")
		}
		now := s.now()
		c := models.Case{
			ID:           fmt.Sprintf("C%03d", count+1),
			Title:        fields.Title,
			Type:         fields.Type,
			Court:        fields.Court,
			Status:       models.StatusPending,
			Judge:        fields.Judge,
			JudgeID:      fields.JudgeID,
			Lawyer:       fields.Lawyer,
			LawyerID:     fields.LawyerID,
			Description:  fields.Description,
			RegisteredBy: fields.RegisteredBy,
			Accused:      append([]string{}, fields.Accused...),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		c.Normalize()

		err = s.DB.InsertOne(ctx, c)
		if err == nil {
			return &c, nil
		}
		if !errors.Is(err, databases.ErrDuplicate) {
			return nil, Classify(err, c.ID)
		}
		zap.S().Warnw("case id taken, recounting", "id", c.ID, "attempt", attempt+1)
		lastErr = err
	}
	return nil, domainerrors.Wrap(lastErr, domainerrors.CodeConflict, "could not allocate a case id")
}

// Get returns the case with id
func (s *Store) Get(ctx context.Context, id string) (*models.Case, error) {
	c, err := s.DB.FindOne(ctx, id)
	if err != nil {
		return nil, Classify(err, id)
	}
	return c, nil
}

// List returns every case ordered by id
func (s *Store) List(ctx context.Context) ([]models.Case, error) {
	cases, err := s.DB.Find(ctx)
	if err != nil {
		return nil, Classify(err, "")
	}
	if cases == nil {
		cases = []models.Case{}
	}
	return cases, nil
}

// Update shallow-merges patch. Cross-field consistency is not enforced: a judgement set
// here leaves status alone.
func (s *Store) Update(ctx context.Context, id string, patch models.CasePatch) (*models.Case, error) {
	if patch.Empty() {
		return s.Get(ctx, id)
	}
	c, err := s.DB.Set(ctx, id, patch.Fields())
	if err != nil {
		return nil, Classify(err, id)
	}
	return c, nil
}

// Append pushes items onto the case's sequences in one atomic write
func (s *Store) Append(ctx context.Context, id string, items models.CaseAppend) (*models.Case, error) {
	c, err := s.DB.Push(ctx, id, items)
	if err != nil {
		return nil, Classify(err, id)
	}
	return c, nil
}

// AddEvidence appends an evidence item stamped with today's date
func (s *Store) AddEvidence(ctx context.Context, id, name string) (*models.Case, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domainerrors.Validation("evidence name is required")
	}
	return s.Append(ctx, id, models.CaseAppend{Evidence: []models.Evidence{{
		ID:         "E" + uuid.NewString(),
		Name:       name,
		UploadedAt: s.now().Format("2006-01-02"),
	}}})
}

// AddHearing appends a hearing date
func (s *Store) AddHearing(ctx context.Context, id, date string) (*models.Case, error) {
	if strings.TrimSpace(date) == "" {
		return nil, domainerrors.Validation("hearing date is required")
	}
	return s.Append(ctx, id, models.CaseAppend{HearingDates: []string{date}})
}

// AddReport appends a free-text report
func (s *Store) AddReport(ctx context.Context, id, report string) (*models.Case, error) {
	if strings.TrimSpace(report) == "" {
		return nil, domainerrors.Validation("report text is required")
	}
	return s.Append(ctx, id, models.CaseAppend{Reports: []string{report}})
}

// AddDocuments appends document metadata in bulk
func (s *Store) AddDocuments(ctx context.Context, id string, docs []models.Document) (*models.Case, error) {
	if len(docs) == 0 {
		return nil, domainerrors.Validation("at least one document is required")
	}
	now := s.now()
	stamped := make([]models.Document, len(docs))
	for i, d := range docs {
		if strings.TrimSpace(d.Name) == "" {
			return nil, domainerrors.Validation(fmt.Sprintf("document %d has no name", i))
		}
		d.UploadedAt = now
		stamped[i] = d
	}
	return s.Append(ctx, id, models.CaseAppend{Documents: stamped})
}

// AddMessage appends a message from the given sender
func (s *Store) AddMessage(ctx context.Context, id, from, text string) (*models.Case, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domainerrors.Validation("message text is required")
	}
	return s.Append(ctx, id, models.CaseAppend{Messages: []models.Message{{From: from, Text: text, At: s.now()}}})
}

// AddSchedule appends a schedule entry
func (s *Store) AddSchedule(ctx context.Context, id, date, details string) (*models.Case, error) {
	if strings.TrimSpace(date) == "" {
		return nil, domainerrors.Validation("schedule date is required")
	}
	return s.Append(ctx, id, models.CaseAppend{Schedules: []models.Schedule{{Date: date, Details: details}}})
}

// AssignJudge sets whichever of name and judge id were given
func (s *Store) AssignJudge(ctx context.Context, id, name, judgeID string) (*models.Case, error) {
	return s.assign(ctx, id, "judge", name, judgeID)
}

// AssignLawyer sets whichever of name and lawyer id were given
func (s *Store) AssignLawyer(ctx context.Context, id, name, lawyerID string) (*models.Case, error) {
	return s.assign(ctx, id, "lawyer", name, lawyerID)
}

func (s *Store) assign(ctx context.Context, id, role, name, roleID string) (*models.Case, error) {
	if name == "" && roleID == "" {
		return nil, domainerrors.Validation(fmt.Sprintf("%s name or id is required", role))
	}
	fields := map[string]interface{}{}
	if name != "" {
		fields[role] = name
	}
	if roleID != "" {
		fields[role+"Id"] = roleID
	}
	c, err := s.DB.Set(ctx, id, fields)
	if err != nil {
		return nil, Classify(err, id)
	}
	return c, nil
}

// DeliverJudgement sets the judgement and resolves the case in one write
func (s *Store) DeliverJudgement(ctx context.Context, id, text string) (*models.Case, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domainerrors.Validation("judgement text is required")
	}
	c, err := s.DB.Set(ctx, id, map[string]interface{}{
		"judgement": text,
		"status":    models.StatusResolved,
	})
	if err != nil {
		return nil, Classify(err, id)
	}
	return c, nil
}
