package databases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/linesmerrill/court-records-api/models"
)

// The memory databases back the api when no mongo deployment is reachable and back the
// unit tests. They honor the same contract as the mongo implementations: values are
// copied on the way in and out, and every case mutation is serialized per case id.

type memCase struct {
	mu sync.Mutex
	c  models.Case
}

type memoryCaseDatabase struct {
	mu    sync.RWMutex
	cases map[string]*memCase
	order []string
	now   func() time.Time
}

// NewMemoryCaseDatabase returns an empty in-process case database
func NewMemoryCaseDatabase() CaseDatabase {
	return &memoryCaseDatabase{
		cases: map[string]*memCase{},
		now:   time.Now,
	}
}

func (m *memoryCaseDatabase) InsertOne(_ context.Context, c models.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cases[c.ID]; ok {
		return fmt.Errorf("insert case %s: %w", c.ID, ErrDuplicate)
	}
	c = c.Clone()
	c.Normalize()
	m.cases[c.ID] = &memCase{c: c}
	m.order = append(m.order, c.ID)
	return nil
}

func (m *memoryCaseDatabase) CountDocuments(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.order)), nil
}

func (m *memoryCaseDatabase) lookup(id string) (*memCase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mc, ok := m.cases[id]
	if !ok {
		return nil, fmt.Errorf("find case %s: %w", id, ErrNotFound)
	}
	return mc, nil
}

func (m *memoryCaseDatabase) FindOne(_ context.Context, id string) (*models.Case, error) {
	mc, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	out := mc.c.Clone()
	return &out, nil
}

func (m *memoryCaseDatabase) Find(_ context.Context) ([]models.Case, error) {
	m.mu.RLock()
	entries := make([]*memCase, 0, len(m.order))
	for _, id := range m.order {
		entries = append(entries, m.cases[id])
	}
	m.mu.RUnlock()

	cases := make([]models.Case, 0, len(entries))
	for _, mc := range entries {
		mc.mu.Lock()
		cases = append(cases, mc.c.Clone())
		mc.mu.Unlock()
	}
	return cases, nil
}

// mutate runs fn on the stored case under its lock and returns a copy of the result
func (m *memoryCaseDatabase) mutate(id string, fn func(c *models.Case) error) (*models.Case, error) {
	mc, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if err := fn(&mc.c); err != nil {
		return nil, err
	}
	mc.c.UpdatedAt = m.now()
	out := mc.c.Clone()
	return &out, nil
}

func (m *memoryCaseDatabase) Set(_ context.Context, id string, fields map[string]interface{}) (*models.Case, error) {
	return m.mutate(id, func(c *models.Case) error {
		return setFields(c, fields)
	})
}

func (m *memoryCaseDatabase) Push(_ context.Context, id string, items models.CaseAppend) (*models.Case, error) {
	return m.mutate(id, func(c *models.Case) error {
		items.ApplyTo(c)
		return nil
	})
}

func (m *memoryCaseDatabase) DecideAccessRequest(_ context.Context, id string, index int, d models.AccessDecision, override bool) (*models.Case, error) {
	return m.mutate(id, func(c *models.Case) error {
		if index < 0 || index >= len(c.AccessRequests) {
			return fmt.Errorf("decide %s[%d]: %w", id, index, ErrOutOfRange)
		}
		if !override && c.AccessRequests[index].Decision != models.DecisionPending {
			return fmt.Errorf("decide %s[%d]: %w", id, index, ErrConflict)
		}
		d.ApplyTo(&c.AccessRequests[index])
		return nil
	})
}

func (m *memoryCaseDatabase) EnsureIndexes(context.Context) error { return nil }

// setFields applies the stored-name keyed fields produced by CasePatch.Fields and friends
func setFields(c *models.Case, fields map[string]interface{}) error {
	for k, v := range fields {
		switch k {
		case "accused":
			list, ok := v.([]string)
			if !ok {
				return fmt.Errorf("set %s: unexpected type %T", k, v)
			}
			c.Accused = append([]string{}, list...)
			continue
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("set %s: unexpected type %T", k, v)
		}
		switch k {
		case "title":
			c.Title = s
		case "type":
			c.Type = s
		case "court":
			c.Court = s
		case "status":
			c.Status = s
		case "judge":
			c.Judge = s
		case "judgeId":
			c.JudgeID = s
		case "lawyer":
			c.Lawyer = s
		case "lawyerId":
			c.LawyerID = s
		case "judgement":
			c.Judgement = s
		case "description":
			c.Description = s
		default:
			return fmt.Errorf("set %s: unknown field", k)
		}
	}
	return nil
}

type memoryActivityDatabase struct {
	mu      sync.RWMutex
	entries []models.Activity
}

// NewMemoryActivityDatabase returns an empty in-process activity database
func NewMemoryActivityDatabase() ActivityDatabase {
	return &memoryActivityDatabase{}
}

func (m *memoryActivityDatabase) InsertOne(_ context.Context, a models.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, copyActivity(a))
	return nil
}

func (m *memoryActivityDatabase) Find(_ context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Activity{}
	for i := len(m.entries) - 1; i >= 0; i-- {
		if f.Matches(m.entries[i]) {
			out = append(out, copyActivity(m.entries[i]))
		}
	}
	// entries are kept in arrival order; a stable sort keeps ties newest-arrival first
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memoryActivityDatabase) EnsureIndexes(context.Context) error { return nil }

func copyActivity(a models.Activity) models.Activity {
	if a.Details != nil {
		d := make(map[string]interface{}, len(a.Details))
		for k, v := range a.Details {
			d[k] = v
		}
		a.Details = d
	}
	return a
}

type memoryUserDatabase struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryUserDatabase returns an empty in-process user database
func NewMemoryUserDatabase() UserDatabase {
	return &memoryUserDatabase{users: map[string]models.User{}}
}

func (m *memoryUserDatabase) InsertOne(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return fmt.Errorf("insert user %s: %w", u.ID, ErrDuplicate)
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("insert user %s: %w", u.ID, ErrDuplicate)
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memoryUserDatabase) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("find user %s: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (m *memoryUserDatabase) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("find user %s: %w", email, ErrNotFound)
}

func (m *memoryUserDatabase) Find(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName < users[j].FullName })
	return users, nil
}

func (m *memoryUserDatabase) UpdateBio(_ context.Context, id, bio string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("update user %s: %w", id, ErrNotFound)
	}
	u.Bio = bio
	m.users[id] = u
	return &u, nil
}

func (m *memoryUserDatabase) DeleteOne(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	delete(m.users, id)
	return nil
}

func (m *memoryUserDatabase) EnsureIndexes(context.Context) error { return nil }
