package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linesmerrill/court-records-api/models"
)

// CaseDatabase is a mock type for the CaseDatabase type
type CaseDatabase struct {
	mock.Mock
}

func caseResult(ret mock.Arguments) (*models.Case, error) {
	r0, _ := ret.Get(0).(*models.Case)
	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, c
func (_m *CaseDatabase) InsertOne(ctx context.Context, c models.Case) error {
	return _m.Called(ctx, c).Error(0)
}

// CountDocuments provides a mock function with given fields: ctx
func (_m *CaseDatabase) CountDocuments(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).(int64)
	return r0, ret.Error(1)
}

// FindOne provides a mock function with given fields: ctx, id
func (_m *CaseDatabase) FindOne(ctx context.Context, id string) (*models.Case, error) {
	return caseResult(_m.Called(ctx, id))
}

// Find provides a mock function with given fields: ctx
func (_m *CaseDatabase) Find(ctx context.Context) ([]models.Case, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]models.Case)
	return r0, ret.Error(1)
}

// Set provides a mock function with given fields: ctx, id, fields
func (_m *CaseDatabase) Set(ctx context.Context, id string, fields map[string]interface{}) (*models.Case, error) {
	return caseResult(_m.Called(ctx, id, fields))
}

// Push provides a mock function with given fields: ctx, id, items
func (_m *CaseDatabase) Push(ctx context.Context, id string, items models.CaseAppend) (*models.Case, error) {
	return caseResult(_m.Called(ctx, id, items))
}

// DecideAccessRequest provides a mock function with given fields: ctx, id, index, d, override
func (_m *CaseDatabase) DecideAccessRequest(ctx context.Context, id string, index int, d models.AccessDecision, override bool) (*models.Case, error) {
	return caseResult(_m.Called(ctx, id, index, d, override))
}

// EnsureIndexes provides a mock function with given fields: ctx
func (_m *CaseDatabase) EnsureIndexes(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

// ActivityDatabase is a mock type for the ActivityDatabase type
type ActivityDatabase struct {
	mock.Mock
}

// InsertOne provides a mock function with given fields: ctx, a
func (_m *ActivityDatabase) InsertOne(ctx context.Context, a models.Activity) error {
	return _m.Called(ctx, a).Error(0)
}

// Find provides a mock function with given fields: ctx, f
func (_m *ActivityDatabase) Find(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	ret := _m.Called(ctx, f)
	r0, _ := ret.Get(0).([]models.Activity)
	return r0, ret.Error(1)
}

// EnsureIndexes provides a mock function with given fields: ctx
func (_m *ActivityDatabase) EnsureIndexes(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

// UserDatabase is a mock type for the UserDatabase type
type UserDatabase struct {
	mock.Mock
}

func userResult(ret mock.Arguments) (*models.User, error) {
	r0, _ := ret.Get(0).(*models.User)
	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, u
func (_m *UserDatabase) InsertOne(ctx context.Context, u models.User) error {
	return _m.Called(ctx, u).Error(0)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *UserDatabase) FindByID(ctx context.Context, id string) (*models.User, error) {
	return userResult(_m.Called(ctx, id))
}

// FindByEmail provides a mock function with given fields: ctx, email
func (_m *UserDatabase) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return userResult(_m.Called(ctx, email))
}

// Find provides a mock function with given fields: ctx
func (_m *UserDatabase) Find(ctx context.Context) ([]models.User, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]models.User)
	return r0, ret.Error(1)
}

// UpdateBio provides a mock function with given fields: ctx, id, bio
func (_m *UserDatabase) UpdateBio(ctx context.Context, id, bio string) (*models.User, error) {
	return userResult(_m.Called(ctx, id, bio))
}

// DeleteOne provides a mock function with given fields: ctx, id
func (_m *UserDatabase) DeleteOne(ctx context.Context, id string) error {
	return _m.Called(ctx, id).Error(0)
}

// EnsureIndexes provides a mock function with given fields: ctx
func (_m *UserDatabase) EnsureIndexes(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}
