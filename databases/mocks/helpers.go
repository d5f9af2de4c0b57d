// Package mocks holds testify doubles for the databases interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-records-api/databases"
)

// DatabaseHelper is a mock type for the DatabaseHelper type
type DatabaseHelper struct {
	mock.Mock
}

// Collection provides a mock function with given fields: name
func (_m *DatabaseHelper) Collection(name string) databases.CollectionHelper {
	ret := _m.Called(name)
	r0, _ := ret.Get(0).(databases.CollectionHelper)
	return r0
}

// Client provides a mock function with given fields:
func (_m *DatabaseHelper) Client() databases.ClientHelper {
	ret := _m.Called()
	r0, _ := ret.Get(0).(databases.ClientHelper)
	return r0
}

// CollectionHelper is a mock type for the CollectionHelper type
type CollectionHelper struct {
	mock.Mock
}

// FindOne provides a mock function with given fields: ctx, filter, opts
func (_m *CollectionHelper) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) databases.SingleResultHelper {
	args := []interface{}{ctx, filter}
	for _, o := range opts {
		args = append(args, o)
	}
	ret := _m.Called(args...)
	r0, _ := ret.Get(0).(databases.SingleResultHelper)
	return r0
}

// Find provides a mock function with given fields: ctx, filter, opts
func (_m *CollectionHelper) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (databases.CursorHelper, error) {
	args := []interface{}{ctx, filter}
	for _, o := range opts {
		args = append(args, o)
	}
	ret := _m.Called(args...)
	r0, _ := ret.Get(0).(databases.CursorHelper)
	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, document, opts
func (_m *CollectionHelper) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (interface{}, error) {
	args := []interface{}{ctx, document}
	for _, o := range opts {
		args = append(args, o)
	}
	ret := _m.Called(args...)
	return ret.Get(0), ret.Error(1)
}

// FindOneAndUpdate provides a mock function with given fields: ctx, filter, update, opts
func (_m *CollectionHelper) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) databases.SingleResultHelper {
	args := []interface{}{ctx, filter, update}
	for _, o := range opts {
		args = append(args, o)
	}
	ret := _m.Called(args...)
	r0, _ := ret.Get(0).(databases.SingleResultHelper)
	return r0
}

// CountDocuments provides a mock function with given fields: ctx, filter, opts
func (_m *CollectionHelper) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	args := []interface{}{ctx, filter}
	for _, o := range opts {
		args = append(args, o)
	}
	ret := _m.Called(args...)
	r0, _ := ret.Get(0).(int64)
	return r0, ret.Error(1)
}

// DeleteOne provides a mock function with given fields: ctx, filter, opts
func (_m *CollectionHelper) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	args := []interface{}{ctx, filter}
	for _, o := range opts {
		args = append(args, o)
	}
	ret := _m.Called(args...)
	r0, _ := ret.Get(0).(int64)
	return r0, ret.Error(1)
}

// CreateIndexes provides a mock function with given fields: ctx, models
func (_m *CollectionHelper) CreateIndexes(ctx context.Context, models []mongo.IndexModel) error {
	ret := _m.Called(ctx, models)
	return ret.Error(0)
}

// SingleResultHelper is a mock type for the SingleResultHelper type
type SingleResultHelper struct {
	mock.Mock
}

// Decode provides a mock function with given fields: v
func (_m *SingleResultHelper) Decode(v interface{}) error {
	ret := _m.Called(v)
	return ret.Error(0)
}

// CursorHelper is a mock type for the CursorHelper type
type CursorHelper struct {
	mock.Mock
}

// All provides a mock function with given fields: ctx, results
func (_m *CursorHelper) All(ctx context.Context, results interface{}) error {
	ret := _m.Called(ctx, results)
	return ret.Error(0)
}

// Close provides a mock function with given fields: ctx
func (_m *CursorHelper) Close(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// ClientHelper is a mock type for the ClientHelper type
type ClientHelper struct {
	mock.Mock
}

// Database provides a mock function with given fields: name
func (_m *ClientHelper) Database(name string) databases.DatabaseHelper {
	ret := _m.Called(name)
	r0, _ := ret.Get(0).(databases.DatabaseHelper)
	return r0
}

// Connect provides a mock function with given fields: ctx
func (_m *ClientHelper) Connect(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

// Ping provides a mock function with given fields: ctx
func (_m *ClientHelper) Ping(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

// Disconnect provides a mock function with given fields: ctx
func (_m *ClientHelper) Disconnect(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}
