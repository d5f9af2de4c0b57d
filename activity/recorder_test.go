package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/databases/mocks"
	"github.com/linesmerrill/court-records-api/models"
)

var registrar = models.Actor{ID: "R00001", Role: models.RoleRegistrar}

type captured struct {
	mu      sync.Mutex
	entries []models.Activity
}

func (c *captured) Broadcast(a models.Activity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, a)
}

func TestRecorderPersistsAndQueries(t *testing.T) {
	ctx := context.Background()
	feed := &captured{}
	m := NewMetrics(prometheus.NewRegistry())
	r := NewRecorder(databases.NewMemoryActivityDatabase(), Options{Metrics: m, Broadcaster: feed})

	r.Append(registrar, models.ActionCaseRegister, models.TargetCase, "C001", nil)
	r.Append(models.Actor{ID: "J00001", Role: models.RoleJudge}, models.ActionJudgementDelivered, models.TargetCase, "C001", nil)
	r.Append(registrar, models.ActionCaseRegister, models.TargetCase, "C002", nil)
	require.NoError(t, r.Close(ctx))

	all, err := r.Query(ctx, models.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C002", all[0].TargetID)

	byTarget, err := r.Query(ctx, models.ActivityFilter{TargetID: "C001"})
	require.NoError(t, err)
	assert.Len(t, byTarget, 2)

	byRole, err := r.Query(ctx, models.ActivityFilter{Role: "judge"})
	require.NoError(t, err)
	require.Len(t, byRole, 1)
	assert.Equal(t, models.ActionJudgementDelivered, byRole[0].Action)

	byBoth, err := r.Query(ctx, models.ActivityFilter{ActorID: "R00001", TargetID: "C002"})
	require.NoError(t, err)
	assert.Len(t, byBoth, 1)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.Recorded))
	assert.Len(t, feed.entries, 3)
}

func TestRecorderQueryLimitIsClamped(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(databases.NewMemoryActivityDatabase(), Options{QueryLimit: 2})
	for i := 0; i < 5; i++ {
		r.Append(registrar, models.ActionCaseUpdate, models.TargetCase, "C001", nil)
	}
	require.NoError(t, r.Close(ctx))

	got, err := r.Query(ctx, models.ActivityFilter{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = r.Query(ctx, models.ActivityFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecorderSwallowsPersistFailure(t *testing.T) {
	db := &mocks.ActivityDatabase{}
	db.On("InsertOne", mock.Anything, mock.Anything).Return(errors.New("mocked-error"))
	m := NewMetrics(nil)
	feed := &captured{}
	r := NewRecorder(db, Options{Metrics: m, Broadcaster: feed})

	a := r.Append(registrar, models.ActionUserLogin, models.TargetUser, "R00001", nil)
	assert.NotEmpty(t, a.ID)
	require.NoError(t, r.Close(context.Background()))

	db.AssertNumberOfCalls(t, "InsertOne", 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistFailures))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Recorded))
	assert.Empty(t, feed.entries)
}

func TestRecorderDropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	db := &mocks.ActivityDatabase{}
	db.On("InsertOne", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) { <-release })
	m := NewMetrics(nil)
	r := NewRecorder(db, Options{QueueSize: 1, Metrics: m})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			r.Append(registrar, models.ActionCaseUpdate, models.TargetCase, "C001", nil)
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Append blocked on a full queue")
	}

	// at most one entry in flight and one queued
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.Dropped), float64(8))
	close(release)
	require.NoError(t, r.Close(context.Background()))
}

func TestRecorderDropsAfterClose(t *testing.T) {
	m := NewMetrics(nil)
	r := NewRecorder(databases.NewMemoryActivityDatabase(), Options{Metrics: m})
	require.NoError(t, r.Close(context.Background()))
	require.NoError(t, r.Close(context.Background()))

	r.Append(registrar, models.ActionCaseUpdate, models.TargetCase, "C001", nil)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Dropped))
}

func TestRecorderStampIsMonotonic(t *testing.T) {
	r := NewRecorder(databases.NewMemoryActivityDatabase(), Options{})
	defer r.Close(context.Background())

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Minute), base.Add(time.Second)}
	i := 0
	r.now = func() time.Time {
		t := ticks[i]
		i++
		return t
	}

	first := r.stamp()
	second := r.stamp()
	third := r.stamp()
	assert.Equal(t, base, first)
	assert.Equal(t, base, second)
	assert.Equal(t, base.Add(time.Second), third)
}
