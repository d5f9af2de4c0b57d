package databases

// go generate: mockery --name CaseDatabase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-records-api/models"
)

const caseName = "cases"

// CaseDatabase contains the methods to use with the case database. Every mutation is a
// single atomic write against one case document and returns the case as stored after it.
type CaseDatabase interface {
	InsertOne(ctx context.Context, c models.Case) error
	CountDocuments(ctx context.Context) (int64, error)
	FindOne(ctx context.Context, id string) (*models.Case, error)
	Find(ctx context.Context) ([]models.Case, error)
	Set(ctx context.Context, id string, fields map[string]interface{}) (*models.Case, error)
	Push(ctx context.Context, id string, items models.CaseAppend) (*models.Case, error)
	DecideAccessRequest(ctx context.Context, id string, index int, d models.AccessDecision, override bool) (*models.Case, error)
	EnsureIndexes(ctx context.Context) error
}

type caseDatabase struct {
	db  DatabaseHelper
	now func() time.Time
}

// NewCaseDatabase initializes a new instance of case database with the provided db connection
func NewCaseDatabase(db DatabaseHelper) CaseDatabase {
	return &caseDatabase{
		db:  db,
		now: time.Now,
	}
}

func (c *caseDatabase) coll() CollectionHelper {
	return c.db.Collection(caseName)
}

func (c *caseDatabase) InsertOne(ctx context.Context, cs models.Case) error {
	cs.Normalize()
	if _, err := c.coll().InsertOne(ctx, cs); err != nil {
		return fmt.Errorf("insert case %s: %w", cs.ID, translate(err))
	}
	return nil
}

func (c *caseDatabase) CountDocuments(ctx context.Context) (int64, error) {
	return c.coll().CountDocuments(ctx, bson.M{})
}

func (c *caseDatabase) FindOne(ctx context.Context, id string) (*models.Case, error) {
	cs := &models.Case{}
	if err := c.coll().FindOne(ctx, bson.M{"id": id}).Decode(cs); err != nil {
		return nil, fmt.Errorf("find case %s: %w", id, translate(err))
	}
	cs.Normalize()
	return cs, nil
}

func (c *caseDatabase) Find(ctx context.Context) ([]models.Case, error) {
	var cases []models.Case
	cur, err := c.coll().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &cases); err != nil {
		return nil, err
	}
	for i := range cases {
		cases[i].Normalize()
	}
	return cases, nil
}

func (c *caseDatabase) Set(ctx context.Context, id string, fields map[string]interface{}) (*models.Case, error) {
	set := bson.M{"updatedAt": c.now()}
	for k, v := range fields {
		set[k] = v
	}
	return c.findOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set})
}

// Push appends every item with $push/$each so concurrent writers never lose each other's items
func (c *caseDatabase) Push(ctx context.Context, id string, items models.CaseAppend) (*models.Case, error) {
	push := bson.M{}
	for k, v := range items.Fields() {
		push[k] = bson.M{"$each": v}
	}
	update := bson.M{"$set": bson.M{"updatedAt": c.now()}}
	if len(push) > 0 {
		update["$push"] = push
	}
	return c.findOneAndUpdate(ctx, bson.M{"id": id}, update)
}

// DecideAccessRequest writes the decision only while the entry is still pending, unless
// override is set. When nothing matches it looks the case up again to report why.
func (c *caseDatabase) DecideAccessRequest(ctx context.Context, id string, index int, d models.AccessDecision, override bool) (*models.Case, error) {
	if index < 0 {
		return nil, fmt.Errorf("decide %s[%d]: %w", id, index, ErrOutOfRange)
	}
	key := fmt.Sprintf("requestApprovals.%d", index)
	filter := bson.M{"id": id}
	if override {
		filter[key] = bson.M{"$exists": true}
	} else {
		filter[key+".decision"] = models.DecisionPending
	}
	update := bson.M{"$set": bson.M{
		key + ".decision":  d.Decision,
		key + ".decidedAt": d.DecidedAt,
		key + ".decidedBy": d.DecidedBy,
		key + ".note":      d.Note,
		"updatedAt":        c.now(),
	}}

	cs, err := c.findOneAndUpdate(ctx, filter, update)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return cs, err
	}

	current, err := c.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if index >= len(current.AccessRequests) {
		return nil, fmt.Errorf("decide %s[%d]: %w", id, index, ErrOutOfRange)
	}
	return nil, fmt.Errorf("decide %s[%d]: %w", id, index, ErrConflict)
}

func (c *caseDatabase) EnsureIndexes(ctx context.Context) error {
	return c.coll().CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "judgeId", Value: 1}}},
		{Keys: bson.D{{Key: "lawyerId", Value: 1}}},
		{Keys: bson.D{{Key: "requestApprovals.userId", Value: 1}}},
	})
}

func (c *caseDatabase) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Case, error) {
	cs := &models.Case{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := c.coll().FindOneAndUpdate(ctx, filter, update, opts).Decode(cs); err != nil {
		return nil, fmt.Errorf("update case %v: %w", filter["id"], translate(err))
	}
	cs.Normalize()
	return cs, nil
}
