package databases

// go generate: mockery --name UserDatabase

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-records-api/models"
)

const userName = "users"

// UserDatabase contains the methods to use with the user database
type UserDatabase interface {
	InsertOne(ctx context.Context, u models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Find(ctx context.Context) ([]models.User, error)
	UpdateBio(ctx context.Context, id, bio string) (*models.User, error)
	DeleteOne(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type userDatabase struct {
	db DatabaseHelper
}

// NewUserDatabase initializes a new instance of user database with the provided db connection
func NewUserDatabase(db DatabaseHelper) UserDatabase {
	return &userDatabase{
		db: db,
	}
}

func (u *userDatabase) InsertOne(ctx context.Context, user models.User) error {
	if _, err := u.db.Collection(userName).InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user %s: %w", user.ID, translate(err))
	}
	return nil
}

func (u *userDatabase) FindByID(ctx context.Context, id string) (*models.User, error) {
	return u.findOne(ctx, bson.M{"id": id})
}

func (u *userDatabase) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.findOne(ctx, bson.M{"email": email})
}

func (u *userDatabase) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	user := &models.User{}
	if err := u.db.Collection(userName).FindOne(ctx, filter).Decode(user); err != nil {
		return nil, fmt.Errorf("find user %v: %w", filter, translate(err))
	}
	return user, nil
}

func (u *userDatabase) Find(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	cur, err := u.db.Collection(userName).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *userDatabase) UpdateBio(ctx context.Context, id, bio string) (*models.User, error) {
	user := &models.User{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := u.db.Collection(userName).
		FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"bio": bio}}, opts).
		Decode(user)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, translate(err))
	}
	return user, nil
}

func (u *userDatabase) DeleteOne(ctx context.Context, id string) error {
	n, err := u.db.Collection(userName).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	return nil
}

func (u *userDatabase) EnsureIndexes(ctx context.Context) error {
	return u.db.Collection(userName).CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
}
