package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arrorpranav/user-registry/internal/models"
)

var (
	// ErrNotFound indicates no record matched the lookup.
	ErrNotFound = errors.New("store: user not found")
	// ErrDuplicate indicates the unique index on username or email
	// rejected an insert.
	ErrDuplicate = errors.New("store: username or email already exists")
)

// MongoStore handles user record persistence in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("users")}
}

// EnsureIndexes creates the unique indexes on username and email. The
// indexes are the authoritative duplicate guard; the pre-insert lookup in
// the signup handler is advisory only.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo create indexes: %w", err)
	}
	return nil
}

// Insert persists a new record. A unique-index violation is reported as
// ErrDuplicate so the handler can answer with a client error instead of 500.
func (s *MongoStore) Insert(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("mongo insert: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByUsernameOrEmail returns the record whose username or email equals
// the given values, for duplicate detection before insert.
func (s *MongoStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}
	return s.findOne(ctx, filter)
}

// FindByUsername returns the record for the given username.
func (s *MongoStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Search returns all records whose username or email contains keyword as a
// case-insensitive substring, oldest first. An empty keyword matches every
// record.
func (s *MongoStore) Search(ctx context.Context, keyword string) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"username": pattern},
		bson.M{"email": pattern},
	}}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
