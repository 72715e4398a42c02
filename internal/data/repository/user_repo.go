package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"home-cleaning/internal/data/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.User, error)
	UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error
	Delete(ctx context.Context, id bson.ObjectID) error
	ListCustomers(ctx context.Context) ([]*entity.User, error)
	CountCustomers(ctx context.Context) (int64, error)
}

const userCollection = "users"

type userRepository struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewUserRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (UserRepository, error) {
	collection := db.Collection(userCollection)

	// Email uniqueness is enforced at the store level
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		r.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	}

	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.User, error) {
	var user entity.User
	err := r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id.Hex()))
		return nil, fmt.Errorf("find user %s: %w", id.Hex(), err)
	}

	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error {
	update := bson.M{
		"$set": bson.M{
			"password":   passwordHash,
			"updated_at": time.Now(),
		},
	}

	result, err := r.db.Collection(userCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", id.Hex()))
		return fmt.Errorf("update password for %s: %w", id.Hex(), err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", id.Hex())
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.db.Collection(userCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", id.Hex()))
		return fmt.Errorf("delete user %s: %w", id.Hex(), err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("user %s not found", id.Hex())
	}

	return nil
}

func (r *userRepository) ListCustomers(ctx context.Context) ([]*entity.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(userCollection).Find(ctx, bson.M{"role": entity.RoleCustomer}, findOptions)
	if err != nil {
		r.log.Error("Failed to list customers", zap.Error(err))
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*entity.User
	for cursor.Next(ctx) {
		var user entity.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list customers cursor: %w", err)
	}

	return users, nil
}

func (r *userRepository) CountCustomers(ctx context.Context) (int64, error) {
	count, err := r.db.Collection(userCollection).CountDocuments(ctx, bson.M{"role": entity.RoleCustomer})
	if err != nil {
		r.log.Error("Failed to count customers", zap.Error(err))
		return 0, fmt.Errorf("count customers: %w", err)
	}

	return count, nil
}
