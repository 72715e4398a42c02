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

type OTPRepository interface {
	// Replace removes any prior record for (email, purpose) and inserts otp,
	// keeping at most one live code per pair
	Replace(ctx context.Context, otp *entity.OTP) error
	Find(ctx context.Context, email string, purpose entity.OTPPurpose) (*entity.OTP, error)
	// IncrementAttempts atomically bumps the attempt counter and returns the new count
	IncrementAttempts(ctx context.Context, id bson.ObjectID) (int, error)
	MarkVerified(ctx context.Context, id bson.ObjectID) error
	Delete(ctx context.Context, email string, purpose entity.OTPPurpose) error
}

const otpCollection = "otps"

type otpRepository struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewOTPRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (OTPRepository, error) {
	collection := db.Collection(otpCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "purpose", Value: 1}},
		},
		{
			// TTL backstop; expired codes are also rejected at read time
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create OTP indexes: %w", err)
	}

	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}, nil
}

func (r *otpRepository) Replace(ctx context.Context, otp *entity.OTP) error {
	collection := r.db.Collection(otpCollection)

	filter := bson.M{"email": otp.Email, "purpose": otp.Purpose}
	if _, err := collection.DeleteMany(ctx, filter); err != nil {
		r.log.Error("Failed to delete prior OTPs",
			zap.Error(err),
			zap.String("email", otp.Email),
			zap.String("purpose", string(otp.Purpose)),
		)
		return fmt.Errorf("delete prior OTPs for %s: %w", otp.Email, err)
	}

	otp.CreatedAt = time.Now()

	result, err := collection.InsertOne(ctx, otp)
	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("email", otp.Email),
			zap.String("purpose", string(otp.Purpose)),
		)
		return fmt.Errorf("create OTP for %s: %w", otp.Email, err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		otp.ID = objectID
	}

	return nil
}

func (r *otpRepository) Find(ctx context.Context, email string, purpose entity.OTPPurpose) (*entity.OTP, error) {
	filter := bson.M{"email": email, "purpose": purpose}

	var otp entity.OTP
	err := r.db.Collection(otpCollection).FindOne(ctx, filter).Decode(&otp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP",
			zap.Error(err),
			zap.String("email", email),
			zap.String("purpose", string(purpose)),
		)
		return nil, fmt.Errorf("find OTP for %s type %s: %w", email, purpose, err)
	}

	return &otp, nil
}

func (r *otpRepository) IncrementAttempts(ctx context.Context, id bson.ObjectID) (int, error) {
	result := r.db.Collection(otpCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"attempts": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var otp entity.OTP
	if err := result.Decode(&otp); err != nil {
		r.log.Error("Failed to increment OTP attempts", zap.Error(err), zap.String("otp_id", id.Hex()))
		return 0, fmt.Errorf("increment attempts for OTP %s: %w", id.Hex(), err)
	}

	return otp.Attempts, nil
}

func (r *otpRepository) MarkVerified(ctx context.Context, id bson.ObjectID) error {
	result, err := r.db.Collection(otpCollection).UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"verified": true}},
	)
	if err != nil {
		r.log.Error("Failed to mark OTP verified", zap.Error(err), zap.String("otp_id", id.Hex()))
		return fmt.Errorf("mark OTP %s verified: %w", id.Hex(), err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("OTP %s not found", id.Hex())
	}

	return nil
}

func (r *otpRepository) Delete(ctx context.Context, email string, purpose entity.OTPPurpose) error {
	filter := bson.M{"email": email, "purpose": purpose}

	if _, err := r.db.Collection(otpCollection).DeleteMany(ctx, filter); err != nil {
		r.log.Error("Failed to delete OTP",
			zap.Error(err),
			zap.String("email", email),
			zap.String("purpose", string(purpose)),
		)
		return fmt.Errorf("delete OTP for %s: %w", email, err)
	}

	return nil
}
