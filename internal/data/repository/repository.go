package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	OTP     OTPRepository
	Service ServiceRepository
	Booking BookingRepository
}

func NewRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (*Repository, error) {
	user, err := NewUserRepository(ctx, db, log)
	if err != nil {
		return nil, err
	}

	otp, err := NewOTPRepository(ctx, db, log)
	if err != nil {
		return nil, err
	}

	service := NewServiceRepository(db, log)
	booking := NewBookingRepository(db, log)

	return &Repository{
		User:    user,
		OTP:     otp,
		Service: service,
		Booking: booking,
	}, nil
}
