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

// MonthlyRevenue is one month of paid revenue for the admin dashboard
type MonthlyRevenue struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.Booking, error)
	FindByUser(ctx context.Context, userID bson.ObjectID) ([]*entity.Booking, error)
	FindAll(ctx context.Context) ([]*entity.Booking, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*entity.Booking, error)
	FindRecent(ctx context.Context, limit int64) ([]*entity.Booking, error)
	UpdateStatus(ctx context.Context, id bson.ObjectID, status entity.BookingStatus) (*entity.Booking, error)
	// MarkPaid promotes every booking in ids to paid+confirmed and stores the
	// provider identifiers in a single multi-document update
	MarkPaid(ctx context.Context, ids []bson.ObjectID, paymentID, orderID string) error
	DeleteByUser(ctx context.Context, userID bson.ObjectID) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error)
	SumPaidRevenue(ctx context.Context) (float64, error)
	MonthlyPaidRevenue(ctx context.Context, since time.Time) ([]MonthlyRevenue, error)
}

const bookingCollection = "bookings"

type bookingRepository struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewBookingRepository(db *mongo.Database, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.db.Collection(bookingCollection).InsertOne(ctx, booking)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", booking.UserID.Hex()),
			zap.String("service_id", booking.ServiceID.Hex()),
		)
		return fmt.Errorf("create booking: %w", err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		booking.ID = objectID
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.Collection(bookingCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", id.Hex()))
		return nil, fmt.Errorf("find booking %s: %w", id.Hex(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID bson.ObjectID) ([]*entity.Booking, error) {
	return r.find(ctx, bson.M{"user": userID}, 0)
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	return r.find(ctx, bson.M{}, 0)
}

func (r *bookingRepository) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*entity.Booking, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, 0)
}

func (r *bookingRepository) FindRecent(ctx context.Context, limit int64) ([]*entity.Booking, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *bookingRepository) find(ctx context.Context, filter bson.M, limit int64) ([]*entity.Booking, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.db.Collection(bookingCollection).Find(ctx, filter, findOptions)
	if err != nil {
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*entity.Booking
	for cursor.Next(ctx) {
		var booking entity.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find bookings cursor: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id bson.ObjectID, status entity.BookingStatus) (*entity.Booking, error) {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}

	result := r.db.Collection(bookingCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated entity.Booking
	err := result.Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.Hex()),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("update booking %s status: %w", id.Hex(), err)
	}

	return &updated, nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, ids []bson.ObjectID, paymentID, orderID string) error {
	filter := bson.M{"_id": bson.M{"$in": ids}}
	update := bson.M{
		"$set": bson.M{
			"payment_status":    entity.PaymentStatusPaid,
			"status":            entity.BookingStatusConfirmed,
			"payment_id":        paymentID,
			"razorpay_order_id": orderID,
			"updated_at":        time.Now(),
		},
	}

	if _, err := r.db.Collection(bookingCollection).UpdateMany(ctx, filter, update); err != nil {
		r.log.Error("Failed to mark bookings paid",
			zap.Error(err),
			zap.Int("booking_count", len(ids)),
			zap.String("payment_id", paymentID),
		)
		return fmt.Errorf("mark %d bookings paid: %w", len(ids), err)
	}

	return nil
}

func (r *bookingRepository) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	if _, err := r.db.Collection(bookingCollection).DeleteMany(ctx, bson.M{"user": userID}); err != nil {
		r.log.Error("Failed to delete user bookings", zap.Error(err), zap.String("user_id", userID.Hex()))
		return fmt.Errorf("delete bookings for user %s: %w", userID.Hex(), err)
	}

	return nil
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.db.Collection(bookingCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.db.Collection(bookingCollection).Aggregate(ctx, pipeline)
	if err != nil {
		r.log.Error("Failed to count bookings by status", zap.Error(err))
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[entity.BookingStatus]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status entity.BookingStatus `bson:"_id"`
			Count  int64                `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode status count: %w", err)
		}
		counts[row.Status] = row.Count
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("count by status cursor: %w", err)
	}

	return counts, nil
}

func (r *bookingRepository) SumPaidRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"payment_status": entity.PaymentStatusPaid}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$total_price"},
		}}},
	}

	cursor, err := r.db.Collection(bookingCollection).Aggregate(ctx, pipeline)
	if err != nil {
		r.log.Error("Failed to sum paid revenue", zap.Error(err))
		return 0, fmt.Errorf("sum paid revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var total float64
	if cursor.Next(ctx) {
		var row struct {
			Revenue float64 `bson:"revenue"`
		}
		if err := cursor.Decode(&row); err != nil {
			return 0, fmt.Errorf("decode revenue sum: %w", err)
		}
		total = row.Revenue
	}

	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("sum paid revenue cursor: %w", err)
	}

	return total, nil
}

func (r *bookingRepository) MonthlyPaidRevenue(ctx context.Context, since time.Time) ([]MonthlyRevenue, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"payment_status": entity.PaymentStatusPaid,
			"created_at":     bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$created_at"},
				"month": bson.M{"$month": "$created_at"},
			},
			"revenue": bson.M{"$sum": "$total_price"},
			"count":   bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
	}

	cursor, err := r.db.Collection(bookingCollection).Aggregate(ctx, pipeline)
	if err != nil {
		r.log.Error("Failed to aggregate monthly revenue", zap.Error(err))
		return nil, fmt.Errorf("monthly paid revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var months []MonthlyRevenue
	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Year  int `bson:"year"`
				Month int `bson:"month"`
			} `bson:"_id"`
			Revenue float64 `bson:"revenue"`
			Count   int64   `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode monthly revenue: %w", err)
		}
		months = append(months, MonthlyRevenue{
			Year:    row.ID.Year,
			Month:   row.ID.Month,
			Revenue: row.Revenue,
			Count:   row.Count,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("monthly revenue cursor: %w", err)
	}

	return months, nil
}
