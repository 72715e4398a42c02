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

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.Service, error)
	FindActive(ctx context.Context) ([]*entity.Service, error)
	FindAll(ctx context.Context) ([]*entity.Service, error)
	Update(ctx context.Context, id bson.ObjectID, service *entity.Service) (*entity.Service, error)
	// SoftDelete flips is_active off; the document stays for historical bookings
	SoftDelete(ctx context.Context, id bson.ObjectID) (*entity.Service, error)
	CountActive(ctx context.Context) (int64, error)
}

const serviceCollection = "services"

type serviceRepository struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewServiceRepository(db *mongo.Database, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "service")),
	}
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now

	result, err := r.db.Collection(serviceCollection).InsertOne(ctx, service)
	if err != nil {
		r.log.Error("Failed to create service", zap.Error(err), zap.String("name", service.Name))
		return fmt.Errorf("create service %s: %w", service.Name, err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		service.ID = objectID
	}

	return nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Service, error) {
	var service entity.Service
	err := r.db.Collection(serviceCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&service)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service", zap.Error(err), zap.String("service_id", id.Hex()))
		return nil, fmt.Errorf("find service %s: %w", id.Hex(), err)
	}

	return &service, nil
}

func (r *serviceRepository) FindActive(ctx context.Context) ([]*entity.Service, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *serviceRepository) FindAll(ctx context.Context) ([]*entity.Service, error) {
	return r.find(ctx, bson.M{})
}

func (r *serviceRepository) find(ctx context.Context, filter bson.M) ([]*entity.Service, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(serviceCollection).Find(ctx, filter, findOptions)
	if err != nil {
		r.log.Error("Failed to find services", zap.Error(err))
		return nil, fmt.Errorf("find services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*entity.Service
	for cursor.Next(ctx) {
		var service entity.Service
		if err := cursor.Decode(&service); err != nil {
			return nil, fmt.Errorf("decode service: %w", err)
		}
		services = append(services, &service)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find services cursor: %w", err)
	}

	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, id bson.ObjectID, service *entity.Service) (*entity.Service, error) {
	update := bson.M{
		"$set": bson.M{
			"name":             service.Name,
			"description":      service.Description,
			"price":            service.Price,
			"pricing_plans":    service.PricingPlans,
			"duration":         service.Duration,
			"image":            service.Image,
			"category":         service.Category,
			"is_quick_service": service.IsQuickService,
			"is_active":        service.IsActive,
			"updated_at":       time.Now(),
		},
	}

	result := r.db.Collection(serviceCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated entity.Service
	err := result.Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update service", zap.Error(err), zap.String("service_id", id.Hex()))
		return nil, fmt.Errorf("update service %s: %w", id.Hex(), err)
	}

	return &updated, nil
}

func (r *serviceRepository) SoftDelete(ctx context.Context, id bson.ObjectID) (*entity.Service, error) {
	update := bson.M{
		"$set": bson.M{
			"is_active":  false,
			"updated_at": time.Now(),
		},
	}

	result := r.db.Collection(serviceCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated entity.Service
	err := result.Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to soft delete service", zap.Error(err), zap.String("service_id", id.Hex()))
		return nil, fmt.Errorf("soft delete service %s: %w", id.Hex(), err)
	}

	return &updated, nil
}

func (r *serviceRepository) CountActive(ctx context.Context) (int64, error) {
	count, err := r.db.Collection(serviceCollection).CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		r.log.Error("Failed to count active services", zap.Error(err))
		return 0, fmt.Errorf("count active services: %w", err)
	}

	return count, nil
}
