package usecase

import (
	"context"
	"fmt"
	"time"

	"home-cleaning/internal/data/entity"
	"home-cleaning/internal/data/repository"
	"home-cleaning/internal/dto/request"
	"home-cleaning/internal/dto/response"
	"home-cleaning/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type BookingService interface {
	Create(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	List(ctx context.Context, userID string, isAdmin bool) ([]response.BookingResponse, error)
	Get(ctx context.Context, userID string, isAdmin bool, bookingID string) (*response.BookingResponse, error)
	UpdateStatus(ctx context.Context, userID string, isAdmin bool, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Create(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userObjectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	serviceObjectID, err := bson.ObjectIDFromHex(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("service not found")
	}

	service, err := s.repo.Service.FindByID(ctx, serviceObjectID)
	if err != nil {
		s.log.Error("Failed to look up service", zap.Error(err), zap.String("service_id", req.ServiceID))
		return nil, fmt.Errorf("look up service: %w", err)
	}
	if service == nil {
		return nil, fmt.Errorf("service not found")
	}

	date, err := parseBookingDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("validation failed: date: invalid date format")
	}

	plan := entity.PlanOneTime
	if req.Plan != "" {
		plan = entity.Plan(req.Plan)
	}

	bookingType := entity.BookingTypeScheduled
	if req.BookingType != "" {
		bookingType = entity.BookingType(req.BookingType)
	}

	booking := &entity.Booking{
		UserID:    userObjectID,
		ServiceID: serviceObjectID,
		Date:      date,
		Time:      req.Time,
		Address: entity.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
		},
		Status:      entity.BookingStatusPending,
		Plan:        plan,
		BookingType: bookingType,
		// Snapshot at creation; later catalog price changes never touch it
		TotalPrice:          service.PriceFor(plan),
		PaymentStatus:       entity.PaymentStatusPending,
		RecurringFrequency:  entity.RecurringFrequency(req.RecurringFrequency),
		SpecialInstructions: req.SpecialInstructions,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("service_id", req.ServiceID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.Hex()),
		zap.String("user_id", userID),
		zap.String("service_id", req.ServiceID),
		zap.Float64("total_price", booking.TotalPrice),
	)

	resp := response.BookingToResponse(booking, service, nil)
	return &resp, nil
}

func (s *bookingService) List(ctx context.Context, userID string, isAdmin bool) ([]response.BookingResponse, error) {
	var bookings []*entity.Booking
	var err error

	if isAdmin {
		bookings, err = s.repo.Booking.FindAll(ctx)
	} else {
		var userObjectID bson.ObjectID
		userObjectID, err = bson.ObjectIDFromHex(userID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
		}
		bookings, err = s.repo.Booking.FindByUser(ctx, userObjectID)
	}

	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	responses := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, s.buildResponse(ctx, booking, isAdmin))
	}

	return responses, nil
}

func (s *bookingService) Get(ctx context.Context, userID string, isAdmin bool, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.UserID.Hex() != userID {
		return nil, fmt.Errorf("access denied")
	}

	resp := s.buildResponse(ctx, booking, isAdmin)
	return &resp, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, userID string, isAdmin bool, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update status validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	status := entity.BookingStatus(req.Status)

	// Admins may set any status; a customer may only cancel their own
	// booking while it is still live. Status adjacency is deliberately not
	// modelled beyond this authorization check.
	if !isAdmin {
		if booking.UserID.Hex() != userID || status != entity.BookingStatusCancelled || booking.Status.Terminal() {
			return nil, fmt.Errorf("access denied")
		}
	}

	updated, err := s.repo.Booking.UpdateStatus(ctx, booking.ID, status)
	if err != nil {
		s.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("status", req.Status),
		)
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("booking not found")
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("status", req.Status),
		zap.Bool("by_admin", isAdmin),
	)

	resp := s.buildResponse(ctx, updated, isAdmin)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	objectID, err := bson.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking not found")
	}

	booking, err := s.repo.Booking.FindByID(ctx, objectID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking not found")
	}

	return booking, nil
}

func (s *bookingService) buildResponse(ctx context.Context, booking *entity.Booking, withUser bool) response.BookingResponse {
	service, err := s.repo.Service.FindByID(ctx, booking.ServiceID)
	if err != nil {
		s.log.Warn("Failed to join service for booking",
			zap.Error(err), zap.String("booking_id", booking.ID.Hex()))
	}

	var user *entity.User
	if withUser {
		user, err = s.repo.User.FindByID(ctx, booking.UserID)
		if err != nil {
			s.log.Warn("Failed to join user for booking",
				zap.Error(err), zap.String("booking_id", booking.ID.Hex()))
		}
	}

	return response.BookingToResponse(booking, service, user)
}

func parseBookingDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", value)
}
