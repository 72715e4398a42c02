package usecase

import (
	"context"
	"fmt"
	"time"

	"home-cleaning/internal/data/entity"
	"home-cleaning/internal/data/repository"
	"home-cleaning/internal/dto/response"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type AdminService interface {
	Stats(ctx context.Context) (*response.StatsResponse, error)
	ListUsers(ctx context.Context) ([]response.UserResponse, error)
	DeleteUser(ctx context.Context, userID string) error
}

type adminService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) AdminService {
	return &adminService{
		repo: repo,
		log:  log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) Stats(ctx context.Context) (*response.StatsResponse, error) {
	totalUsers, err := s.repo.User.CountCustomers(ctx)
	if err != nil {
		s.log.Error("Failed to count customers", zap.Error(err))
		return nil, fmt.Errorf("count customers: %w", err)
	}

	totalBookings, err := s.repo.Booking.Count(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	totalServices, err := s.repo.Service.CountActive(ctx)
	if err != nil {
		s.log.Error("Failed to count services", zap.Error(err))
		return nil, fmt.Errorf("count services: %w", err)
	}

	totalRevenue, err := s.repo.Booking.SumPaidRevenue(ctx)
	if err != nil {
		s.log.Error("Failed to sum revenue", zap.Error(err))
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	counts, err := s.repo.Booking.CountByStatus(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings by status", zap.Error(err))
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}

	// Every known status appears in the response, zero or not.
	statusCounts := make(map[string]int64, len(entity.AllBookingStatuses))
	for _, status := range entity.AllBookingStatuses {
		statusCounts[string(status)] = counts[status]
	}

	recent, err := s.recentBookings(ctx, 10)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, -6, 0)
	monthly, err := s.repo.Booking.MonthlyPaidRevenue(ctx, since)
	if err != nil {
		s.log.Error("Failed to aggregate monthly revenue", zap.Error(err))
		return nil, fmt.Errorf("aggregate monthly revenue: %w", err)
	}

	return &response.StatsResponse{
		TotalUsers:     totalUsers,
		TotalBookings:  totalBookings,
		TotalServices:  totalServices,
		TotalRevenue:   totalRevenue,
		StatusCounts:   statusCounts,
		RecentBookings: recent,
		MonthlyRevenue: monthly,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]response.UserResponse, error) {
	users, err := s.repo.User.ListCustomers(ctx)
	if err != nil {
		s.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}

	responses := make([]response.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, response.UserToResponse(user))
	}

	return responses, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID string) error {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("user not found")
	}

	user, err := s.repo.User.FindByID(ctx, objectID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}
	if user.Role == entity.RoleAdmin {
		return fmt.Errorf("cannot delete admin user")
	}

	if err := s.repo.Booking.DeleteByUser(ctx, objectID); err != nil {
		s.log.Error("Failed to delete user bookings", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("delete user bookings: %w", err)
	}

	if err := s.repo.User.Delete(ctx, objectID); err != nil {
		s.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info("User deleted", zap.String("user_id", userID), zap.String("email", user.Email))

	return nil
}

// ==================== HELPER METHODS ====================

func (s *adminService) recentBookings(ctx context.Context, limit int64) ([]response.RecentBooking, error) {
	bookings, err := s.repo.Booking.FindRecent(ctx, limit)
	if err != nil {
		s.log.Error("Failed to list recent bookings", zap.Error(err))
		return nil, fmt.Errorf("list recent bookings: %w", err)
	}

	recent := make([]response.RecentBooking, 0, len(bookings))
	for _, booking := range bookings {
		item := response.RecentBooking{
			ID:            booking.ID.Hex(),
			Status:        booking.Status,
			PaymentStatus: booking.PaymentStatus,
			TotalPrice:    booking.TotalPrice,
			CreatedAt:     booking.CreatedAt,
		}

		if user, err := s.repo.User.FindByID(ctx, booking.UserID); err == nil && user != nil {
			item.UserName = user.Name
			item.UserEmail = user.Email
		}
		if service, err := s.repo.Service.FindByID(ctx, booking.ServiceID); err == nil && service != nil {
			item.ServiceName = service.Name
		}

		recent = append(recent, item)
	}

	return recent, nil
}
