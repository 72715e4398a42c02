package response

import (
	"time"

	"home-cleaning/internal/data/entity"
	"home-cleaning/internal/data/repository"
)

type RecentBooking struct {
	ID            string               `json:"id"`
	UserName      string               `json:"user_name"`
	UserEmail     string               `json:"user_email"`
	ServiceName   string               `json:"service_name"`
	Status        entity.BookingStatus `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	TotalPrice    float64              `json:"total_price"`
	CreatedAt     time.Time            `json:"created_at"`
}

type StatsResponse struct {
	TotalUsers     int64                       `json:"totalUsers"`
	TotalBookings  int64                       `json:"totalBookings"`
	TotalServices  int64                       `json:"totalServices"`
	TotalRevenue   float64                     `json:"totalRevenue"`
	StatusCounts   map[string]int64            `json:"statusCounts"`
	RecentBookings []RecentBooking             `json:"recentBookings"`
	MonthlyRevenue []repository.MonthlyRevenue `json:"monthlyRevenue"`
}
