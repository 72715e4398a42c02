package response

import (
	"time"

	"home-cleaning/internal/data/entity"
)

type ServiceSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type BookingResponse struct {
	ID                  string                    `json:"id"`
	User                *UserSummary              `json:"user,omitempty"`
	Service             *ServiceSummary           `json:"service,omitempty"`
	Date                time.Time                 `json:"date"`
	Time                string                    `json:"time"`
	Address             entity.Address            `json:"address"`
	Status              entity.BookingStatus      `json:"status"`
	Plan                entity.Plan               `json:"plan"`
	BookingType         entity.BookingType        `json:"booking_type"`
	RecurringFrequency  entity.RecurringFrequency `json:"recurring_frequency,omitempty"`
	TotalPrice          float64                   `json:"total_price"`
	PaymentStatus       entity.PaymentStatus      `json:"payment_status"`
	PaymentID           string                    `json:"payment_id,omitempty"`
	RazorpayOrderID     string                    `json:"razorpay_order_id,omitempty"`
	SpecialInstructions string                    `json:"special_instructions,omitempty"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

func BookingToResponse(booking *entity.Booking, service *entity.Service, user *entity.User) BookingResponse {
	resp := BookingResponse{
		ID:                  booking.ID.Hex(),
		Date:                booking.Date,
		Time:                booking.Time,
		Address:             booking.Address,
		Status:              booking.Status,
		Plan:                booking.Plan,
		BookingType:         booking.BookingType,
		RecurringFrequency:  booking.RecurringFrequency,
		TotalPrice:          booking.TotalPrice,
		PaymentStatus:       booking.PaymentStatus,
		PaymentID:           booking.PaymentID,
		RazorpayOrderID:     booking.RazorpayOrderID,
		SpecialInstructions: booking.SpecialInstructions,
		CreatedAt:           booking.CreatedAt,
		UpdatedAt:           booking.UpdatedAt,
	}

	if service != nil {
		resp.Service = &ServiceSummary{
			ID:       service.ID.Hex(),
			Name:     service.Name,
			Price:    service.Price,
			Duration: service.Duration,
		}
	}

	if user != nil {
		resp.User = &UserSummary{
			ID:    user.ID.Hex(),
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
		}
	}

	return resp
}
