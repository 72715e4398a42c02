package usecase

import (
	"context"
	"fmt"

	"home-cleaning/internal/data/repository"
	"home-cleaning/internal/dto/request"
	"home-cleaning/internal/dto/response"
	"home-cleaning/pkg/mailer"
	"home-cleaning/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type PaymentService interface {
	CreateOrder(ctx context.Context, req *request.CreateOrderRequest) (*response.OrderResponse, error)
	VerifyPayment(ctx context.Context, req *request.VerifyPaymentRequest) (*response.VerifyPaymentResponse, error)
}

type paymentService struct {
	repo    *repository.Repository
	gateway PaymentGateway
	mail    Mailer
	log     *zap.Logger
}

func NewPaymentService(repo *repository.Repository, gateway PaymentGateway, mail Mailer, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:    repo,
		gateway: gateway,
		mail:    mail,
		log:     log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, req *request.CreateOrderRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create order validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	order, err := s.gateway.CreateOrder(ctx, req.Amount, currency, utils.GenerateReceiptID())
	if err != nil {
		s.log.Error("Failed to create payment order", zap.Error(err), zap.Float64("amount", req.Amount))
		return nil, err
	}

	s.log.Info("Payment order created",
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.Amount),
		zap.String("currency", order.Currency),
	)

	return &response.OrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, req *request.VerifyPaymentRequest) (*response.VerifyPaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	genuine, err := s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		return nil, err
	}
	if !genuine {
		s.log.Warn("Payment signature mismatch",
			zap.String("order_id", req.RazorpayOrderID),
			zap.String("payment_id", req.RazorpayPaymentID),
		)
		return nil, fmt.Errorf("payment verification failed")
	}

	bookingIDs := make([]bson.ObjectID, 0, len(req.BookingIDs))
	for _, id := range req.BookingIDs {
		objectID, err := bson.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("booking not found")
		}
		bookingIDs = append(bookingIDs, objectID)
	}

	if err := s.repo.Booking.MarkPaid(ctx, bookingIDs, req.RazorpayPaymentID, req.RazorpayOrderID); err != nil {
		s.log.Error("Failed to mark bookings paid",
			zap.Error(err),
			zap.String("payment_id", req.RazorpayPaymentID),
			zap.Int("bookings", len(bookingIDs)),
		)
		return nil, fmt.Errorf("mark bookings paid: %w", err)
	}

	s.log.Info("Payment verified",
		zap.String("order_id", req.RazorpayOrderID),
		zap.String("payment_id", req.RazorpayPaymentID),
		zap.Int("bookings", len(bookingIDs)),
	)

	go s.sendConfirmations(bookingIDs)

	return &response.VerifyPaymentResponse{
		Success:   true,
		Message:   "Payment verified successfully",
		PaymentID: req.RazorpayPaymentID,
	}, nil
}

// ==================== HELPER METHODS ====================

// sendConfirmations runs detached from the request; email failures never
// affect the verification result.
func (s *paymentService) sendConfirmations(bookingIDs []bson.ObjectID) {
	ctx := context.Background()

	bookings, err := s.repo.Booking.FindByIDs(ctx, bookingIDs)
	if err != nil {
		s.log.Error("Failed to load bookings for confirmation emails", zap.Error(err))
		return
	}

	for _, booking := range bookings {
		user, err := s.repo.User.FindByID(ctx, booking.UserID)
		if err != nil || user == nil {
			s.log.Warn("Skipping confirmation email, user lookup failed",
				zap.String("booking_id", booking.ID.Hex()), zap.Error(err))
			continue
		}

		serviceName := "Cleaning Service"
		if service, err := s.repo.Service.FindByID(ctx, booking.ServiceID); err == nil && service != nil {
			serviceName = service.Name
		}

		details := mailer.BookingDetails{
			ServiceName:  serviceName,
			Date:         booking.Date,
			Time:         booking.Time,
			Street:       booking.Address.Street,
			City:         booking.Address.City,
			State:        booking.Address.State,
			ZipCode:      booking.Address.ZipCode,
			TotalPrice:   booking.TotalPrice,
			Plan:         string(booking.Plan),
			Instructions: booking.SpecialInstructions,
		}

		if err := s.mail.SendBookingConfirmation(user.Email, user.Name, details); err != nil {
			s.log.Warn("Failed to send booking confirmation email",
				zap.Error(err),
				zap.String("booking_id", booking.ID.Hex()),
				zap.String("email", user.Email),
			)
		}
	}
}
