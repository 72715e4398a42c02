package usecase

import (
	"context"

	"home-cleaning/internal/data/repository"
	"home-cleaning/pkg/mailer"
	"home-cleaning/pkg/payment"
	"home-cleaning/pkg/utils"

	"go.uber.org/zap"
)

// Mailer is the notification dispatch collaborator. Everything except the OTP
// send path treats delivery as best-effort.
type Mailer interface {
	SendRegistrationOTP(to, code string) error
	SendPasswordResetOTP(to, name, code string) error
	SendWelcome(to, name string) error
	SendLoginAlert(to, name, loginTime string) error
	SendBookingConfirmation(to, name string, details mailer.BookingDetails) error
}

// PaymentGateway is the payment provider collaborator
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*payment.Order, error)
	VerifySignature(orderID, paymentID, signature string) (bool, error)
}

type Service struct {
	Auth    AuthService
	Catalog CatalogService
	Booking BookingService
	Payment PaymentService
	Admin   AdminService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	mail Mailer,
	gateway PaymentGateway,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, mail, log),
		Catalog: NewCatalogService(repo, log),
		Booking: NewBookingService(repo, log),
		Payment: NewPaymentService(repo, gateway, mail, log),
		Admin:   NewAdminService(repo, log),
	}
}
