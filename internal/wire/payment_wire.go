package wire

import (
	"home-cleaning/internal/adaptor"
	"home-cleaning/pkg/middleware"
	"home-cleaning/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/payment", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, log))

		r.Post("/create-order", paymentHandler.CreateOrder)    // POST /api/payment/create-order
		r.Post("/verify-payment", paymentHandler.VerifyPayment) // POST /api/payment/verify-payment
	})
}
