package wire

import (
	"home-cleaning/internal/adaptor"
	"home-cleaning/pkg/middleware"
	"home-cleaning/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// All booking routes require authentication; ownership checks live in
	// the usecase layer.
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, log))

		r.Post("/", bookingHandler.CreateBooking)                  // POST /api/bookings
		r.Get("/", bookingHandler.ListBookings)                    // GET /api/bookings
		r.Get("/{id}", bookingHandler.GetBooking)                  // GET /api/bookings/{id}
		r.Patch("/{id}/status", bookingHandler.UpdateBookingStatus) // PATCH /api/bookings/{id}/status
	})
}
