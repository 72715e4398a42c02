package request

type CreateOrderRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency,omitempty"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string   `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string   `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string   `json:"razorpay_signature" validate:"required"`
	BookingIDs        []string `json:"bookingIds" validate:"required,min=1"`
}
