package response

type OrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
}

type VerifyPaymentResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PaymentID string `json:"paymentId"`
}
