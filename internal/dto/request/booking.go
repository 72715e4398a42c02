package request

type AddressRequest struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
}

type CreateBookingRequest struct {
	ServiceID           string         `json:"service_id" validate:"required"`
	Date                string         `json:"date" validate:"required"`
	Time                string         `json:"time" validate:"required"`
	Address             AddressRequest `json:"address" validate:"required"`
	Plan                string         `json:"plan,omitempty" validate:"omitempty,oneof=one-time hourly daily weekly monthly yearly"`
	BookingType         string         `json:"booking_type,omitempty" validate:"omitempty,oneof=instant scheduled recurring"`
	RecurringFrequency  string         `json:"recurring_frequency,omitempty" validate:"omitempty,oneof=daily weekly monthly"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed in-progress completed cancelled"`
}
