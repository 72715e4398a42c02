package request

type PricingPlansRequest struct {
	Hourly  *float64 `json:"hourly,omitempty" validate:"omitempty,gte=0"`
	Daily   *float64 `json:"daily,omitempty" validate:"omitempty,gte=0"`
	Weekly  *float64 `json:"weekly,omitempty" validate:"omitempty,gte=0"`
	Monthly *float64 `json:"monthly,omitempty" validate:"omitempty,gte=0"`
	Yearly  *float64 `json:"yearly,omitempty" validate:"omitempty,gte=0"`
}

type ServiceRequest struct {
	Name           string              `json:"name" validate:"required"`
	Description    string              `json:"description" validate:"required"`
	Price          float64             `json:"price" validate:"gte=0"`
	PricingPlans   PricingPlansRequest `json:"pricing_plans,omitempty"`
	Duration       int                 `json:"duration" validate:"required,gt=0"`
	Image          string              `json:"image,omitempty"`
	Category       string              `json:"category" validate:"required,oneof=deep-cleaning regular-cleaning move-in-out office-cleaning post-construction quick-service"`
	IsQuickService bool                `json:"is_quick_service"`
	IsActive       *bool               `json:"is_active,omitempty"`
}
