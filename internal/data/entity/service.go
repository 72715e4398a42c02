package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ServiceCategory string

const (
	CategoryDeepCleaning     ServiceCategory = "deep-cleaning"
	CategoryRegularCleaning  ServiceCategory = "regular-cleaning"
	CategoryMoveInOut        ServiceCategory = "move-in-out"
	CategoryOfficeCleaning   ServiceCategory = "office-cleaning"
	CategoryPostConstruction ServiceCategory = "post-construction"
	CategoryQuickService     ServiceCategory = "quick-service"
)

func (c ServiceCategory) Valid() bool {
	switch c {
	case CategoryDeepCleaning, CategoryRegularCleaning, CategoryMoveInOut,
		CategoryOfficeCleaning, CategoryPostConstruction, CategoryQuickService:
		return true
	}
	return false
}

// PricingPlans holds optional per-plan prices; nil means the plan is not offered
type PricingPlans struct {
	Hourly  *float64 `bson:"hourly,omitempty" json:"hourly,omitempty"`
	Daily   *float64 `bson:"daily,omitempty" json:"daily,omitempty"`
	Weekly  *float64 `bson:"weekly,omitempty" json:"weekly,omitempty"`
	Monthly *float64 `bson:"monthly,omitempty" json:"monthly,omitempty"`
	Yearly  *float64 `bson:"yearly,omitempty" json:"yearly,omitempty"`
}

// PriceFor returns the price for the given plan, falling back to base price
// when the plan has no dedicated rate
func (s *Service) PriceFor(plan Plan) float64 {
	var p *float64
	switch plan {
	case PlanHourly:
		p = s.PricingPlans.Hourly
	case PlanDaily:
		p = s.PricingPlans.Daily
	case PlanWeekly:
		p = s.PricingPlans.Weekly
	case PlanMonthly:
		p = s.PricingPlans.Monthly
	case PlanYearly:
		p = s.PricingPlans.Yearly
	}

	if p != nil {
		return *p
	}
	return s.Price
}

type Service struct {
	ID             bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string          `bson:"name" json:"name"`
	Description    string          `bson:"description" json:"description"`
	Price          float64         `bson:"price" json:"price"`
	PricingPlans   PricingPlans    `bson:"pricing_plans,omitempty" json:"pricing_plans,omitempty"`
	Duration       int             `bson:"duration" json:"duration"` // minutes
	Image          string          `bson:"image,omitempty" json:"image,omitempty"`
	Category       ServiceCategory `bson:"category" json:"category"`
	IsQuickService bool            `bson:"is_quick_service" json:"is_quick_service"`
	IsActive       bool            `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at" json:"updated_at"`
}
