package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// AllBookingStatuses lists every fulfillment status, used for zero-defaulted
// status counts in reporting
var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type Plan string

const (
	PlanOneTime Plan = "one-time"
	PlanHourly  Plan = "hourly"
	PlanDaily   Plan = "daily"
	PlanWeekly  Plan = "weekly"
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanOneTime, PlanHourly, PlanDaily, PlanWeekly, PlanMonthly, PlanYearly:
		return true
	}
	return false
}

type BookingType string

const (
	BookingTypeInstant   BookingType = "instant"
	BookingTypeScheduled BookingType = "scheduled"
	BookingTypeRecurring BookingType = "recurring"
)

func (t BookingType) Valid() bool {
	switch t {
	case BookingTypeInstant, BookingTypeScheduled, BookingTypeRecurring:
		return true
	}
	return false
}

type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "daily"
	FrequencyWeekly  RecurringFrequency = "weekly"
	FrequencyMonthly RecurringFrequency = "monthly"
)

func (f RecurringFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zip_code" json:"zip_code"`
}

// Booking links a user to a service at a schedule and address. TotalPrice is
// snapshotted at creation and never tracks later service price changes.
// Payment identifiers are only set by the verified payment callback.
type Booking struct {
	ID                  bson.ObjectID      `bson:"_id,omitempty" json:"id"`
	UserID              bson.ObjectID      `bson:"user" json:"user_id"`
	ServiceID           bson.ObjectID      `bson:"service" json:"service_id"`
	Date                time.Time          `bson:"date" json:"date"`
	Time                string             `bson:"time" json:"time"`
	Address             Address            `bson:"address" json:"address"`
	Status              BookingStatus      `bson:"status" json:"status"`
	Plan                Plan               `bson:"plan" json:"plan"`
	BookingType         BookingType        `bson:"booking_type" json:"booking_type"`
	RecurringFrequency  RecurringFrequency `bson:"recurring_frequency,omitempty" json:"recurring_frequency,omitempty"`
	TotalPrice          float64            `bson:"total_price" json:"total_price"`
	PaymentStatus       PaymentStatus      `bson:"payment_status" json:"payment_status"`
	PaymentID           string             `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	RazorpayOrderID     string             `bson:"razorpay_order_id,omitempty" json:"razorpay_order_id,omitempty"`
	SpecialInstructions string             `bson:"special_instructions,omitempty" json:"special_instructions,omitempty"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updated_at"`
}
