package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type OTPPurpose string

const (
	OTPPurposeRegistration  OTPPurpose = "registration"
	OTPPurposePasswordReset OTPPurpose = "password-reset"
)

func (p OTPPurpose) Valid() bool {
	switch p {
	case OTPPurposeRegistration, OTPPurposePasswordReset:
		return true
	}
	return false
}

// OTP is a short-lived email verification code. At most one live record
// exists per (email, purpose) pair; issuing a new code removes prior ones.
type OTP struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string        `bson:"email" json:"email"`
	Code      string        `bson:"otp" json:"-"`
	Purpose   OTPPurpose    `bson:"purpose" json:"purpose"`
	ExpiresAt time.Time     `bson:"expires_at" json:"expires_at"`
	Attempts  int           `bson:"attempts" json:"attempts"`
	Verified  bool          `bson:"verified" json:"verified"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
