package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GenerateOTP creates a numeric OTP of specified length, leading zeros allowed
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	rand.New(rand.NewSource(time.Now().UnixNano()))

	otp := ""
	for i := 0; i < length; i++ {
		otp += fmt.Sprintf("%d", rand.Intn(10))
	}

	return otp
}

// GenerateReceiptID creates a unique receipt reference for payment orders
func GenerateReceiptID() string {
	return fmt.Sprintf("receipt_%s", uuid.New().String())
}
