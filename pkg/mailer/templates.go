package mailer

import (
	"fmt"
	"time"
)

// BookingDetails carries the booking fields rendered into the confirmation email
type BookingDetails struct {
	ServiceName  string
	Date         time.Time
	Time         string
	Street       string
	City         string
	State        string
	ZipCode      string
	TotalPrice   float64
	Plan         string
	Instructions string
}

func registrationOTPBody(code string) string {
	return fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto">
			<h2>Verify your email</h2>
			<p>Use this code to finish creating your account:</p>
			<p style="font-size:32px;letter-spacing:8px;font-weight:bold">%s</p>
			<p>The code expires in 10 minutes. If you did not request it, ignore this email.</p>
		</div>`, code)
}

func passwordResetOTPBody(name, code string) string {
	return fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto">
			<h2>Password reset</h2>
			<p>Hi %s,</p>
			<p>Use this code to reset your password:</p>
			<p style="font-size:32px;letter-spacing:8px;font-weight:bold">%s</p>
			<p>The code expires in 10 minutes. If you did not request it, your account is safe and you can ignore this email.</p>
		</div>`, name, code)
}

func welcomeBody(name string) string {
	return fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto">
			<h2>Welcome, %s!</h2>
			<p>Your account has been created. You can now browse cleaning services, build a cart, and book a visit.</p>
		</div>`, name)
}

func loginAlertBody(name, loginTime string) string {
	return fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto">
			<h2>New login to your account</h2>
			<p>Hi %s,</p>
			<p>Your account was signed in at %s. If this was not you, reset your password right away.</p>
		</div>`, name, loginTime)
}

func bookingConfirmationBody(name string, d BookingDetails) string {
	instructions := ""
	if d.Instructions != "" {
		instructions = fmt.Sprintf("<p><b>Special instructions:</b> %s</p>", d.Instructions)
	}

	return fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto">
			<h2>Your booking is confirmed</h2>
			<p>Hi %s, payment received. Here are your booking details:</p>
			<p><b>Service:</b> %s</p>
			<p><b>Date:</b> %s at %s</p>
			<p><b>Address:</b> %s, %s, %s %s</p>
			<p><b>Plan:</b> %s</p>
			<p><b>Total:</b> &#8377;%.2f</p>
			%s
		</div>`,
		name,
		d.ServiceName,
		d.Date.Format("Monday, 02 Jan 2006"), d.Time,
		d.Street, d.City, d.State, d.ZipCode,
		d.Plan,
		d.TotalPrice,
		instructions,
	)
}
