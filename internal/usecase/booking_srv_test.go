package usecase

import (
	"context"
	"strings"
	"testing"

	"home-cleaning/internal/data/entity"
	"home-cleaning/internal/dto/request"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func seedService(t *testing.T, env *testEnv, price float64) *entity.Service {
	t.Helper()
	hourly := 45.0
	service := &entity.Service{
		Name:        "Deep Cleaning",
		Description: "Full home deep clean",
		Price:       price,
		PricingPlans: entity.PricingPlans{
			Hourly: &hourly,
		},
		Duration: 180,
		Category: entity.CategoryDeepCleaning,
		IsActive: true,
	}
	if err := env.svcs.Create(context.Background(), service); err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return service
}

func seedCustomer(t *testing.T, env *testEnv, email string) *entity.User {
	t.Helper()
	user := &entity.User{
		Name:  "Customer",
		Email: email,
		Role:  entity.RoleCustomer,
	}
	if err := env.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func bookingRequest(serviceID string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		ServiceID: serviceID,
		Date:      "2026-09-15",
		Time:      "10:00",
		Address: request.AddressRequest{
			Street:  "12 Rose Lane",
			City:    "Pune",
			State:   "MH",
			ZipCode: "411001",
		},
	}
}

func TestCreateBookingSnapshotsPrice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	service := seedService(t, env, 120)
	user := seedCustomer(t, env, "c@x.com")

	resp, err := env.service.Booking.Create(ctx, user.ID.Hex(), bookingRequest(service.ID.Hex()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.TotalPrice != 120 {
		t.Fatalf("total price = %v, want 120", resp.TotalPrice)
	}
	if resp.Status != entity.BookingStatusPending {
		t.Fatalf("status = %s, want pending", resp.Status)
	}
	if resp.PaymentStatus != entity.PaymentStatusPending {
		t.Fatalf("payment status = %s", resp.PaymentStatus)
	}

	// A later catalog price change never touches the stored booking
	service.Price = 999
	if _, err := env.svcs.Update(ctx, service.ID, service); err != nil {
		t.Fatalf("update service: %v", err)
	}

	bookingID, _ := bson.ObjectIDFromHex(resp.ID)
	stored, _ := env.books.FindByID(ctx, bookingID)
	if stored.TotalPrice != 120 {
		t.Fatalf("stored price changed to %v", stored.TotalPrice)
	}
}

func TestCreateBookingPlanPricing(t *testing.T) {
	env := newTestEnv()
	service := seedService(t, env, 120)
	user := seedCustomer(t, env, "c@x.com")

	req := bookingRequest(service.ID.Hex())
	req.Plan = "hourly"

	resp, err := env.service.Booking.Create(context.Background(), user.ID.Hex(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.TotalPrice != 45 {
		t.Fatalf("hourly price = %v, want 45", resp.TotalPrice)
	}

	// A plan without a dedicated rate falls back to the base price
	req2 := bookingRequest(service.ID.Hex())
	req2.Plan = "weekly"
	resp2, err := env.service.Booking.Create(context.Background(), user.ID.Hex(), req2)
	if err != nil {
		t.Fatalf("Create weekly: %v", err)
	}
	if resp2.TotalPrice != 120 {
		t.Fatalf("weekly fallback price = %v, want 120", resp2.TotalPrice)
	}
}

func TestCreateBookingUnknownService(t *testing.T) {
	env := newTestEnv()
	user := seedCustomer(t, env, "c@x.com")

	_, err := env.service.Booking.Create(context.Background(), user.ID.Hex(), bookingRequest(bson.NewObjectID().Hex()))
	if err == nil || !strings.Contains(err.Error(), "service not found") {
		t.Fatalf("expected service not found, got %v", err)
	}
}

func TestListBookingsScopedToOwner(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	service := seedService(t, env, 120)
	alice := seedCustomer(t, env, "alice@x.com")
	bob := seedCustomer(t, env, "bob@x.com")

	if _, err := env.service.Booking.Create(ctx, alice.ID.Hex(), bookingRequest(service.ID.Hex())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.service.Booking.Create(ctx, bob.ID.Hex(), bookingRequest(service.ID.Hex())); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mine, err := env.service.Booking.List(ctx, alice.ID.Hex(), false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("customer sees %d bookings, want 1", len(mine))
	}

	all, err := env.service.Booking.List(ctx, alice.ID.Hex(), true)
	if err != nil {
		t.Fatalf("List admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d bookings, want 2", len(all))
	}
	if all[0].User == nil {
		t.Fatal("admin listing should join user details")
	}
}

func TestGetBookingAuthorization(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	service := seedService(t, env, 120)
	alice := seedCustomer(t, env, "alice@x.com")
	bob := seedCustomer(t, env, "bob@x.com")

	created, err := env.service.Booking.Create(ctx, alice.ID.Hex(), bookingRequest(service.ID.Hex()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := env.service.Booking.Get(ctx, alice.ID.Hex(), false, created.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := env.service.Booking.Get(ctx, bob.ID.Hex(), true, created.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := env.service.Booking.Get(ctx, bob.ID.Hex(), false, created.ID); err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("cross-user read should be denied, got %v", err)
	}
}

func TestUpdateBookingStatusAuthorization(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	service := seedService(t, env, 120)
	alice := seedCustomer(t, env, "alice@x.com")
	bob := seedCustomer(t, env, "bob@x.com")

	created, err := env.service.Booking.Create(ctx, alice.ID.Hex(), bookingRequest(service.ID.Hex()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Customers cannot push a booking forward, only cancel it
	_, err = env.service.Booking.UpdateStatus(ctx, alice.ID.Hex(), false, created.ID, &request.UpdateBookingStatusRequest{Status: "confirmed"})
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("owner confirm should be denied, got %v", err)
	}

	// Nor cancel someone else's
	_, err = env.service.Booking.UpdateStatus(ctx, bob.ID.Hex(), false, created.ID, &request.UpdateBookingStatusRequest{Status: "cancelled"})
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("cross-user cancel should be denied, got %v", err)
	}

	// Admin may set any status
	updated, err := env.service.Booking.UpdateStatus(ctx, bob.ID.Hex(), true, created.ID, &request.UpdateBookingStatusRequest{Status: "completed"})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Status != "completed" {
		t.Fatalf("status = %s", updated.Status)
	}

	// Terminal bookings are frozen for customers
	_, err = env.service.Booking.UpdateStatus(ctx, alice.ID.Hex(), false, created.ID, &request.UpdateBookingStatusRequest{Status: "cancelled"})
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("cancel of completed booking should be denied, got %v", err)
	}
}

func TestOwnerCancelsOwnBooking(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	service := seedService(t, env, 120)
	alice := seedCustomer(t, env, "alice@x.com")

	created, err := env.service.Booking.Create(ctx, alice.ID.Hex(), bookingRequest(service.ID.Hex()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := env.service.Booking.UpdateStatus(ctx, alice.ID.Hex(), false, created.ID, &request.UpdateBookingStatusRequest{Status: "cancelled"})
	if err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if updated.Status != "cancelled" {
		t.Fatalf("status = %s", updated.Status)
	}
}
