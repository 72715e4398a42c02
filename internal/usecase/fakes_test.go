package usecase

import (
	"context"
	"sync"
	"time"

	"home-cleaning/internal/data/entity"
	"home-cleaning/internal/data/repository"
	"home-cleaning/pkg/mailer"
	"home-cleaning/pkg/payment"
	"home-cleaning/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// ==================== IN-MEMORY REPOSITORIES ====================

type memUserRepo struct {
	mu sync.Mutex
	m  map[bson.ObjectID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{m: make(map[bson.ObjectID]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	u := *user
	r.m[user.ID] = &u
	return nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.m {
		if u.Email == email {
			u2 := *u
			return &u2, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id bson.ObjectID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.m[id]; ok {
		u2 := *u
		return &u2, nil
	}
	return nil, nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.m[id]; ok {
		u.PasswordHash = passwordHash
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

func (r *memUserRepo) ListCustomers(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*entity.User
	for _, u := range r.m {
		if u.Role == entity.RoleCustomer {
			u2 := *u
			users = append(users, &u2)
		}
	}
	return users, nil
}

func (r *memUserRepo) CountCustomers(ctx context.Context) (int64, error) {
	users, _ := r.ListCustomers(ctx)
	return int64(len(users)), nil
}

type otpKey struct {
	email   string
	purpose entity.OTPPurpose
}

type memOTPRepo struct {
	mu sync.Mutex
	m  map[otpKey]*entity.OTP
}

func newMemOTPRepo() *memOTPRepo {
	return &memOTPRepo{m: make(map[otpKey]*entity.OTP)}
}

func (r *memOTPRepo) Replace(ctx context.Context, otp *entity.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if otp.ID.IsZero() {
		otp.ID = bson.NewObjectID()
	}
	otp.CreatedAt = time.Now()
	o := *otp
	r.m[otpKey{otp.Email, otp.Purpose}] = &o
	return nil
}

func (r *memOTPRepo) Find(ctx context.Context, email string, purpose entity.OTPPurpose) (*entity.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.m[otpKey{email, purpose}]; ok {
		o2 := *o
		return &o2, nil
	}
	return nil, nil
}

func (r *memOTPRepo) IncrementAttempts(ctx context.Context, id bson.ObjectID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.m {
		if o.ID == id {
			o.Attempts++
			return o.Attempts, nil
		}
	}
	return 0, nil
}

func (r *memOTPRepo) MarkVerified(ctx context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.m {
		if o.ID == id {
			o.Verified = true
		}
	}
	return nil
}

func (r *memOTPRepo) Delete(ctx context.Context, email string, purpose entity.OTPPurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, otpKey{email, purpose})
	return nil
}

type memServiceRepo struct {
	mu sync.Mutex
	m  map[bson.ObjectID]*entity.Service
}

func newMemServiceRepo() *memServiceRepo {
	return &memServiceRepo{m: make(map[bson.ObjectID]*entity.Service)}
}

func (r *memServiceRepo) Create(ctx context.Context, service *entity.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if service.ID.IsZero() {
		service.ID = bson.NewObjectID()
	}
	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now
	s := *service
	r.m[service.ID] = &s
	return nil
}

func (r *memServiceRepo) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		s2 := *s
		return &s2, nil
	}
	return nil, nil
}

func (r *memServiceRepo) FindActive(ctx context.Context) ([]*entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var services []*entity.Service
	for _, s := range r.m {
		if s.IsActive {
			s2 := *s
			services = append(services, &s2)
		}
	}
	return services, nil
}

func (r *memServiceRepo) FindAll(ctx context.Context) ([]*entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var services []*entity.Service
	for _, s := range r.m {
		s2 := *s
		services = append(services, &s2)
	}
	return services, nil
}

func (r *memServiceRepo) Update(ctx context.Context, id bson.ObjectID, service *entity.Service) (*entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return nil, nil
	}
	s := *service
	s.ID = id
	s.UpdatedAt = time.Now()
	r.m[id] = &s
	s2 := s
	return &s2, nil
}

func (r *memServiceRepo) SoftDelete(ctx context.Context, id bson.ObjectID) (*entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		s.IsActive = false
		s.UpdatedAt = time.Now()
		s2 := *s
		return &s2, nil
	}
	return nil, nil
}

func (r *memServiceRepo) CountActive(ctx context.Context) (int64, error) {
	services, _ := r.FindActive(ctx)
	return int64(len(services)), nil
}

type memBookingRepo struct {
	mu sync.Mutex
	m  map[bson.ObjectID]*entity.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{m: make(map[bson.ObjectID]*entity.Booking)}
}

func (r *memBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = bson.NewObjectID()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	b := *booking
	r.m[booking.ID] = &b
	return nil
}

func (r *memBookingRepo) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.m[id]; ok {
		b2 := *b
		return &b2, nil
	}
	return nil, nil
}

func (r *memBookingRepo) FindByUser(ctx context.Context, userID bson.ObjectID) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []*entity.Booking
	for _, b := range r.m {
		if b.UserID == userID {
			b2 := *b
			bookings = append(bookings, &b2)
		}
	}
	return bookings, nil
}

func (r *memBookingRepo) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []*entity.Booking
	for _, b := range r.m {
		b2 := *b
		bookings = append(bookings, &b2)
	}
	return bookings, nil
}

func (r *memBookingRepo) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []*entity.Booking
	for _, id := range ids {
		if b, ok := r.m[id]; ok {
			b2 := *b
			bookings = append(bookings, &b2)
		}
	}
	return bookings, nil
}

func (r *memBookingRepo) FindRecent(ctx context.Context, limit int64) ([]*entity.Booking, error) {
	bookings, _ := r.FindAll(ctx)
	if int64(len(bookings)) > limit {
		bookings = bookings[:limit]
	}
	return bookings, nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, id bson.ObjectID, status entity.BookingStatus) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.m[id]; ok {
		b.Status = status
		b.UpdatedAt = time.Now()
		b2 := *b
		return &b2, nil
	}
	return nil, nil
}

func (r *memBookingRepo) MarkPaid(ctx context.Context, ids []bson.ObjectID, paymentID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if b, ok := r.m[id]; ok {
			b.PaymentStatus = entity.PaymentStatusPaid
			b.Status = entity.BookingStatusConfirmed
			b.PaymentID = paymentID
			b.RazorpayOrderID = orderID
			b.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *memBookingRepo) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.m {
		if b.UserID == userID {
			delete(r.m, id)
		}
	}
	return nil
}

func (r *memBookingRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.m)), nil
}

func (r *memBookingRepo) CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[entity.BookingStatus]int64)
	for _, b := range r.m {
		counts[b.Status]++
	}
	return counts, nil
}

func (r *memBookingRepo) SumPaidRevenue(ctx context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, b := range r.m {
		if b.PaymentStatus == entity.PaymentStatusPaid {
			total += b.TotalPrice
		}
	}
	return total, nil
}

func (r *memBookingRepo) MonthlyPaidRevenue(ctx context.Context, since time.Time) ([]repository.MonthlyRevenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byMonth := make(map[[2]int]*repository.MonthlyRevenue)
	for _, b := range r.m {
		if b.PaymentStatus != entity.PaymentStatusPaid || b.CreatedAt.Before(since) {
			continue
		}
		key := [2]int{b.CreatedAt.Year(), int(b.CreatedAt.Month())}
		row, ok := byMonth[key]
		if !ok {
			row = &repository.MonthlyRevenue{Year: key[0], Month: key[1]}
			byMonth[key] = row
		}
		row.Revenue += b.TotalPrice
		row.Count++
	}
	var months []repository.MonthlyRevenue
	for _, row := range byMonth {
		months = append(months, *row)
	}
	return months, nil
}

// ==================== COLLABORATOR FAKES ====================

type sentMail struct {
	to      string
	subject string
}

// memMailer records every send; failSubjects simulates delivery failures
type memMailer struct {
	mu           sync.Mutex
	sent         []sentMail
	bookings     []mailer.BookingDetails
	failSubjects map[string]bool
}

func newMemMailer() *memMailer {
	return &memMailer{failSubjects: make(map[string]bool)}
}

func (m *memMailer) record(to, subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSubjects[subject] {
		return errSMTPDown
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

func (m *memMailer) count(subject string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sent {
		if s.subject == subject {
			n++
		}
	}
	return n
}

func (m *memMailer) SendRegistrationOTP(to, code string) error {
	return m.record(to, "registration-otp")
}

func (m *memMailer) SendPasswordResetOTP(to, name, code string) error {
	return m.record(to, "password-reset-otp")
}

func (m *memMailer) SendWelcome(to, name string) error {
	return m.record(to, "welcome")
}

func (m *memMailer) SendLoginAlert(to, name, loginTime string) error {
	return m.record(to, "login-alert")
}

func (m *memMailer) SendBookingConfirmation(to, name string, details mailer.BookingDetails) error {
	if err := m.record(to, "booking-confirmation"); err != nil {
		return err
	}
	m.mu.Lock()
	m.bookings = append(m.bookings, details)
	m.mu.Unlock()
	return nil
}

type memGateway struct {
	mu     sync.Mutex
	orders []*payment.Order
	secret string
}

func newMemGateway() *memGateway {
	return &memGateway{secret: "test_secret"}
}

func (g *memGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	order := &payment.Order{
		ID:       "order_" + bson.NewObjectID().Hex(),
		Amount:   int64(amount * 100),
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}
	g.orders = append(g.orders, order)
	return order, nil
}

func (g *memGateway) VerifySignature(orderID, paymentID, signature string) (bool, error) {
	if g.secret == "" {
		return false, payment.ErrNotConfigured
	}
	return signature == g.sign(orderID, paymentID), nil
}

// sign mirrors the provider's callback signature over "orderID|paymentID"
func (g *memGateway) sign(orderID, paymentID string) string {
	return payment.Sign(orderID, paymentID, g.secret)
}

// ==================== TEST WIRING ====================

var errSMTPDown = errSentinel("smtp connection refused")

type errSentinel string

func (e errSentinel) Error() string { return string(e) }

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{
			Secret:      "test-secret-key-for-tests-only",
			ExpiryHours: 168,
		},
		OTP: utils.OTPConfig{
			ExpiryMinutes: 10,
			Length:        6,
			MaxAttempts:   5,
		},
	}
}

type testEnv struct {
	repo    *repository.Repository
	users   *memUserRepo
	otps    *memOTPRepo
	svcs    *memServiceRepo
	books   *memBookingRepo
	mail    *memMailer
	gateway *memGateway
	service *Service
}

func newTestEnv() *testEnv {
	users := newMemUserRepo()
	otps := newMemOTPRepo()
	svcs := newMemServiceRepo()
	books := newMemBookingRepo()

	repo := &repository.Repository{
		User:    users,
		OTP:     otps,
		Service: svcs,
		Booking: books,
	}

	mail := newMemMailer()
	gateway := newMemGateway()

	return &testEnv{
		repo:    repo,
		users:   users,
		otps:    otps,
		svcs:    svcs,
		books:   books,
		mail:    mail,
		gateway: gateway,
		service: NewService(repo, testConfig(), mail, gateway, zap.NewNop()),
	}
}
