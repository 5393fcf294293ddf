package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leonfashion/fashionshop-backend/pkg/config"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/security"
	"gorm.io/gorm"
)

var testPwCfg = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     8,
	ArgonKeyLen:      16,
}

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "fashionshop",
	ExpirationMinutes: 30,
}

type fakeUserDirectory struct {
	users map[string]*models.User
}

func (f *fakeUserDirectory) FindActiveByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeCustomerDirectory struct {
	customers map[string]*models.Customer
	created   []*models.Customer
	createErr error
}

func (f *fakeCustomerDirectory) FindActiveByEmail(_ context.Context, email string) (*models.Customer, error) {
	customer, ok := f.customers[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (f *fakeCustomerDirectory) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.customers[email]
	return ok, nil
}

func (f *fakeCustomerDirectory) Create(_ context.Context, customer *models.Customer) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, customer)
	if f.customers == nil {
		f.customers = map[string]*models.Customer{}
	}
	f.customers[customer.Email] = customer
	return nil
}

type recordingNotifier struct {
	registered []string
}

func (r *recordingNotifier) CustomerRegistered(_ context.Context, email, _ string) {
	r.registered = append(r.registered, email)
}

// recordingEmail reports deliveries over a channel because the service sends
// welcome mail from a goroutine.
type recordingEmail struct {
	sent chan string
	err  error
}

func newRecordingEmail() *recordingEmail {
	return &recordingEmail{sent: make(chan string, 1)}
}

func (r *recordingEmail) SendWelcome(_ context.Context, to, _ string) error {
	r.sent <- to
	return r.err
}

func waitForEmail(t *testing.T, r *recordingEmail) string {
	t.Helper()
	select {
	case to := <-r.sent:
		return to
	case <-time.After(time.Second):
		t.Fatal("welcome email was not sent")
		return ""
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPwCfg)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return hash
}

func newTestService(users *fakeUserDirectory, customers *fakeCustomerDirectory, notifier *recordingNotifier, email *recordingEmail) Service {
	return NewService(users, customers, notifier, email, testJWTCfg, testPwCfg, nil)
}

func TestLoginUserReturnsAuthorities(t *testing.T) {
	users := &fakeUserDirectory{users: map[string]*models.User{
		"admin@shop.vn": {
			Email:        "admin@shop.vn",
			FullName:     "Admin",
			PasswordHash: mustHash(t, "correct-horse"),
			Roles: []models.Role{{
				Name:        "admin",
				Permissions: []models.Permission{{Name: "USERS.READ"}},
			}},
		},
	}}
	svc := newTestService(users, &fakeCustomerDirectory{}, nil, nil)

	resp, err := svc.LoginUser(context.Background(), LoginRequest{Email: "Admin@Shop.VN", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("access token is empty")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token type = %q", resp.TokenType)
	}
	wantAuthorities := []string{"ROLE_ADMIN", "USERS.READ"}
	if len(resp.Authorities) != len(wantAuthorities) {
		t.Fatalf("authorities = %v, want %v", resp.Authorities, wantAuthorities)
	}
	for i := range wantAuthorities {
		if resp.Authorities[i] != wantAuthorities[i] {
			t.Errorf("authorities = %v, want %v", resp.Authorities, wantAuthorities)
		}
	}
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	users := &fakeUserDirectory{users: map[string]*models.User{
		"admin@shop.vn": {
			Email:        "admin@shop.vn",
			PasswordHash: mustHash(t, "correct-horse"),
		},
	}}
	svc := newTestService(users, &fakeCustomerDirectory{}, nil, nil)

	cases := map[string]LoginRequest{
		"unknown email":  {Email: "nobody@shop.vn", Password: "correct-horse"},
		"wrong password": {Email: "admin@shop.vn", Password: "wrong"},
		"blank password": {Email: "admin@shop.vn", Password: ""},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.LoginUser(context.Background(), req)
			typed := errors.As(err)
			if typed == nil {
				t.Fatalf("expected typed error, got %v", err)
			}
			if typed.Code() != errors.CodeUnauthorized {
				t.Errorf("code = %s, want UNAUTHORIZED", typed.Code())
			}
			if typed.Message() != "invalid credentials" {
				t.Errorf("message = %q, must not leak failure reason", typed.Message())
			}
		})
	}
}

func TestLoginCustomerAuthoritiesAlwaysEmpty(t *testing.T) {
	customers := &fakeCustomerDirectory{customers: map[string]*models.Customer{
		"jane@shop.vn": {
			Email:        "jane@shop.vn",
			FullName:     "Jane",
			PasswordHash: mustHash(t, "pass-word-123"),
		},
	}}
	svc := newTestService(&fakeUserDirectory{}, customers, nil, nil)

	resp, err := svc.LoginCustomer(context.Background(), LoginRequest{Email: "jane@shop.vn", Password: "pass-word-123"})
	if err != nil {
		t.Fatalf("LoginCustomer: %v", err)
	}
	if resp.Authorities == nil || len(resp.Authorities) != 0 {
		t.Errorf("customer authorities = %v, want empty non-nil set", resp.Authorities)
	}
}

func TestRegisterCustomer(t *testing.T) {
	customers := &fakeCustomerDirectory{}
	notifier := &recordingNotifier{}
	email := newRecordingEmail()
	svc := newTestService(&fakeUserDirectory{}, customers, notifier, email)

	resp, err := svc.RegisterCustomer(context.Background(), RegisterCustomerRequest{
		Email:    "New@Shop.VN",
		Password: "long-enough-pw",
		FullName: "New Customer",
	})
	if err != nil {
		t.Fatalf("RegisterCustomer: %v", err)
	}
	if resp.Email != "new@shop.vn" {
		t.Errorf("email not normalized: %q", resp.Email)
	}
	if len(customers.created) != 1 {
		t.Fatalf("created %d customers", len(customers.created))
	}
	if !customers.created[0].IsActive {
		t.Error("new customer must start active")
	}
	if customers.created[0].PasswordHash == "long-enough-pw" {
		t.Error("password stored in the clear")
	}
	if len(notifier.registered) != 1 || notifier.registered[0] != "new@shop.vn" {
		t.Errorf("notifier calls = %v", notifier.registered)
	}
	if to := waitForEmail(t, email); to != "new@shop.vn" {
		t.Errorf("welcome email sent to %q", to)
	}
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	customers := &fakeCustomerDirectory{customers: map[string]*models.Customer{
		"taken@shop.vn": {Email: "taken@shop.vn"},
	}}
	svc := newTestService(&fakeUserDirectory{}, customers, nil, nil)

	_, err := svc.RegisterCustomer(context.Background(), RegisterCustomerRequest{
		Email:    "taken@shop.vn",
		Password: "long-enough-pw",
		FullName: "Dup",
	})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestRegisterCustomerSurvivesEmailFailure(t *testing.T) {
	customers := &fakeCustomerDirectory{}
	email := newRecordingEmail()
	email.err = fmt.Errorf("smtp down")
	svc := newTestService(&fakeUserDirectory{}, customers, &recordingNotifier{}, email)

	if _, err := svc.RegisterCustomer(context.Background(), RegisterCustomerRequest{
		Email:    "ok@shop.vn",
		Password: "long-enough-pw",
		FullName: "Ok",
	}); err != nil {
		t.Fatalf("registration must not fail on email delivery: %v", err)
	}
	waitForEmail(t, email)
}

func TestRegisterCustomerShortPassword(t *testing.T) {
	svc := newTestService(&fakeUserDirectory{}, &fakeCustomerDirectory{}, nil, nil)
	_, err := svc.RegisterCustomer(context.Background(), RegisterCustomerRequest{
		Email:    "ok@shop.vn",
		Password: "short",
		FullName: "Ok",
	})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
