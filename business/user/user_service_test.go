//go:build !integration

package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/utils"

	"github.com/go-playground/validator/v10"
)

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, errors.New("user not found")
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	var all []domain.User
	for _, user := range f.users {
		all = append(all, user)
	}
	return all, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error {
	user := f.users[id]
	user.IsVerified = isVerified
	f.users[id] = user
	return nil
}

type fakeNotifier struct {
	sent int
}

func (f *fakeNotifier) SendEmail(toName, toEmail, subject, message string) error {
	f.sent++
	return nil
}

type fakeTokenStore struct {
	stored  []string
	revoked []string
}

func (f *fakeTokenStore) StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	f.stored = append(f.stored, token)
	return nil
}

func (f *fakeTokenStore) RevokeToken(ctx context.Context, userID, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

type spyReconciler struct {
	calls []string
	fail  bool
}

func (s *spyReconciler) ReconcileOnLogin(ctx context.Context, guestID string, userID uint) error {
	s.calls = append(s.calls, guestID)
	if s.fail {
		return errors.New("merge failed")
	}
	return nil
}

// 32 bytes, AES-256
const testVerificationKey = "0123456789abcdef0123456789abcdef"

func newUserFixture(reconcilers ...CollectionReconciler) (*userService, *fakeUserRepo, *fakeTokenStore) {
	utils.InitJWT("test-secret")
	repo := newFakeUserRepo()
	tokens := &fakeTokenStore{}
	svc := NewUserService(repo, validator.New(), &fakeNotifier{}, tokens, reconcilers,
		testVerificationKey, "http://localhost:8080")
	return svc, repo, tokens
}

func seedVerifiedUser(t *testing.T, repo *fakeUserRepo, email, password string) domain.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	user := domain.User{Email: email, FullName: "Jo Park", Password: string(hash), IsVerified: true, Role: RoleCustomer}
	if err := repo.Create(context.Background(), &user); err != nil {
		t.Fatal(err)
	}
	return user
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &domain.User{Email: "nope", Password: "secret123"}); err == nil {
		t.Error("expected error for malformed email")
	}
	if _, err := svc.Register(ctx, &domain.User{Email: "jo@example.com", Password: "abc"}); err == nil {
		t.Error("expected error for short password")
	}
	if _, err := svc.Register(ctx, &domain.User{Email: "jo@example.com", Password: "secret123", Handedness: "ambi"}); err == nil {
		t.Error("expected error for invalid handedness")
	}
}

func TestRegisterHashesPasswordAndScrubsIt(t *testing.T) {
	svc, repo, _ := newUserFixture()

	created, err := svc.Register(context.Background(), &domain.User{
		Email: "jo@example.com", Password: "secret123", FullName: "Jo Park", Handedness: "left",
	})
	if err != nil {
		t.Fatal(err)
	}

	if created.Password != "" {
		t.Error("returned user must not carry the password")
	}
	stored := repo.users[created.ID]
	if stored.Password == "secret123" || stored.Password == "" {
		t.Error("stored password must be a hash")
	}
	if stored.Role != RoleCustomer {
		t.Errorf("new accounts default to customer, got %s", stored.Role)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, repo, _ := newUserFixture()
	seedVerifiedUser(t, repo, "jo@example.com", "secret123")

	if _, err := svc.Register(context.Background(), &domain.User{Email: "jo@example.com", Password: "secret123"}); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestLoginRunsAllReconcilers(t *testing.T) {
	cartSpy := &spyReconciler{}
	wishlistSpy := &spyReconciler{}
	svc, repo, tokens := newUserFixture(cartSpy, wishlistSpy)
	seedVerifiedUser(t, repo, "jo@example.com", "secret123")

	token, user, err := svc.Login(context.Background(), "jo@example.com", "secret123", "guest-42")
	if err != nil {
		t.Fatal(err)
	}

	if token == "" {
		t.Error("expected a session token")
	}
	if user.Password != "" {
		t.Error("returned user must not carry the password")
	}
	if len(tokens.stored) != 1 {
		t.Errorf("expected token stored once, got %d", len(tokens.stored))
	}
	for i, spy := range []*spyReconciler{cartSpy, wishlistSpy} {
		if len(spy.calls) != 1 || spy.calls[0] != "guest-42" {
			t.Errorf("reconciler %d: expected one call with guest-42, got %v", i, spy.calls)
		}
	}
}

func TestLoginSkipsReconcilersWithoutGuestID(t *testing.T) {
	spy := &spyReconciler{}
	svc, repo, _ := newUserFixture(spy)
	seedVerifiedUser(t, repo, "jo@example.com", "secret123")

	if _, _, err := svc.Login(context.Background(), "jo@example.com", "secret123", ""); err != nil {
		t.Fatal(err)
	}
	if len(spy.calls) != 0 {
		t.Errorf("no guest session means nothing to merge, got %v", spy.calls)
	}
}

func TestLoginSurvivesReconcilerFailure(t *testing.T) {
	spy := &spyReconciler{fail: true}
	svc, repo, _ := newUserFixture(spy)
	seedVerifiedUser(t, repo, "jo@example.com", "secret123")

	token, _, err := svc.Login(context.Background(), "jo@example.com", "secret123", "guest-42")
	if err != nil {
		t.Fatalf("merge failure must not block the login: %v", err)
	}
	if token == "" {
		t.Error("expected a session token despite the failed merge")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, repo, _ := newUserFixture()
	seedVerifiedUser(t, repo, "jo@example.com", "secret123")

	if _, _, err := svc.Login(context.Background(), "jo@example.com", "wrong", "guest-42"); err == nil {
		t.Error("expected error for wrong password")
	}
}

func TestLoginRejectsUnverifiedEmail(t *testing.T) {
	svc, repo, _ := newUserFixture()
	user := seedVerifiedUser(t, repo, "jo@example.com", "secret123")
	user.IsVerified = false
	repo.users[user.ID] = user

	if _, _, err := svc.Login(context.Background(), "jo@example.com", "secret123", ""); err == nil {
		t.Error("expected error for unverified account")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, repo, tokens := newUserFixture()
	user := seedVerifiedUser(t, repo, "jo@example.com", "secret123")

	if err := svc.Logout(context.Background(), user.ID, "the-token"); err != nil {
		t.Fatal(err)
	}
	if len(tokens.revoked) != 1 || tokens.revoked[0] != "the-token" {
		t.Errorf("expected the token revoked, got %v", tokens.revoked)
	}
}

func TestSetUserRoleValidatesRole(t *testing.T) {
	svc, repo, _ := newUserFixture()
	user := seedVerifiedUser(t, repo, "jo@example.com", "secret123")

	if _, err := svc.SetUserRole(context.Background(), user.ID, "superuser"); err == nil {
		t.Error("expected error for unknown role")
	}

	updated, err := svc.SetUserRole(context.Background(), user.ID, RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Role != RoleAdmin {
		t.Errorf("expected admin role, got %s", updated.Role)
	}
}
