package usecase

import (
	"context"
	"errors"
	"orphancare/domain"
	"testing"
	"time"
)

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	uc := NewAuthUseCase(users, staticIssuer{}, time.Second)

	res, err := uc.Register(context.Background(), domain.RegisterRequest{Name: "Rita", Email: "rita@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Role != domain.RoleUser {
		t.Errorf("self-registered users must not be admins, got %s", res.User.Role)
	}
	if res.Token != "token-"+res.User.ID+"-user" {
		t.Errorf("unexpected token %q", res.Token)
	}
	stored, _ := users.FindByID(context.Background(), res.User.ID)
	if stored.Password == "secret1" {
		t.Errorf("password stored in clear text")
	}

	if _, err := uc.Register(context.Background(), domain.RegisterRequest{Name: "Rita", Email: "RITA@example.com", Password: "secret1"}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict on duplicate email, got %v", err)
	}
	if _, err := uc.Register(context.Background(), domain.RegisterRequest{Name: "Short", Email: "s@example.com", Password: "123"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation on short password, got %v", err)
	}

	if _, err := uc.Login(context.Background(), domain.LoginRequest{Email: "rita@example.com", Password: "secret1"}); err != nil {
		t.Errorf("login: %v", err)
	}
	for _, bad := range []domain.LoginRequest{
		{Email: "rita@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "secret1"},
	} {
		_, err := uc.Login(context.Background(), bad)
		if !errors.Is(err, domain.ErrUnauthorized) || err.Error() != "Invalid credentials" {
			t.Errorf("login %s: expected invalid credentials, got %v", bad.Email, err)
		}
	}
}

func TestUserDocuments(t *testing.T) {
	users := newFakeUserRepo(domain.User{ID: alice.UserID, Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser})
	uc := &userUseCase{repo: users, TimeOut: time.Second, Now: func() time.Time { return fixedAt }}

	doc, err := uc.AddDocument(context.Background(), alice, domain.AddDocumentRequest{Name: "ID card", URL: "https://files.test/id.pdf", Type: "identity"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if doc.ID == "" || !doc.UploadDate.Equal(fixedAt) {
		t.Errorf("unexpected document %+v", doc)
	}

	profile, err := uc.GetProfile(context.Background(), alice)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(profile.Documents) != 1 {
		t.Fatalf("expected one document, got %d", len(profile.Documents))
	}

	if err := uc.RemoveDocument(context.Background(), alice, doc.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	profile, _ = uc.GetProfile(context.Background(), alice)
	if len(profile.Documents) != 0 {
		t.Errorf("expected no documents, got %d", len(profile.Documents))
	}
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUserRepo(domain.User{ID: alice.UserID, Name: "Alice", Email: "alice@example.com"})
	uc := NewUserUseCase(users, time.Second)

	v, err := uc.UpdateProfile(context.Background(), alice, domain.UpdateProfileRequest{Phone: strPtr("555-0100")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v.Phone != "555-0100" || v.Name != "Alice" {
		t.Errorf("unexpected profile %+v", v)
	}
	if _, err := uc.UpdateProfile(context.Background(), alice, domain.UpdateProfileRequest{Name: strPtr("  ")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation on blank name, got %v", err)
	}
	if _, err := uc.ListUsers(context.Background(), alice); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}
