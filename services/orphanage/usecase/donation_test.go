package usecase

import (
	"context"
	"errors"
	"orphancare/domain"
	"testing"
	"time"
)

func newDonationTestUseCase(repo domain.DonationRepo) *donationUseCase {
	return &donationUseCase{repo: repo, TimeOut: time.Second, Now: func() time.Time { return fixedAt }}
}

func TestCreateDonation_Validation(t *testing.T) {
	zero := 0.0
	ten := 10.0
	tests := []struct {
		name string
		in   domain.CreateDonationInput
		msg  string
	}{
		{"item without name", domain.CreateDonationInput{Type: domain.DonationItem}, "Item name is required for item donations"},
		{"money without amount", domain.CreateDonationInput{Type: domain.DonationMoney}, "Amount is required for money donations"},
		{"money with zero amount", domain.CreateDonationInput{Type: domain.DonationMoney, Amount: &zero}, "Amount is required for money donations"},
		{"unknown type", domain.CreateDonationInput{Type: "crypto"}, "Invalid donation type"},
		{"long currency", domain.CreateDonationInput{Type: domain.DonationMoney, Amount: &ten, Currency: "usdollars"}, "Invalid currency"},
		{"numeric currency", domain.CreateDonationInput{Type: domain.DonationMoney, Amount: &ten, Currency: "840"}, "Invalid currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeDonationRepo()
			uc := newDonationTestUseCase(repo)

			_, err := uc.Create(context.Background(), alice, tt.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, err.Error())
			}
			if repo.created != 0 {
				t.Errorf("nothing may be created")
			}
		})
	}
}

func TestCreateDonation_MoneyDefaults(t *testing.T) {
	repo := newFakeDonationRepo()
	uc := newDonationTestUseCase(repo)
	amount := 50.0

	v, err := uc.Create(context.Background(), alice, domain.CreateDonationInput{Type: domain.DonationMoney, Amount: &amount, ItemName: "ignored"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Currency != "USD" || v.Status != domain.DonationPending || v.DonorID != alice.UserID {
		t.Errorf("unexpected donation: %+v", v.Donation)
	}
	if v.ItemName != "" {
		t.Errorf("money donation must not keep item fields")
	}
}

func TestCreateDonation_CurrencyNormalised(t *testing.T) {
	uc := newDonationTestUseCase(newFakeDonationRepo())
	amount := 20.0

	v, err := uc.Create(context.Background(), alice, domain.CreateDonationInput{Type: domain.DonationMoney, Amount: &amount, Currency: " eur "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Currency != "EUR" {
		t.Errorf("expected EUR, got %q", v.Currency)
	}
}

func TestCreateDonation_ItemValueDefaultsToZero(t *testing.T) {
	uc := newDonationTestUseCase(newFakeDonationRepo())

	v, err := uc.Create(context.Background(), alice, domain.CreateDonationInput{Type: domain.DonationItem, ItemName: "Books"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ItemValue == nil || *v.ItemValue != 0 {
		t.Errorf("expected item value 0, got %v", v.ItemValue)
	}
	if v.Amount != nil {
		t.Errorf("item donation must not carry an amount")
	}
}

func TestReviewDonation(t *testing.T) {
	repo := newFakeDonationRepo()
	uc := newDonationTestUseCase(repo)
	amount := 20.0
	created, err := uc.Create(context.Background(), alice, domain.CreateDonationInput{Type: domain.DonationMoney, Amount: &amount})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := uc.Review(context.Background(), alice, created.ID, domain.ReviewDonationInput{Status: domain.DonationApproved}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if _, err := uc.Review(context.Background(), admin, created.ID, domain.ReviewDonationInput{Status: "lost"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation, got %v", err)
	}
	if _, err := uc.Review(context.Background(), admin, "missing", domain.ReviewDonationInput{Status: domain.DonationApproved}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	v, err := uc.Review(context.Background(), admin, created.ID, domain.ReviewDonationInput{Status: domain.DonationApproved, AdminNotes: "thanks"})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if v.Status != domain.DonationApproved || v.ReviewedAt == nil || !v.ReviewedAt.Equal(fixedAt) {
		t.Errorf("unexpected review: %+v", v.Donation)
	}

	stats, err := uc.Stats(context.Background(), admin)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Approved != 1 || stats.TotalAmount != 20 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestListDonations_Scopes(t *testing.T) {
	uc := newDonationTestUseCase(newFakeDonationRepo())
	for _, p := range []domain.Principal{alice, bob} {
		if _, err := uc.Create(context.Background(), p, domain.CreateDonationInput{Type: domain.DonationItem, ItemName: "Toys"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	own, err := uc.ListOwn(context.Background(), bob)
	if err != nil || len(own) != 1 {
		t.Fatalf("expected one own donation, got %d (%v)", len(own), err)
	}
	if _, err := uc.ListAll(context.Background(), bob); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	all, err := uc.ListAll(context.Background(), admin)
	if err != nil || len(all) != 2 {
		t.Errorf("expected two donations, got %d (%v)", len(all), err)
	}
}
