package usecase

import (
	"context"
	"orphancare/domain"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
)

type donationUseCase struct {
	repo    domain.DonationRepo
	TimeOut time.Duration
	Now     func() time.Time
}

func NewDonationUseCase(repo domain.DonationRepo, to time.Duration) domain.DonationUseCase {
	return &donationUseCase{
		repo:    repo,
		TimeOut: to,
		Now:     time.Now,
	}
}

// newDonation validates the input and builds the record. Money donations keep
// only amount and currency, item donations only the item fields.
func newDonation(donorID string, data domain.CreateDonationInput) (*domain.Donation, error) {
	d := &domain.Donation{
		ID:      uuid.NewString(),
		DonorID: donorID,
		Type:    data.Type,
		Message: data.Message,
		Status:  domain.DonationPending,
	}

	switch data.Type {
	case domain.DonationMoney:
		if data.Amount == nil || *data.Amount <= 0 {
			return nil, domain.Validation("Amount is required for money donations")
		}
		amount := *data.Amount
		d.Amount = &amount
		d.Currency = strings.ToUpper(strings.TrimSpace(data.Currency))
		if d.Currency == "" {
			d.Currency = "USD"
		}
		if !govalidator.IsAlpha(d.Currency) || !govalidator.StringLength(d.Currency, "3", "3") {
			return nil, domain.Validation("Invalid currency")
		}
	case domain.DonationItem:
		name := strings.TrimSpace(data.ItemName)
		if name == "" {
			return nil, domain.Validation("Item name is required for item donations")
		}
		d.ItemName = name
		d.ItemDescription = data.ItemDescription
		d.ItemPhoto = data.ItemPhoto
		value := 0.0
		if data.ItemValue != nil && *data.ItemValue > 0 {
			value = *data.ItemValue
		}
		d.ItemValue = &value
	default:
		return nil, domain.Validation("Invalid donation type")
	}
	return d, nil
}

func (duc *donationUseCase) Create(ctx context.Context, p domain.Principal, data domain.CreateDonationInput) (*domain.DonationView, error) {
	if p.UserID == "" {
		return nil, domain.Unauthorized("No token, authorization denied")
	}
	d, err := newDonation(p.UserID, data)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, duc.TimeOut)
	defer cancel()

	if err := duc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	saved, err := duc.repo.FindByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	v := domain.NewDonationView(saved)
	return &v, nil
}

func (duc *donationUseCase) ListOwn(ctx context.Context, p domain.Principal) ([]domain.DonationView, error) {
	if p.UserID == "" {
		return nil, domain.Unauthorized("No token, authorization denied")
	}
	ctx, cancel := context.WithTimeout(ctx, duc.TimeOut)
	defer cancel()

	ds, err := duc.repo.List(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return domain.NewDonationViews(ds), nil
}

func (duc *donationUseCase) ListAll(ctx context.Context, p domain.Principal) ([]domain.DonationView, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, duc.TimeOut)
	defer cancel()

	ds, err := duc.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return domain.NewDonationViews(ds), nil
}

func (duc *donationUseCase) Review(ctx context.Context, p domain.Principal, id string, data domain.ReviewDonationInput) (*domain.DonationView, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	if !data.Status.Valid() {
		return nil, domain.Validation("Invalid status")
	}

	ctx, cancel := context.WithTimeout(ctx, duc.TimeOut)
	defer cancel()

	if err := duc.repo.UpdateReview(ctx, id, data.Status, data.AdminNotes, p.UserID, duc.Now()); err != nil {
		return nil, err
	}
	d, err := duc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := domain.NewDonationView(d)
	return &v, nil
}

func (duc *donationUseCase) Stats(ctx context.Context, p domain.Principal) (*domain.DonationStats, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, duc.TimeOut)
	defer cancel()

	return duc.repo.Stats(ctx)
}
