package domain

import (
	"context"
	"time"
)

type DonationType string

const (
	DonationMoney DonationType = "money"
	DonationItem  DonationType = "item"
)

type DonationStatus string

const (
	DonationPending  DonationStatus = "pending"
	DonationApproved DonationStatus = "approved"
	DonationRejected DonationStatus = "rejected"
	DonationReceived DonationStatus = "received"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationPending, DonationApproved, DonationRejected, DonationReceived:
		return true
	}
	return false
}

type Donation struct {
	ID              string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	DonorID         string         `gorm:"type:varchar(36);not null;index" json:"donorId"`
	Donor           *User          `gorm:"foreignKey:DonorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Type            DonationType   `gorm:"type:varchar(10);not null" json:"type"`
	Amount          *float64       `json:"amount,omitempty"`
	Currency        string         `gorm:"type:varchar(3)" json:"currency,omitempty"`
	ItemName        string         `json:"itemName,omitempty"`
	ItemDescription string         `json:"itemDescription,omitempty"`
	ItemValue       *float64       `json:"itemValue,omitempty"`
	ItemPhoto       string         `json:"itemPhoto,omitempty"`
	Message         string         `json:"message"`
	Status          DonationStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	AdminNotes      string         `json:"adminNotes"`
	ReviewedByID    *string        `gorm:"type:varchar(36)" json:"reviewedById"`
	ReviewedBy      *User          `gorm:"foreignKey:ReviewedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	ReviewedAt      *time.Time     `json:"reviewedAt"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

type CreateDonationInput struct {
	Type            DonationType `json:"type"`
	Amount          *float64     `json:"amount"`
	Currency        string       `json:"currency"`
	ItemName        string       `json:"itemName"`
	ItemDescription string       `json:"itemDescription"`
	ItemValue       *float64     `json:"itemValue"`
	ItemPhoto       string       `json:"itemPhoto"`
	Message         string       `json:"message"`
}

type ReviewDonationInput struct {
	Status     DonationStatus `json:"status"`
	AdminNotes string         `json:"adminNotes"`
}

type DonationStats struct {
	Total       int64   `json:"total"`
	Pending     int64   `json:"pending"`
	Approved    int64   `json:"approved"`
	TotalAmount float64 `json:"totalAmount"`
}

type DonationRepo interface {
	Create(ctx context.Context, d *Donation) error
	FindByID(ctx context.Context, id string) (*Donation, error)
	// List returns donations newest first, all donors when donorID is empty.
	List(ctx context.Context, donorID string) ([]Donation, error)
	UpdateReview(ctx context.Context, id string, status DonationStatus, notes, reviewerID string, at time.Time) error
	Stats(ctx context.Context) (*DonationStats, error)
}

type DonationUseCase interface {
	Create(ctx context.Context, p Principal, data CreateDonationInput) (*DonationView, error)
	ListOwn(ctx context.Context, p Principal) ([]DonationView, error)
	ListAll(ctx context.Context, p Principal) ([]DonationView, error)
	Review(ctx context.Context, p Principal, id string, data ReviewDonationInput) (*DonationView, error)
	Stats(ctx context.Context, p Principal) (*DonationStats, error)
}
