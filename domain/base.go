package domain

import (
	"time"
)

type UserView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Role       Role           `json:"role"`
	Phone      string         `json:"phone"`
	Address    string         `json:"address"`
	Documents  []UserDocument `json:"documents"`
	IsVerified bool           `json:"isVerified"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func NewUserView(u *User) UserView {
	docs := []UserDocument(u.Documents)
	if docs == nil {
		docs = []UserDocument{}
	}
	return UserView{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Phone:      u.Phone,
		Address:    u.Address,
		Documents:  docs,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

type ContactRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type NameRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ChildRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Photo  string `json:"photo"`
}

type AdoptionRequestView struct {
	ID         string        `json:"id"`
	User       *ContactRef   `json:"user"`
	Child      *ChildRef     `json:"child"`
	Status     RequestStatus `json:"status"`
	Reason     string        `json:"reason"`
	Documents  []string      `json:"documents"`
	AdminNotes string        `json:"adminNotes"`
	ReviewedBy *NameRef      `json:"reviewedBy"`
	ReviewedAt *time.Time    `json:"reviewedAt"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// NewAdoptionRequestView projects a request with its preloaded requester,
// child and reviewer. Missing relations fall back to id-only references.
func NewAdoptionRequestView(r *AdoptionRequest) AdoptionRequestView {
	v := AdoptionRequestView{
		ID:         r.ID,
		Status:     r.Status,
		Reason:     r.Reason,
		Documents:  []string(r.Documents),
		AdminNotes: r.AdminNotes,
		ReviewedAt: r.ReviewedAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if v.Documents == nil {
		v.Documents = []string{}
	}

	v.User = &ContactRef{ID: r.UserID}
	if r.User != nil {
		v.User.Name = r.User.Name
		v.User.Email = r.User.Email
		v.User.Phone = r.User.Phone
	}

	v.Child = &ChildRef{ID: r.ChildID}
	if r.Child != nil {
		v.Child.Name = r.Child.Name
		v.Child.Age = r.Child.Age
		v.Child.Gender = r.Child.Gender
		v.Child.Photo = r.Child.Photo
	}

	if r.ReviewedByID != nil {
		v.ReviewedBy = &NameRef{ID: *r.ReviewedByID}
		if r.ReviewedBy != nil {
			v.ReviewedBy.Name = r.ReviewedBy.Name
		}
	}
	return v
}

func NewAdoptionRequestViews(rs []AdoptionRequest) []AdoptionRequestView {
	out := make([]AdoptionRequestView, 0, len(rs))
	for i := range rs {
		out = append(out, NewAdoptionRequestView(&rs[i]))
	}
	return out
}

type DonationView struct {
	Donation
	Donor      *ContactRef `json:"donor"`
	ReviewedBy *NameRef    `json:"reviewedBy"`
}

func NewDonationView(d *Donation) DonationView {
	v := DonationView{Donation: *d}
	v.Donation.Donor = nil
	v.Donation.ReviewedBy = nil

	v.Donor = &ContactRef{ID: d.DonorID}
	if d.Donor != nil {
		v.Donor.Name = d.Donor.Name
		v.Donor.Email = d.Donor.Email
		v.Donor.Phone = d.Donor.Phone
	}
	if d.ReviewedByID != nil {
		v.ReviewedBy = &NameRef{ID: *d.ReviewedByID}
		if d.ReviewedBy != nil {
			v.ReviewedBy.Name = d.ReviewedBy.Name
		}
	}
	return v
}

func NewDonationViews(ds []Donation) []DonationView {
	out := make([]DonationView, 0, len(ds))
	for i := range ds {
		out = append(out, NewDonationView(&ds[i]))
	}
	return out
}
