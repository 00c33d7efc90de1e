package domain

import (
	"context"
	"io"
	"time"

	"gorm.io/datatypes"
)

type AdoptionStatus string

const (
	ChildAvailable AdoptionStatus = "available"
	ChildPending   AdoptionStatus = "pending"
	ChildAdopted   AdoptionStatus = "adopted"
)

func (s AdoptionStatus) Valid() bool {
	switch s {
	case ChildAvailable, ChildPending, ChildAdopted:
		return true
	}
	return false
}

type Health struct {
	Status      string                      `gorm:"type:varchar(20);not null;default:good" json:"status"`
	Conditions  datatypes.JSONSlice[string] `json:"conditions"`
	LastCheckup *time.Time                  `json:"lastCheckup,omitempty"`
}

type Education struct {
	Level  string `gorm:"type:varchar(20);not null;default:none" json:"level"`
	School string `json:"school"`
	Grade  string `json:"grade"`
}

type Child struct {
	ID             string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name           string                      `gorm:"type:varchar(150);not null" json:"name"`
	Age            int                         `gorm:"not null" json:"age"`
	Gender         string                      `gorm:"type:varchar(10);not null" json:"gender"`
	Health         Health                      `gorm:"embedded;embeddedPrefix:health_" json:"health"`
	Education      Education                   `gorm:"embedded;embeddedPrefix:education_" json:"education"`
	Description    string                      `json:"description"`
	Interests      datatypes.JSONSlice[string] `json:"interests"`
	Photo          string                      `json:"photo"`
	Documents      datatypes.JSONSlice[string] `json:"documents"`
	AdoptionStatus AdoptionStatus              `gorm:"type:varchar(20);not null;default:available;index" json:"adoptionStatus"`
	AddedByID      string                      `gorm:"type:varchar(36)" json:"addedById"`
	AddedBy        *User                       `gorm:"foreignKey:AddedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"addedBy,omitempty"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ChildInput is the create/update payload. Pointer fields distinguish "not
// sent" from zero values on update.
type ChildInput struct {
	Name           *string         `json:"name"`
	Age            *int            `json:"age"`
	Gender         *string         `json:"gender"`
	Health         *HealthInput    `json:"health"`
	Education      *EducationInput `json:"education"`
	Description    *string         `json:"description"`
	Interests      []string        `json:"interests"`
	Photo          *string         `json:"photo"`
	Documents      []string        `json:"documents"`
	AdoptionStatus *string         `json:"adoptionStatus"`
}

type HealthInput struct {
	Status      string     `json:"status" valid:"in(excellent|good|fair|needs_attention)~Invalid health status"`
	Conditions  []string   `json:"conditions"`
	LastCheckup *time.Time `json:"lastCheckup"`
}

type EducationInput struct {
	Level  string `json:"level" valid:"in(none|primary|secondary|high_school)~Invalid education level"`
	School string `json:"school"`
	Grade  string `json:"grade"`
}

// Upload is a file received from a client, not yet stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ChildRepo interface {
	Create(ctx context.Context, child *Child) error
	FindByID(ctx context.Context, id string) (*Child, error)
	List(ctx context.Context, status AdoptionStatus) ([]Child, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	// Delete removes the child together with its terminal requests. It
	// refuses with InvalidState while a pending or approved request exists.
	Delete(ctx context.Context, id string) error
}

type ChildUseCase interface {
	ListAvailable(ctx context.Context) ([]Child, error)
	ListAll(ctx context.Context, p Principal) ([]Child, error)
	Get(ctx context.Context, id string) (*Child, error)
	Create(ctx context.Context, p Principal, data ChildInput, photo *Upload) (*Child, error)
	Update(ctx context.Context, p Principal, id string, data ChildInput) (*Child, error)
	Delete(ctx context.Context, p Principal, id string) error
}
