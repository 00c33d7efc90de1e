package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type UserDocument struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	UploadDate time.Time `json:"uploadDate"`
}

type User struct {
	ID         string                            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string                            `gorm:"type:varchar(150);not null" json:"name"`
	Email      string                            `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password   string                            `gorm:"not null" json:"-"`
	Role       Role                              `gorm:"type:varchar(10);not null;default:user" json:"role"`
	Phone      string                            `gorm:"type:varchar(30)" json:"phone"`
	Address    string                            `json:"address"`
	Documents  datatypes.JSONSlice[UserDocument] `json:"documents"`
	IsVerified bool                              `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt  time.Time                         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time                         `gorm:"autoUpdateTime" json:"updatedAt"`
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type AddDocumentRequest struct {
	Name string `json:"name" valid:"required~Document name is required"`
	URL  string `json:"url" valid:"required~Document url is required"`
	Type string `json:"type"`
}

type UserRepo interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	List(ctx context.Context) ([]User, error)
}

type UserUseCase interface {
	GetProfile(ctx context.Context, p Principal) (*UserView, error)
	UpdateProfile(ctx context.Context, p Principal, data UpdateProfileRequest) (*UserView, error)
	AddDocument(ctx context.Context, p Principal, data AddDocumentRequest) (*UserDocument, error)
	RemoveDocument(ctx context.Context, p Principal, documentID string) error
	ListUsers(ctx context.Context, p Principal) ([]UserView, error)
}
