package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCompleted:
		return true
	}
	return false
}

// Active reports whether the request still holds the child.
func (s RequestStatus) Active() bool {
	return s == RequestPending || s == RequestApproved
}

// ChildStatusForReview is the child status written alongside a review.
// Approval moves the child straight to adopted and every other outcome,
// completed included, releases it.
func ChildStatusForReview(s RequestStatus) AdoptionStatus {
	if s == RequestApproved {
		return ChildAdopted
	}
	return ChildAvailable
}

// ExpectedChildStatus derives a child's status from its most recently
// touched request, or available when the child has none.
func ExpectedChildStatus(latest *AdoptionRequest) AdoptionStatus {
	if latest == nil {
		return ChildAvailable
	}
	if latest.ReviewedAt == nil {
		return ChildPending
	}
	return ChildStatusForReview(latest.Status)
}

type AdoptionRequest struct {
	ID           string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string                      `gorm:"type:varchar(36);not null;index" json:"userId"`
	User         *User                       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ChildID      string                      `gorm:"type:varchar(36);not null;index" json:"childId"`
	Child        *Child                      `gorm:"foreignKey:ChildID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Status       RequestStatus               `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Reason       string                      `gorm:"not null" json:"reason"`
	Documents    datatypes.JSONSlice[string] `json:"documents"`
	AdminNotes   string                      `json:"adminNotes"`
	ReviewedByID *string                     `gorm:"type:varchar(36)" json:"reviewedById"`
	ReviewedBy   *User                       `gorm:"foreignKey:ReviewedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	ReviewedAt   *time.Time                  `json:"reviewedAt"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// LastTouched is the time of the last lifecycle write on the request.
func (r *AdoptionRequest) LastTouched() time.Time {
	if r.ReviewedAt != nil {
		return *r.ReviewedAt
	}
	return r.CreatedAt
}

type SubmitAdoptionInput struct {
	ChildID   string   `json:"childId" valid:"required~Child ID is required"`
	Reason    string   `json:"reason" valid:"required~Reason is required"`
	Documents []string `json:"documents"`
}

type ReviewAdoptionInput struct {
	Status     RequestStatus `json:"status" valid:"required~Status is required"`
	AdminNotes string        `json:"adminNotes"`
}

type ListScope int

const (
	ScopeOwn ListScope = iota
	ScopeAll
)

type ReviewUpdate struct {
	Status     RequestStatus
	AdminNotes string
	ReviewerID string
	ReviewedAt time.Time
}

// AdoptionStore is the set of record operations available inside one
// transaction. Implementations are bound to the transaction's context.
type AdoptionStore interface {
	FindChild(id string, forUpdate bool) (*Child, error)
	HasActiveRequest(userID, childID string) (bool, error)
	CreateRequest(req *AdoptionRequest) error
	FindRequest(id string, forUpdate bool) (*AdoptionRequest, error)
	UpdateRequestReview(id string, upd ReviewUpdate) error
	SetChildStatus(childID string, status AdoptionStatus) error
	LoadRequest(id string) (*AdoptionRequest, error)
}

type AdoptionRepo interface {
	// Transaction runs fn inside one record-store transaction. A non-nil
	// return from fn rolls back every write made through the store.
	Transaction(ctx context.Context, fn func(store AdoptionStore) error) error
	FindRequest(ctx context.Context, id string) (*AdoptionRequest, error)
	ListRequests(ctx context.Context, userID string) ([]AdoptionRequest, error)
	// LatestRequests returns the most recently touched request per child.
	LatestRequests(ctx context.Context) (map[string]AdoptionRequest, error)
}

// KeyLocker gives mutual exclusion per key. Lock blocks until the key is free
// or ctx is done.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type AdoptionEventType string

const (
	EventAdoptionSubmitted AdoptionEventType = "adoption.submitted"
	EventAdoptionReviewed  AdoptionEventType = "adoption.reviewed"
)

type AdoptionEvent struct {
	Type        AdoptionEventType `json:"type"`
	RequestID   string            `json:"requestId"`
	ChildID     string            `json:"childId"`
	UserID      string            `json:"userId"`
	ActorID     string            `json:"actorId"`
	Status      RequestStatus     `json:"status"`
	ChildStatus AdoptionStatus    `json:"childStatus"`
	At          time.Time         `json:"at"`
}

type AdoptionEventPublisher interface {
	PublishAdoptionEvent(ctx context.Context, evt AdoptionEvent) error
}

type AdoptionUseCase interface {
	SubmitRequest(ctx context.Context, p Principal, data SubmitAdoptionInput) (*AdoptionRequestView, error)
	ReviewRequest(ctx context.Context, p Principal, requestID string, data ReviewAdoptionInput) (*AdoptionRequestView, error)
	ListRequests(ctx context.Context, p Principal, scope ListScope) ([]AdoptionRequestView, error)
}

// ChildDrift is a child whose stored status disagrees with the status implied
// by its latest adoption request.
type ChildDrift struct {
	ChildID       string
	ChildName     string
	Stored        AdoptionStatus
	Expected      AdoptionStatus
	LastRequestID string
	Fixed         bool
}

type ReconcileUseCase interface {
	Reconcile(ctx context.Context, fix bool) ([]ChildDrift, error)
}
