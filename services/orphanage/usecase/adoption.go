package usecase

import (
	"context"
	"orphancare/config"
	"orphancare/domain"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	adoptionSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orphancare_adoption_submissions_total",
		Help: "Adoption request submissions by outcome.",
	}, []string{"outcome"})

	adoptionReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orphancare_adoption_reviews_total",
		Help: "Adoption request reviews by requested status and outcome.",
	}, []string{"status", "outcome"})
)

type adoptionUseCase struct {
	repo    domain.AdoptionRepo
	locker  domain.KeyLocker
	events  domain.AdoptionEventPublisher
	TimeOut time.Duration
	Now     func() time.Time
}

func NewAdoptionUseCase(repo domain.AdoptionRepo, locker domain.KeyLocker, events domain.AdoptionEventPublisher, to time.Duration) domain.AdoptionUseCase {
	return &adoptionUseCase{
		repo:    repo,
		locker:  locker,
		events:  events,
		TimeOut: to,
		Now:     time.Now,
	}
}

func childKey(id string) string    { return "child:" + id }
func adoptionKey(id string) string { return "adoption:" + id }

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(domain.KindOf(err))
}

// SubmitRequest creates a pending request and reserves the child. Submissions
// for the same child are serialized by the child lock and the row lock taken
// inside the transaction.
func (auc *adoptionUseCase) SubmitRequest(ctx context.Context, p domain.Principal, data domain.SubmitAdoptionInput) (view *domain.AdoptionRequestView, err error) {
	defer func() { adoptionSubmissions.WithLabelValues(outcome(err)).Inc() }()

	if p.UserID == "" {
		return nil, domain.Unauthorized("No token, authorization denied")
	}
	childID := strings.TrimSpace(data.ChildID)
	if childID == "" {
		return nil, domain.Validation("Child ID is required")
	}
	reason := strings.TrimSpace(data.Reason)
	if reason == "" {
		return nil, domain.Validation("Reason is required")
	}

	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	unlock, err := auc.locker.Lock(ctx, childKey(childID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *domain.AdoptionRequest
	err = auc.repo.Transaction(ctx, func(store domain.AdoptionStore) error {
		child, err := store.FindChild(childID, true)
		if err != nil {
			return err
		}
		if child.AdoptionStatus != domain.ChildAvailable {
			return domain.InvalidState("Child is not available for adoption")
		}

		dup, err := store.HasActiveRequest(p.UserID, childID)
		if err != nil {
			return err
		}
		if dup {
			return domain.Conflict("You already have a pending request for this child")
		}

		now := auc.Now()
		req := &domain.AdoptionRequest{
			ID:        uuid.NewString(),
			UserID:    p.UserID,
			ChildID:   childID,
			Status:    domain.RequestPending,
			Reason:    reason,
			Documents: nonNil(data.Documents),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.CreateRequest(req); err != nil {
			return err
		}
		if err := store.SetChildStatus(childID, domain.ChildPending); err != nil {
			return pairedWriteFailed(err)
		}

		created, err = store.LoadRequest(req.ID)
		return err
	})
	if err != nil {
		logFailure("SubmitRequest", err)
		return nil, err
	}

	auc.publish(ctx, domain.AdoptionEvent{
		Type:        domain.EventAdoptionSubmitted,
		RequestID:   created.ID,
		ChildID:     created.ChildID,
		UserID:      created.UserID,
		ActorID:     p.UserID,
		Status:      created.Status,
		ChildStatus: domain.ChildPending,
		At:          created.CreatedAt,
	})

	v := domain.NewAdoptionRequestView(created)
	return &v, nil
}

// ReviewRequest sets the request status and writes the paired child status
// in one transaction. Any status may be set from any status.
func (auc *adoptionUseCase) ReviewRequest(ctx context.Context, p domain.Principal, requestID string, data domain.ReviewAdoptionInput) (view *domain.AdoptionRequestView, err error) {
	defer func() {
		label := string(data.Status)
		if !data.Status.Valid() {
			label = "invalid"
		}
		adoptionReviews.WithLabelValues(label, outcome(err)).Inc()
	}()

	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	if !data.Status.Valid() {
		return nil, domain.Validation("Invalid status")
	}

	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	unlockReq, err := auc.locker.Lock(ctx, adoptionKey(requestID))
	if err != nil {
		return nil, err
	}
	defer unlockReq()

	current, err := auc.repo.FindRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	unlockChild, err := auc.locker.Lock(ctx, childKey(current.ChildID))
	if err != nil {
		return nil, err
	}
	defer unlockChild()

	childStatus := domain.ChildStatusForReview(data.Status)
	var reviewed *domain.AdoptionRequest
	err = auc.repo.Transaction(ctx, func(store domain.AdoptionStore) error {
		req, err := store.FindRequest(requestID, true)
		if err != nil {
			return err
		}

		err = store.UpdateRequestReview(req.ID, domain.ReviewUpdate{
			Status:     data.Status,
			AdminNotes: data.AdminNotes,
			ReviewerID: p.UserID,
			ReviewedAt: auc.Now(),
		})
		if err != nil {
			return err
		}
		if err := store.SetChildStatus(req.ChildID, childStatus); err != nil {
			return pairedWriteFailed(err)
		}

		reviewed, err = store.LoadRequest(req.ID)
		return err
	})
	if err != nil {
		logFailure("ReviewRequest", err)
		return nil, err
	}

	at := reviewed.UpdatedAt
	if reviewed.ReviewedAt != nil {
		at = *reviewed.ReviewedAt
	}
	auc.publish(ctx, domain.AdoptionEvent{
		Type:        domain.EventAdoptionReviewed,
		RequestID:   reviewed.ID,
		ChildID:     reviewed.ChildID,
		UserID:      reviewed.UserID,
		ActorID:     p.UserID,
		Status:      reviewed.Status,
		ChildStatus: childStatus,
		At:          at,
	})

	v := domain.NewAdoptionRequestView(reviewed)
	return &v, nil
}

func (auc *adoptionUseCase) ListRequests(ctx context.Context, p domain.Principal, scope domain.ListScope) ([]domain.AdoptionRequestView, error) {
	userID := p.UserID
	switch scope {
	case domain.ScopeAll:
		if err := p.RequireAdmin(); err != nil {
			return nil, err
		}
		userID = ""
	default:
		if userID == "" {
			return nil, domain.Unauthorized("No token, authorization denied")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	reqs, err := auc.repo.ListRequests(ctx, userID)
	if err != nil {
		logFailure("ListRequests", err)
		return nil, err
	}
	return domain.NewAdoptionRequestViews(reqs), nil
}

func (auc *adoptionUseCase) publish(ctx context.Context, evt domain.AdoptionEvent) {
	if err := auc.events.PublishAdoptionEvent(ctx, evt); err != nil {
		config.GetLogrusInstance().WithError(err).WithFields(logrus.Fields{
			"event":   evt.Type,
			"request": evt.RequestID,
			"child":   evt.ChildID,
		}).Warn("failed to publish adoption event")
	}
}

// pairedWriteFailed reports a failed child status write. The transaction is
// rolled back, so the request write is undone as well.
func pairedWriteFailed(err error) error {
	if domain.KindOf(err) == domain.KindUnavailable {
		return err
	}
	return domain.Internal("Failed to update child status", err)
}

func logFailure(op string, err error) {
	switch domain.KindOf(err) {
	case domain.KindInternal:
		config.GetLogrusInstance().WithError(err).WithField("op", op).Error("operation failed")
	case domain.KindUnavailable:
		config.GetLogrusInstance().WithError(err).WithField("op", op).Warn("record store unavailable")
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
