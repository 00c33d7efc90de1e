package repository

import (
	"context"
	"orphancare/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeStatuses = []domain.RequestStatus{domain.RequestPending, domain.RequestApproved}

type adoptionRepository struct {
	db    *gorm.DB
	guard *Guard
}

func NewAdoptionRepository(database *gorm.DB, guard *Guard) domain.AdoptionRepo {
	return &adoptionRepository{
		db:    database,
		guard: guard,
	}
}

func (ar *adoptionRepository) Transaction(ctx context.Context, fn func(store domain.AdoptionStore) error) error {
	return ar.guard.do(func() error {
		return ar.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&txStore{tx: tx})
		})
	})
}

func (ar *adoptionRepository) FindRequest(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	var req domain.AdoptionRequest
	err := ar.guard.do(func() error {
		return ar.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	})
	if err != nil {
		return nil, rename(err, domain.KindNotFound, "Adoption request not found")
	}
	return &req, nil
}

func (ar *adoptionRepository) ListRequests(ctx context.Context, userID string) ([]domain.AdoptionRequest, error) {
	var reqs []domain.AdoptionRequest
	err := ar.guard.do(func() error {
		q := withRequestRelations(ar.db.WithContext(ctx))
		if userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		return q.Order("created_at DESC").Find(&reqs).Error
	})
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (ar *adoptionRepository) LatestRequests(ctx context.Context) (map[string]domain.AdoptionRequest, error) {
	var reqs []domain.AdoptionRequest
	err := ar.guard.do(func() error {
		return ar.db.WithContext(ctx).Order("created_at ASC").Find(&reqs).Error
	})
	if err != nil {
		return nil, err
	}

	latest := make(map[string]domain.AdoptionRequest)
	for _, r := range reqs {
		cur, ok := latest[r.ChildID]
		if !ok || !r.LastTouched().Before(cur.LastTouched()) {
			latest[r.ChildID] = r
		}
	}
	return latest, nil
}

func withRequestRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("User").Preload("Child").Preload("ReviewedBy")
}

// txStore is bound to one open transaction.
type txStore struct {
	tx *gorm.DB
}

func (s *txStore) lock(q *gorm.DB, forUpdate bool) *gorm.DB {
	if forUpdate && s.tx.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (s *txStore) FindChild(id string, forUpdate bool) (*domain.Child, error) {
	var child domain.Child
	err := s.lock(s.tx, forUpdate).Where("id = ?", id).First(&child).Error
	if err != nil {
		return nil, rename(translate(err), domain.KindNotFound, "Child not found")
	}
	return &child, nil
}

func (s *txStore) HasActiveRequest(userID, childID string) (bool, error) {
	var count int64
	err := s.tx.Model(&domain.AdoptionRequest{}).
		Where("user_id = ? AND child_id = ? AND status IN ?", userID, childID, activeStatuses).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s *txStore) CreateRequest(req *domain.AdoptionRequest) error {
	err := translate(s.tx.Create(req).Error)
	return rename(err, domain.KindConflict, "You already have a pending request for this child")
}

func (s *txStore) FindRequest(id string, forUpdate bool) (*domain.AdoptionRequest, error) {
	var req domain.AdoptionRequest
	err := s.lock(s.tx, forUpdate).Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, rename(translate(err), domain.KindNotFound, "Adoption request not found")
	}
	return &req, nil
}

func (s *txStore) UpdateRequestReview(id string, upd domain.ReviewUpdate) error {
	res := s.tx.Model(&domain.AdoptionRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         upd.Status,
		"admin_notes":    upd.AdminNotes,
		"reviewed_by_id": upd.ReviewerID,
		"reviewed_at":    upd.ReviewedAt,
	})
	if res.Error != nil {
		err := translate(res.Error)
		return rename(err, domain.KindConflict, "The requester already has an active request for this child")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("Adoption request not found")
	}
	return nil
}

func (s *txStore) SetChildStatus(childID string, status domain.AdoptionStatus) error {
	res := s.tx.Model(&domain.Child{}).Where("id = ?", childID).Update("adoption_status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("Child not found")
	}
	return nil
}

func (s *txStore) LoadRequest(id string) (*domain.AdoptionRequest, error) {
	var req domain.AdoptionRequest
	err := withRequestRelations(s.tx).Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, rename(translate(err), domain.KindNotFound, "Adoption request not found")
	}
	return &req, nil
}
