package repository

import (
	"context"
	"orphancare/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func addedByName(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

type childRepository struct {
	db    *gorm.DB
	guard *Guard
}

func NewChildRepository(database *gorm.DB, guard *Guard) domain.ChildRepo {
	return &childRepository{
		db:    database,
		guard: guard,
	}
}

func (cr *childRepository) Create(ctx context.Context, child *domain.Child) error {
	return cr.guard.do(func() error {
		return cr.db.WithContext(ctx).Create(child).Error
	})
}

func (cr *childRepository) FindByID(ctx context.Context, id string) (*domain.Child, error) {
	var child domain.Child
	err := cr.guard.do(func() error {
		return cr.db.WithContext(ctx).Preload("AddedBy", addedByName).Where("id = ?", id).First(&child).Error
	})
	if err != nil {
		return nil, rename(err, domain.KindNotFound, "Child not found")
	}
	return &child, nil
}

func (cr *childRepository) List(ctx context.Context, status domain.AdoptionStatus) ([]domain.Child, error) {
	var children []domain.Child
	err := cr.guard.do(func() error {
		q := cr.db.WithContext(ctx).Preload("AddedBy", addedByName)
		if status != "" {
			q = q.Where("adoption_status = ?", status)
		}
		return q.Order("created_at DESC").Find(&children).Error
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

func (cr *childRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return cr.guard.do(func() error {
		res := cr.db.WithContext(ctx).Model(&domain.Child{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("Child not found")
		}
		return nil
	})
}

func (cr *childRepository) Delete(ctx context.Context, id string) error {
	return cr.guard.do(func() error {
		return cr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			q := tx
			if tx.Dialector.Name() == "postgres" {
				q = q.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var child domain.Child
			if err := q.Where("id = ?", id).First(&child).Error; err != nil {
				return rename(translate(err), domain.KindNotFound, "Child not found")
			}

			var active int64
			if err := tx.Model(&domain.AdoptionRequest{}).
				Where("child_id = ? AND status IN ?", id, activeStatuses).
				Count(&active).Error; err != nil {
				return err
			}
			if active > 0 {
				return domain.InvalidState("Cannot delete a child with an active adoption request")
			}

			if err := tx.Where("child_id = ?", id).Delete(&domain.AdoptionRequest{}).Error; err != nil {
				return err
			}
			return tx.Delete(&child).Error
		})
	})
}
