package repository

import (
	"context"
	"orphancare/domain"
	"time"

	"gorm.io/gorm"
)

type donationRepository struct {
	db    *gorm.DB
	guard *Guard
}

func NewDonationRepository(database *gorm.DB, guard *Guard) domain.DonationRepo {
	return &donationRepository{
		db:    database,
		guard: guard,
	}
}

func (dr *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	return dr.guard.do(func() error {
		return dr.db.WithContext(ctx).Create(d).Error
	})
}

func (dr *donationRepository) FindByID(ctx context.Context, id string) (*domain.Donation, error) {
	var d domain.Donation
	err := dr.guard.do(func() error {
		return dr.db.WithContext(ctx).Preload("Donor").Preload("ReviewedBy").Where("id = ?", id).First(&d).Error
	})
	if err != nil {
		return nil, rename(err, domain.KindNotFound, "Donation not found")
	}
	return &d, nil
}

func (dr *donationRepository) List(ctx context.Context, donorID string) ([]domain.Donation, error) {
	var ds []domain.Donation
	err := dr.guard.do(func() error {
		q := dr.db.WithContext(ctx).Preload("Donor").Preload("ReviewedBy")
		if donorID != "" {
			q = q.Where("donor_id = ?", donorID)
		}
		return q.Order("created_at DESC").Find(&ds).Error
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (dr *donationRepository) UpdateReview(ctx context.Context, id string, status domain.DonationStatus, notes, reviewerID string, at time.Time) error {
	return dr.guard.do(func() error {
		res := dr.db.WithContext(ctx).Model(&domain.Donation{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":         status,
			"admin_notes":    notes,
			"reviewed_by_id": reviewerID,
			"reviewed_at":    at,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("Donation not found")
		}
		return nil
	})
}

func (dr *donationRepository) Stats(ctx context.Context) (*domain.DonationStats, error) {
	var stats domain.DonationStats
	err := dr.guard.do(func() error {
		db := dr.db.WithContext(ctx)
		if err := db.Model(&domain.Donation{}).Count(&stats.Total).Error; err != nil {
			return err
		}
		if err := db.Model(&domain.Donation{}).Where("status = ?", domain.DonationPending).Count(&stats.Pending).Error; err != nil {
			return err
		}
		if err := db.Model(&domain.Donation{}).Where("status = ?", domain.DonationApproved).Count(&stats.Approved).Error; err != nil {
			return err
		}
		return db.Model(&domain.Donation{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("status = ? AND type = ?", domain.DonationApproved, domain.DonationMoney).
			Scan(&stats.TotalAmount).Error
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
