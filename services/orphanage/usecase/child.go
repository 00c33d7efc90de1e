package usecase

import (
	"context"
	"orphancare/domain"
	"path"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	genders          = []string{"male", "female"}
	healthStatuses   = []string{"excellent", "good", "fair", "needs_attention"}
	educationLevels  = []string{"none", "primary", "secondary", "high_school"}
	adoptionStatuses = []string{"available", "pending", "adopted"}
)

type childUseCase struct {
	repo    domain.ChildRepo
	files   domain.FileStore
	locker  domain.KeyLocker
	TimeOut time.Duration
}

func NewChildUseCase(repo domain.ChildRepo, files domain.FileStore, locker domain.KeyLocker, to time.Duration) domain.ChildUseCase {
	return &childUseCase{
		repo:    repo,
		files:   files,
		locker:  locker,
		TimeOut: to,
	}
}

func (cuc *childUseCase) ListAvailable(ctx context.Context) ([]domain.Child, error) {
	ctx, cancel := context.WithTimeout(ctx, cuc.TimeOut)
	defer cancel()

	return cuc.repo.List(ctx, domain.ChildAvailable)
}

func (cuc *childUseCase) ListAll(ctx context.Context, p domain.Principal) ([]domain.Child, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, cuc.TimeOut)
	defer cancel()

	return cuc.repo.List(ctx, "")
}

func (cuc *childUseCase) Get(ctx context.Context, id string) (*domain.Child, error) {
	ctx, cancel := context.WithTimeout(ctx, cuc.TimeOut)
	defer cancel()

	return cuc.repo.FindByID(ctx, id)
}

func (cuc *childUseCase) Create(ctx context.Context, p domain.Principal, data domain.ChildInput, photo *domain.Upload) (*domain.Child, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	if data.Name == nil || strings.TrimSpace(*data.Name) == "" {
		return nil, domain.Validation("Name is required")
	}
	if data.Age == nil {
		return nil, domain.Validation("Age is required")
	}
	if data.Gender == nil || *data.Gender == "" {
		return nil, domain.Validation("Gender is required")
	}
	if err := checkChildInput(data); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cuc.TimeOut)
	defer cancel()

	child := &domain.Child{
		ID:             uuid.NewString(),
		Health:         domain.Health{Status: "good", Conditions: []string{}},
		Education:      domain.Education{Level: "none"},
		Interests:      []string{},
		Documents:      []string{},
		AdoptionStatus: domain.ChildAvailable,
		AddedByID:      p.UserID,
	}
	applyChildInput(child, data)

	var photoKey string
	if photo != nil {
		stored, err := storeUpload(ctx, cuc.files, *photo)
		if err != nil {
			return nil, err
		}
		child.Photo = stored.URL
		photoKey = path.Join(domain.UploadFolder, stored.PublicID)
	}

	if err := cuc.repo.Create(ctx, child); err != nil {
		if photoKey != "" {
			_ = cuc.files.Delete(ctx, photoKey)
		}
		return nil, err
	}
	return cuc.repo.FindByID(ctx, child.ID)
}

func (cuc *childUseCase) Update(ctx context.Context, p domain.Principal, id string, data domain.ChildInput) (*domain.Child, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	if data.Name != nil && strings.TrimSpace(*data.Name) == "" {
		return nil, domain.Validation("Name is required")
	}
	if err := checkChildInput(data); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cuc.TimeOut)
	defer cancel()

	fields := childUpdateFields(data)
	if len(fields) == 0 {
		return cuc.repo.FindByID(ctx, id)
	}
	// A direct status edit competes with submissions and reviews.
	if data.AdoptionStatus != nil {
		unlock, err := cuc.locker.Lock(ctx, childKey(id))
		if err != nil {
			return nil, err
		}
		defer unlock()
	}
	if err := cuc.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return cuc.repo.FindByID(ctx, id)
}

func (cuc *childUseCase) Delete(ctx context.Context, p domain.Principal, id string) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, cuc.TimeOut)
	defer cancel()

	unlock, err := cuc.locker.Lock(ctx, childKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	return cuc.repo.Delete(ctx, id)
}

func checkChildInput(data domain.ChildInput) error {
	if data.Age != nil && (*data.Age < 0 || *data.Age > 18) {
		return domain.Validation("Age must be between 0 and 18")
	}
	if data.Gender != nil && !govalidator.IsIn(*data.Gender, genders...) {
		return domain.Validation("Invalid gender")
	}
	if data.Health != nil && data.Health.Status != "" && !govalidator.IsIn(data.Health.Status, healthStatuses...) {
		return domain.Validation("Invalid health status")
	}
	if data.Education != nil && data.Education.Level != "" && !govalidator.IsIn(data.Education.Level, educationLevels...) {
		return domain.Validation("Invalid education level")
	}
	if data.AdoptionStatus != nil && !govalidator.IsIn(*data.AdoptionStatus, adoptionStatuses...) {
		return domain.Validation("Invalid adoption status")
	}
	return nil
}

func applyChildInput(c *domain.Child, data domain.ChildInput) {
	if data.Name != nil {
		c.Name = strings.TrimSpace(*data.Name)
	}
	if data.Age != nil {
		c.Age = *data.Age
	}
	if data.Gender != nil {
		c.Gender = *data.Gender
	}
	if data.Health != nil {
		if data.Health.Status != "" {
			c.Health.Status = data.Health.Status
		}
		c.Health.Conditions = nonNil(data.Health.Conditions)
		c.Health.LastCheckup = data.Health.LastCheckup
	}
	if data.Education != nil {
		if data.Education.Level != "" {
			c.Education.Level = data.Education.Level
		}
		c.Education.School = data.Education.School
		c.Education.Grade = data.Education.Grade
	}
	if data.Description != nil {
		c.Description = *data.Description
	}
	if data.Interests != nil {
		c.Interests = data.Interests
	}
	if data.Photo != nil {
		c.Photo = *data.Photo
	}
	if data.Documents != nil {
		c.Documents = data.Documents
	}
	if data.AdoptionStatus != nil {
		c.AdoptionStatus = domain.AdoptionStatus(*data.AdoptionStatus)
	}
}

// childUpdateFields maps the sent fields to column updates.
func childUpdateFields(data domain.ChildInput) map[string]interface{} {
	fields := make(map[string]interface{})
	if data.Name != nil {
		fields["name"] = strings.TrimSpace(*data.Name)
	}
	if data.Age != nil {
		fields["age"] = *data.Age
	}
	if data.Gender != nil {
		fields["gender"] = *data.Gender
	}
	if data.Health != nil {
		if data.Health.Status != "" {
			fields["health_status"] = data.Health.Status
		}
		fields["health_conditions"] = datatypesStrings(data.Health.Conditions)
		fields["health_last_checkup"] = data.Health.LastCheckup
	}
	if data.Education != nil {
		if data.Education.Level != "" {
			fields["education_level"] = data.Education.Level
		}
		fields["education_school"] = data.Education.School
		fields["education_grade"] = data.Education.Grade
	}
	if data.Description != nil {
		fields["description"] = *data.Description
	}
	if data.Interests != nil {
		fields["interests"] = datatypesStrings(data.Interests)
	}
	if data.Photo != nil {
		fields["photo"] = *data.Photo
	}
	if data.Documents != nil {
		fields["documents"] = datatypesStrings(data.Documents)
	}
	if data.AdoptionStatus != nil {
		fields["adoption_status"] = *data.AdoptionStatus
	}
	return fields
}

func datatypesStrings(s []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](nonNil(s))
}
