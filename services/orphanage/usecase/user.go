package usecase

import (
	"context"
	"orphancare/domain"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type userUseCase struct {
	repo    domain.UserRepo
	TimeOut time.Duration
	Now     func() time.Time
}

func NewUserUseCase(repo domain.UserRepo, to time.Duration) domain.UserUseCase {
	return &userUseCase{
		repo:    repo,
		TimeOut: to,
		Now:     time.Now,
	}
}

func (uuc *userUseCase) GetProfile(ctx context.Context, p domain.Principal) (*domain.UserView, error) {
	ctx, cancel := context.WithTimeout(ctx, uuc.TimeOut)
	defer cancel()

	user, err := uuc.repo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	v := domain.NewUserView(user)
	return &v, nil
}

func (uuc *userUseCase) UpdateProfile(ctx context.Context, p domain.Principal, data domain.UpdateProfileRequest) (*domain.UserView, error) {
	fields := make(map[string]interface{})
	if data.Name != nil {
		name := strings.TrimSpace(*data.Name)
		if name == "" {
			return nil, domain.Validation("Name is required")
		}
		fields["name"] = name
	}
	if data.Phone != nil {
		fields["phone"] = *data.Phone
	}
	if data.Address != nil {
		fields["address"] = *data.Address
	}

	ctx, cancel := context.WithTimeout(ctx, uuc.TimeOut)
	defer cancel()

	if len(fields) > 0 {
		if err := uuc.repo.Update(ctx, p.UserID, fields); err != nil {
			return nil, err
		}
	}
	user, err := uuc.repo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	v := domain.NewUserView(user)
	return &v, nil
}

// AddDocument appends a document reference to the caller's profile. The
// document list is rewritten as a whole, so concurrent edits by the same user
// can lose one of the writes.
func (uuc *userUseCase) AddDocument(ctx context.Context, p domain.Principal, data domain.AddDocumentRequest) (*domain.UserDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, uuc.TimeOut)
	defer cancel()

	user, err := uuc.repo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	doc := domain.UserDocument{
		ID:         uuid.NewString(),
		Name:       data.Name,
		URL:        data.URL,
		Type:       data.Type,
		UploadDate: uuc.Now(),
	}
	docs := append([]domain.UserDocument(user.Documents), doc)
	if err := uuc.repo.Update(ctx, p.UserID, map[string]interface{}{"documents": datatypes.JSONSlice[domain.UserDocument](docs)}); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (uuc *userUseCase) RemoveDocument(ctx context.Context, p domain.Principal, documentID string) error {
	ctx, cancel := context.WithTimeout(ctx, uuc.TimeOut)
	defer cancel()

	user, err := uuc.repo.FindByID(ctx, p.UserID)
	if err != nil {
		return err
	}

	docs := make([]domain.UserDocument, 0, len(user.Documents))
	for _, d := range user.Documents {
		if d.ID != documentID {
			docs = append(docs, d)
		}
	}
	return uuc.repo.Update(ctx, p.UserID, map[string]interface{}{"documents": datatypes.JSONSlice[domain.UserDocument](docs)})
}

func (uuc *userUseCase) ListUsers(ctx context.Context, p domain.Principal) ([]domain.UserView, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, uuc.TimeOut)
	defer cancel()

	users, err := uuc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserView, 0, len(users))
	for i := range users {
		out = append(out, domain.NewUserView(&users[i]))
	}
	return out, nil
}
