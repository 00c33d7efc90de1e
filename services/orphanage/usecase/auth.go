package usecase

import (
	"context"
	"orphancare/domain"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authUseCase struct {
	users   domain.UserRepo
	tokens  domain.TokenIssuer
	TimeOut time.Duration
}

func NewAuthUseCase(users domain.UserRepo, tokens domain.TokenIssuer, to time.Duration) domain.AuthUseCase {
	return &authUseCase{
		users:   users,
		tokens:  tokens,
		TimeOut: to,
	}
}

// Register creates a plain user account. Admin accounts only come from
// seeding.
func (auc *authUseCase) Register(ctx context.Context, data domain.RegisterRequest) (*domain.AuthResponse, error) {
	if len(data.Password) < 6 {
		return nil, domain.Validation("Password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	hashed, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Internal("could not hash password", err)
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(data.Name),
		Email:     data.Email,
		Password:  string(hashed),
		Role:      domain.RoleUser,
		Phone:     data.Phone,
		Address:   data.Address,
		Documents: []domain.UserDocument{},
	}
	if err := auc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return auc.respond(user)
}

func (auc *authUseCase) Login(ctx context.Context, data domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	user, err := auc.users.FindByEmail(ctx, data.Email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(data.Password)); err != nil {
		return nil, domain.Unauthorized("Invalid credentials")
	}
	return auc.respond(user)
}

func (auc *authUseCase) Profile(ctx context.Context, p domain.Principal) (*domain.UserView, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	user, err := auc.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	v := domain.NewUserView(user)
	return &v, nil
}

func (auc *authUseCase) respond(user *domain.User) (*domain.AuthResponse, error) {
	token, err := auc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, domain.Internal("could not issue token", err)
	}
	return &domain.AuthResponse{Token: token, User: domain.NewUserView(user)}, nil
}
