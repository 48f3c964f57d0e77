package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"studiohub/internal/domain/errors"
	"studiohub/internal/domain/models"
	"studiohub/internal/domain/schema"
)

type Users struct {
	*CRUD[models.User, models.UserCreate, models.UserUpdate]
	stores Stores
	log    *zap.Logger
}

// build rejects an email already in use and hashes the password.
func (u *Users) build(ctx context.Context, in models.UserCreate) (models.User, error) {
	n, err := u.stores.Users.Count(ctx, []schema.Condition{schema.Eq("email", in.Email)})
	if err != nil {
		return models.User{}, err
	}
	if n > 0 {
		return models.User{}, &errors.IntegrityError{
			Table:      "users",
			Constraint: "users_email_key",
			Reason:     "email already registered",
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Error("failed to hash password", zap.Error(err))
		return models.User{}, errors.ErrInternalServer
	}
	return in.Build(string(hash)), nil
}

func (u *Users) GetByEmail(ctx context.Context, email string) (models.User, error) {
	users, err := u.Store.List(ctx, schema.Query{Conditions: UserFilter{Email: email}.Conditions(), Limit: 1})
	if err != nil {
		return models.User{}, err
	}
	if len(users) == 0 {
		return models.User{}, errors.ErrNotFound
	}
	return users[0], nil
}

// Authenticate checks password against the stored hash of the user with
// email. No session or token is issued.
func (u *Users) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := u.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return models.User{}, errors.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return models.User{}, errors.ErrInvalidCredentials
	}
	return user, nil
}
