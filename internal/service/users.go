package service

import (
	"context"

	"postgraph/internal/model"
)

//go:generate mockgen -source=users.go -destination=./users_mock.go -package=service
type UserStorage interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
}

type UserService struct {
	users UserStorage
}

func NewUserService(users UserStorage) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (model.User, error) {
	if err := validateID("userID", userID); err != nil {
		return model.User{}, err
	}
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return model.User{}, fromStorage("get user", err)
	}
	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (model.User, error) {
	if err := validateStruct(req); err != nil {
		return model.User{}, err
	}
	u, err := s.users.CreateUser(ctx, model.User{
		Email:     req.Email,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if err != nil {
		return model.User{}, fromStorage("create user", err)
	}
	return u, nil
}
