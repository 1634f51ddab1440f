package gormstore

import (
	"context"
	"errors"
	"fmt"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/tableinfo"

	"gorm.io/gorm"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{db: db}
}

func (s *UserStorage) CreateUser(ctx context.Context, in model.User) (model.User, error) {
	row := userRow{
		Email:     in.Email,
		Firstname: in.Firstname,
		Lastname:  in.Lastname,
	}
	if err := conn(ctx, s.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return model.User{}, storage.ErrUniqueViolation
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return row.toModel(), nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	var row userRow
	err := conn(ctx, s.db).Where(tableinfo.UserIDColumn+" = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, storage.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("select user by id: %w", err)
	}
	return row.toModel(), nil
}
