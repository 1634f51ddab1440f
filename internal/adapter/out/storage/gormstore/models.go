package gormstore

import (
	"time"

	"postgraph/internal/model"
	"postgraph/pkg/tableinfo"
)

type userRow struct {
	ID        int64  `gorm:"primaryKey"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Firstname string `gorm:"size:255;not null"`
	Lastname  string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return tableinfo.UsersTableName }

func (r userRow) toModel() model.User {
	return model.User{
		ID:        r.ID,
		Email:     r.Email,
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type postRow struct {
	ID        int64  `gorm:"primaryKey"`
	Title     string `gorm:"size:255;not null;index"`
	Content   string `gorm:"type:text;not null"`
	Published bool   `gorm:"not null;index"`
	AuthorID  int64  `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Author *userRow `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (postRow) TableName() string { return tableinfo.PostsTableName }

func (r postRow) toModel() model.Post {
	return model.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Published: r.Published,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type likeRow struct {
	ID        int64 `gorm:"primaryKey"`
	UserID    int64 `gorm:"not null;uniqueIndex:idx_likes_user_post"`
	PostID    int64 `gorm:"not null;uniqueIndex:idx_likes_user_post;index"`
	CreatedAt time.Time

	User *userRow `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post *postRow `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (likeRow) TableName() string { return tableinfo.LikesTableName }

func (r likeRow) toModel() model.Like {
	return model.Like{
		ID:        r.ID,
		UserID:    r.UserID,
		PostID:    r.PostID,
		CreatedAt: r.CreatedAt,
	}
}
