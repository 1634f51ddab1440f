package model

import "time"

type User struct {
	ID        int64
	Email     string
	Firstname string
	Lastname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
