package model

import "time"

type Post struct {
	ID        int64
	Title     string
	Content   string
	Published bool
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
