package model

import "time"

// Like marks that a user liked a post. A (UserID, PostID) pair exists at most once.
type Like struct {
	ID        int64
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}

type LikeCount struct {
	LikeCount int
}
