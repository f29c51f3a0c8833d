package models

import "time"

type Like struct {
	ID        int       `json:"id"`
	PostID    int       `json:"postId"`
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type LikeRequest struct {
	PostID int `json:"postId" validate:"required,gt=0"`
}
