package models

import "time"

type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"postId"`
	UserID    int       `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentWithUser struct {
	Comment
	User User `json:"user"`
}

type CreateCommentRequest struct {
	PostID  int    `json:"postId" validate:"required,gt=0"`
	Content string `json:"content" validate:"required,max=2000"`
}
