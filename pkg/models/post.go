package models

import "time"

type Post struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	Content        string    `json:"content"`
	ImageURL       *string   `json:"imageUrl"`
	OriginalPostID *int      `json:"originalPostId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PostWithUser is a composed post: the row plus its author, counters, the
// viewer-relative like flag and at most one level of resolved original post.
type PostWithUser struct {
	Post
	User         User              `json:"user"`
	LikeCount    int               `json:"likeCount"`
	CommentCount int               `json:"commentCount"`
	IsLiked      bool              `json:"isLiked"`
	IsRepost     bool              `json:"isRepost"`
	Comments     []CommentWithUser `json:"comments"`
	OriginalPost *PostWithUser     `json:"originalPost,omitempty"`
}

type CreatePostRequest struct {
	Content        string  `json:"content" validate:"max=5000"`
	ImageURL       *string `json:"imageUrl" validate:"omitempty,url"`
	OriginalPostID *int    `json:"originalPostId" validate:"omitempty,gt=0"`
}

type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type DeleteRecentResult struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
	DeletedPosts []int  `json:"deletedPosts"`
}
