package models

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationMention NotificationType = "mention"
	NotificationFollow  NotificationType = "follow"
	NotificationRepost  NotificationType = "repost"
)

type Notification struct {
	ID           int              `json:"id"`
	UserID       int              `json:"userId"`
	SourceUserID int              `json:"sourceUserId"`
	Type         NotificationType `json:"type"`
	PostID       *int             `json:"postId"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type NotificationWithUsers struct {
	Notification
	SourceUser User  `json:"sourceUser"`
	Post       *Post `json:"post,omitempty"`
}
