package models

import "time"

type Follow struct {
	ID          int       `json:"id"`
	FollowerID  int       `json:"followerId"`
	FollowingID int       `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type FollowRequest struct {
	FollowingID int `json:"followingId" validate:"required,gt=0"`
}
