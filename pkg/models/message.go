package models

import "time"

type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"senderId"`
	ReceiverID int       `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	Read       bool      `json:"read"`
}

// Conversation summarises the messages exchanged with one counterparty.
type Conversation struct {
	UserID      int     `json:"userId"`
	User        *User   `json:"user"`
	LastMessage Message `json:"lastMessage"`
}

type SendMessageRequest struct {
	ReceiverID int    `json:"receiverId" validate:"required,gt=0"`
	Content    string `json:"content" validate:"required,max=2000"`
}
