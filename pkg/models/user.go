package models

type User struct {
	ID              int     `json:"id"`
	Username        string  `json:"username"`
	Password        string  `json:"-"`
	DisplayName     string  `json:"displayName"`
	AvatarColor     string  `json:"avatarColor"`
	AvatarInitial   string  `json:"avatarInitial"`
	ProfileImageURL *string `json:"profileImageUrl"`
	IsVerified      bool    `json:"isVerified"`
}

type RegisterRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=30"`
	Password      string `json:"password" validate:"required,min=8,max=128"`
	DisplayName   string `json:"displayName" validate:"max=50"`
	AvatarColor   string `json:"avatarColor" validate:"omitempty,hexcolor"`
	AvatarInitial string `json:"avatarInitial" validate:"max=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
	ExpiresIn   int    `json:"expiresIn"`
}

type FollowStats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}
