package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"connected/pkg/apperr"
	"connected/pkg/models"
	"connected/pkg/repository"
)

const (
	MaxAvatarSize      = 5 << 20
	defaultAvatarColor = "#0085ff"
)

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AvatarStore persists uploaded profile images and returns their public URL.
type AvatarStore interface {
	PutAvatar(ctx context.Context, userID int, contentType string, body io.Reader, size int64) (string, error)
}

type AvatarUpload struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	SetProfileImage(ctx context.Context, actorID, userID int, img AvatarUpload) (models.User, error)
}

type userService struct {
	users   repository.UserRepository
	tokens  *TokenIssuer
	avatars AvatarStore
	log     *zap.Logger
}

// NewUserService builds the account service. avatars may be nil, in which
// case profile-image uploads fail with a storage error.
func NewUserService(users repository.UserRepository, tokens *TokenIssuer, avatars AvatarStore, log *zap.Logger) UserService {
	return &userService{users: users, tokens: tokens, avatars: avatars, log: log}
}

func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return models.AuthResponse{}, apperr.Validation("username is required")
	}
	if len(req.Password) < 8 {
		return models.AuthResponse{}, apperr.Validation("password must have at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResponse{}, apperr.Storage("hash password", err)
	}

	display := strings.TrimSpace(req.DisplayName)
	if display == "" {
		display = username
	}
	color := req.AvatarColor
	if color == "" {
		color = defaultAvatarColor
	}
	initial := strings.TrimSpace(req.AvatarInitial)
	if initial == "" {
		initial = initialOf(display)
	}

	u, err := s.users.Create(ctx, models.User{
		Username:      username,
		Password:      string(hashed),
		DisplayName:   display,
		AvatarColor:   color,
		AvatarInitial: initial,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return models.AuthResponse{}, apperr.Validation("username already taken")
	}
	if err != nil {
		return models.AuthResponse{}, dbErr(err, "")
	}

	s.log.Info("user registered", zap.Int("user_id", u.ID), zap.String("username", u.Username))
	return s.respond(u)
}

func (s *userService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return models.AuthResponse{}, apperr.Validation("username and password are required")
	}
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return models.AuthResponse{}, apperr.Unauthorized("invalid username or password")
	}
	if err != nil {
		return models.AuthResponse{}, dbErr(err, "")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return models.AuthResponse{}, apperr.Unauthorized("invalid username or password")
	}
	return s.respond(u)
}

func (s *userService) respond(u models.User) (models.AuthResponse, error) {
	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return models.AuthResponse{}, apperr.Storage("issue token", err)
	}
	return models.AuthResponse{
		AccessToken: token,
		User:        u,
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dbErr(err, "")
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int) (models.User, error) {
	if id <= 0 {
		return models.User{}, apperr.NotFound("user not found")
	}
	u, err := s.users.GetByID(ctx, id)
	return u, dbErr(err, "user not found")
}

func (s *userService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, apperr.NotFound("user not found")
	}
	u, err := s.users.GetByUsername(ctx, username)
	return u, dbErr(err, "user not found")
}

func (s *userService) SetProfileImage(ctx context.Context, actorID, userID int, img AvatarUpload) (models.User, error) {
	if actorID <= 0 {
		return models.User{}, apperr.Unauthorized("authentication required")
	}
	if actorID != userID {
		return models.User{}, apperr.Forbidden("you can only change your own profile image")
	}
	if img.Body == nil || img.Size == 0 {
		return models.User{}, apperr.Validation("no file uploaded")
	}
	if img.Size > MaxAvatarSize {
		return models.User{}, apperr.Validation("image exceeds 5MB")
	}
	if !allowedAvatarTypes[img.ContentType] {
		return models.User{}, apperr.Validation("invalid file type, only JPEG, PNG, GIF and WEBP are allowed")
	}
	if s.avatars == nil {
		return models.User{}, apperr.Storage("avatar storage is not configured", nil)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return models.User{}, dbErr(err, "user not found")
	}

	url, err := s.avatars.PutAvatar(ctx, userID, img.ContentType, img.Body, img.Size)
	if err != nil {
		return models.User{}, apperr.Storage("store avatar", err)
	}
	u, err := s.users.SetProfileImage(ctx, userID, url)
	if err != nil {
		return models.User{}, dbErr(err, "user not found")
	}
	s.log.Info("profile image updated", zap.Int("user_id", userID), zap.String("url", url))
	return u, nil
}

func initialOf(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
