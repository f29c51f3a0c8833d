package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"connected/pkg/apperr"
	"connected/pkg/models"
	"connected/pkg/repository"
)

const BotUsername = "ConnecTEDBot"

var botMessages = []string{
	"ConnecTED ile etkileşime geçmek için hemen post atın! 🚀",
	"Yeni fikirlerinizi ConnecTED'de paylaşın ✨",
	"ConnecTED topluluğuna katılın ve ağınızı genişletin 🌍",
	"Günün en popüler konularını keşfedin #trending",
	"ConnecTED'de neler oluyor? Hemen göz atın!",
}

type BotService interface {
	// Post publishes one of the canned bot messages as the verified bot user,
	// creating that user on first use.
	Post(ctx context.Context) (models.PostWithUser, error)
}

type botService struct {
	users repository.UserRepository
	posts PostService
	log   *zap.Logger
}

func NewBotService(users repository.UserRepository, posts PostService, log *zap.Logger) BotService {
	return &botService{users: users, posts: posts, log: log}
}

func (s *botService) Post(ctx context.Context) (models.PostWithUser, error) {
	bot, err := s.ensureBot(ctx)
	if err != nil {
		return models.PostWithUser{}, err
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(botMessages))))
	if err != nil {
		return models.PostWithUser{}, apperr.Storage("pick bot message", err)
	}
	return s.posts.CreatePost(ctx, bot.ID, models.CreatePostRequest{Content: botMessages[n.Int64()]})
}

func (s *botService) ensureBot(ctx context.Context) (models.User, error) {
	u, err := s.users.GetByUsername(ctx, BotUsername)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.User{}, dbErr(err, "")
	}

	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return models.User{}, apperr.Storage("generate bot password", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperr.Storage("hash bot password", err)
	}

	u, err = s.users.Create(ctx, models.User{
		Username:      BotUsername,
		Password:      string(hashed),
		DisplayName:   "ConnecTED Bot",
		AvatarColor:   "#FF6B6B",
		AvatarInitial: "B",
		IsVerified:    true,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with a concurrent first bot post.
		u, err = s.users.GetByUsername(ctx, BotUsername)
	}
	if err != nil {
		return models.User{}, dbErr(err, "")
	}
	s.log.Info("bot user created", zap.Int("user_id", u.ID))
	return u, nil
}
