package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Madboy21/nexopays/internal/auth"
	"github.com/Madboy21/nexopays/internal/models"
	"github.com/Madboy21/nexopays/internal/storage"
	"github.com/Madboy21/nexopays/internal/utils"
)

var (
	ErrInvalidInitData = errors.New("invalid telegram init data")
	ErrMissingUserID   = errors.New("no telegram user id")
)

// UserService определяет вход через Telegram и доступ к профилю.
type UserService interface {
	AuthenticateTelegram(ctx context.Context, initData string, tgUser *models.TelegramUser, ref string) (*models.User, string, error)
	GetProfile(ctx context.Context, uid string) (*models.ProfileResponse, error)
}

// UserServiceImpl реализует UserService.
type UserServiceImpl struct {
	userStorage     UserStorage
	botToken        string
	jwtSecret       string
	tokenExpiration time.Duration
}

// NewUserService создаёт новый экземпляр UserService.
func NewUserService(userStorage UserStorage, botToken, jwtSecret string, tokenExpiration time.Duration) *UserServiceImpl {
	return &UserServiceImpl{
		userStorage:     userStorage,
		botToken:        botToken,
		jwtSecret:       jwtSecret,
		tokenExpiration: tokenExpiration,
	}
}

// AuthenticateTelegram проверяет подпись initData и создаёт либо обновляет
// пользователя. При повторном входе обновляются только профильные поля;
// referred_by фиксируется при первом входе и больше не меняется.
// Возвращает пользователя и кастомный токен.
func (s *UserServiceImpl) AuthenticateTelegram(ctx context.Context, initData string, tgUser *models.TelegramUser, ref string) (*models.User, string, error) {
	if !auth.VerifyInitData(s.botToken, initData) {
		return nil, "", ErrInvalidInitData
	}

	if tgUser == nil || tgUser.ID == 0 {
		return nil, "", ErrMissingUserID
	}

	uid := strconv.FormatInt(tgUser.ID, 10)

	user := &models.User{
		ID:          uid,
		DisplayName: tgUser.FirstName,
		TodayStamp:  utils.TodayStampUTC(),
	}
	if tgUser.Username != "" {
		username := tgUser.Username
		user.Username = &username
	}
	if tgUser.PhotoURL != "" {
		photoURL := tgUser.PhotoURL
		user.PhotoURL = &photoURL
	}
	if ref != "" && ref != uid {
		referrer := ref
		user.ReferredBy = &referrer
	}

	stored, err := s.userStorage.Upsert(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to upsert user: %w", err)
	}

	token, err := s.generateToken(stored)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return stored, token, nil
}

// GetProfile возвращает проекцию профиля пользователя.
func (s *UserServiceImpl) GetProfile(ctx context.Context, uid string) (*models.ProfileResponse, error) {
	user, err := s.userStorage.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &models.ProfileResponse{
		UID:             user.ID,
		DisplayName:     user.DisplayName,
		Username:        user.Username,
		PhotoURL:        user.PhotoURL,
		ReferredBy:      user.ReferredBy,
		TodayStamp:      user.TodayStamp,
		TodayAds:        user.TodayAds,
		LifetimeAds:     user.LifetimeAds,
		BalanceSubunits: user.BalanceSubunits,
		IsAdmin:         user.IsAdmin,
	}, nil
}

// generateToken выпускает кастомный токен для пользователя.
func (s *UserServiceImpl) generateToken(user *models.User) (string, error) {
	exp := s.tokenExpiration
	if exp <= 0 {
		exp = 24 * time.Hour
	}
	token, err := auth.GenerateToken(user.ID, user.IsAdmin, s.jwtSecret, exp)
	if err != nil {
		return "", err
	}
	return token, nil
}
