package models

import "time"

// User представляет пользователя Telegram Mini App.
type User struct {
	ID              string    `db:"id"`
	DisplayName     string    `db:"display_name"`
	Username        *string   `db:"username"`
	PhotoURL        *string   `db:"photo_url"`
	ReferredBy      *string   `db:"referred_by"`
	BalanceSubunits int64     `db:"balance_subunits"`
	TodayAds        int       `db:"today_ads"`
	TodayStamp      string    `db:"today_stamp"`
	LifetimeAds     int64     `db:"lifetime_ads"`
	IsAdmin         bool      `db:"is_admin"`
	CreatedAt       time.Time `db:"created_at"`
	LastActiveAt    time.Time `db:"last_active_at"`
}

// TelegramUser - данные пользователя из initDataUnsafe.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

// AuthRequest - запрос на вход через Telegram.
type AuthRequest struct {
	InitData       string `json:"initData"`
	InitDataUnsafe struct {
		User *TelegramUser `json:"user"`
	} `json:"initDataUnsafe"`
	Ref string `json:"ref"`
}

// AuthResponse - ответ на успешный вход.
type AuthResponse struct {
	OK          bool   `json:"ok"`
	UID         string `json:"uid"`
	CustomToken string `json:"customToken"`
	IsAdmin     bool   `json:"isAdmin"`
}

// ProfileResponse - проекция профиля для фронтенда.
type ProfileResponse struct {
	UID             string  `json:"uid"`
	DisplayName     string  `json:"displayName"`
	Username        *string `json:"username"`
	PhotoURL        *string `json:"photoUrl"`
	ReferredBy      *string `json:"referredBy"`
	TodayStamp      string  `json:"todayStamp"`
	TodayAds        int     `json:"todayAds"`
	LifetimeAds     int64   `json:"lifetimeAds"`
	BalanceSubunits int64   `json:"balanceSubunits"`
	IsAdmin         bool    `json:"isAdmin"`
}

// AdCreditResult - результат начисления за просмотр рекламы.
type AdCreditResult struct {
	BalanceSubunits int64 `json:"balanceSubunits"`
	TodayAds        int   `json:"todayAds"`
}
