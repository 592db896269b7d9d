package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Madboy21/nexopays/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// Notifier отправляет уведомления о событиях через мессенджер.
// Отправка всегда выполняется вне транзакций хранилища и не влияет
// на результат операции.
type Notifier interface {
	WithdrawDecided(ctx context.Context, userID string, amountTokens decimal.Decimal, decision models.WithdrawStatus) error
	PendingDigest(ctx context.Context, chatID int64, pending int) error
}

// TelegramNotifier отправляет сообщения через Telegram Bot API.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier создаёт notifier для указанного бота.
func NewTelegramNotifier(botToken string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

// WithdrawDecided сообщает пользователю о решении по его заявке.
// Идентификатор пользователя Mini App совпадает с идентификатором чата.
func (n *TelegramNotifier) WithdrawDecided(_ context.Context, userID string, amountTokens decimal.Decimal, decision models.WithdrawStatus) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse chat id: %w", err)
	}

	var text string
	switch decision {
	case models.WithdrawStatusApproved:
		text = fmt.Sprintf("Заявка на вывод %s токенов одобрена.", amountTokens.String())
	case models.WithdrawStatusRejected:
		text = fmt.Sprintf("Заявка на вывод %s токенов отклонена, средства возвращены на баланс.", amountTokens.String())
	default:
		return nil
	}

	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// PendingDigest сообщает в административный чат о количестве ожидающих заявок.
func (n *TelegramNotifier) PendingDigest(_ context.Context, chatID int64, pending int) error {
	text := fmt.Sprintf("Заявок на вывод в ожидании: %d", pending)
	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	return nil
}
