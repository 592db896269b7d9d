package services

import (
	"context"
	"time"

	"github.com/Madboy21/nexopays/internal/notify"
	"github.com/sirupsen/logrus"
)

// PendingWorker периодически сообщает в административный чат о количестве
// необработанных заявок на вывод.
type PendingWorker struct {
	withdrawalStorage WithdrawalStorage
	notifier          notify.Notifier
	adminChatID       int64
	interval          time.Duration
	logger            logrus.FieldLogger

	lastReported int
}

// NewPendingWorker создаёт новый воркер.
func NewPendingWorker(withdrawalStorage WithdrawalStorage, notifier notify.Notifier, adminChatID int64, interval time.Duration, logger logrus.FieldLogger) *PendingWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PendingWorker{
		withdrawalStorage: withdrawalStorage,
		notifier:          notifier,
		adminChatID:       adminChatID,
		interval:          interval,
		logger:            logger,
	}
}

// Start запускает воркер в отдельной горутине и останавливается по ctx.Done().
func (w *PendingWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.report(ctx); err != nil {
					w.logger.WithError(err).Warn("pending digest failed")
				}
			}
		}
	}()
}

// report отправляет дайджест, только если число ожидающих заявок изменилось.
func (w *PendingWorker) report(ctx context.Context) error {
	pending, err := w.withdrawalStorage.GetPending(ctx)
	if err != nil {
		return err
	}

	count := len(pending)
	if count == 0 || count == w.lastReported {
		w.lastReported = count
		return nil
	}

	if err := w.notifier.PendingDigest(ctx, w.adminChatID, count); err != nil {
		return err
	}

	w.lastReported = count
	return nil
}
