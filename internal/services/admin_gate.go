package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Madboy21/nexopays/internal/storage"
)

// AdminGate проверяет право доступа к административным операциям.
// Флаг is_admin выставляется вне приложения; здесь он только читается.
type AdminGate struct {
	userStorage UserStorage
}

// NewAdminGate создаёт новый AdminGate.
func NewAdminGate(userStorage UserStorage) *AdminGate {
	return &AdminGate{userStorage: userStorage}
}

// Check возвращает true, только если пользователь существует и отмечен
// администратором. Отсутствующий пользователь - не администратор.
func (g *AdminGate) Check(ctx context.Context, uid string) (bool, error) {
	user, err := g.userStorage.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check admin: %w", err)
	}

	return user.IsAdmin, nil
}
