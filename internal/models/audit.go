package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminLog - запись журнала административных действий. Журнал только пополняется.
type AdminLog struct {
	ID        uuid.UUID `db:"id"`
	Action    string    `db:"action"`
	ByUID     string    `db:"by_uid"`
	RequestID uuid.UUID `db:"request_id"`
	Decision  string    `db:"decision"`
	At        time.Time `db:"at"`
}
