package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuditEntityOrder       = "order"
	AuditActionOrderStatus = "order.status_changed"
)

// AuditLog records who changed what. Rows are append-only.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"actorId"`
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Entity    string    `gorm:"type:varchar(100);not null;index:idx_audit_entity" json:"entity"`
	EntityID  uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_entity" json:"entityId"`
	Note      *string   `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
