package models

import (
	"time"
)

// AuditLog records who changed the status of a reservation or maintenance
// request, and what the record looked like before and after.
type AuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ActorID      uint      `json:"actorID" gorm:"index;not null"`
	Action       string    `json:"action" gorm:"size:64;index"`
	ResourceType string    `json:"resourceType" gorm:"size:64;index"`
	ResourceID   uint      `json:"resourceID" gorm:"index"`
	BeforeJSON   string    `json:"beforeJSON" gorm:"type:text"`
	AfterJSON    string    `json:"afterJSON" gorm:"type:text"`
	IPAddress    string    `json:"ipAddress" gorm:"size:64"`
	CreatedAt    time.Time `json:"createdAt"`
}
