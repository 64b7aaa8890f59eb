package models

import "time"

// AuditLog records mutating requests. Query strings are never stored:
// they carry management and attendance codes.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	RequestID string `gorm:"size:36;index"`
	Method    string `gorm:"size:16"`
	Path      string `gorm:"size:255"`
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	Status    int
	CreatedAt time.Time
}
