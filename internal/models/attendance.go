package models

import "time"

// Attendance is one participant's slot in a session. The holder of
// AttendanceCode may cancel it; the organizer removes rows by id.
type Attendance struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SessionID      uint      `gorm:"index;not null" json:"sessionId"`
	Name           string    `gorm:"size:64" json:"name"`
	AttendanceCode string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	CreatedAt      time.Time `json:"joinedAt"`

	Session Session `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
