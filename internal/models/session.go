package models

import "time"

// Session is an organizer-created event. Ownership is proven by
// possession of ManagementCode; for private sessions InviteToken
// gates who may view or join.
type Session struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Date            string    `gorm:"size:10;not null" json:"date"` // YYYY-MM-DD
	Time            string    `gorm:"size:5;not null" json:"time"`  // HH:MM
	Location        string    `gorm:"size:255;not null" json:"location"`
	MaxParticipants *int      `json:"maxParticipants"`                          // nil means unlimited
	Visibility      string    `gorm:"size:16;index;not null" json:"visibility"` // public / private
	ManagementCode  string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	InviteToken     *string   `gorm:"size:64;uniqueIndex" json:"-"` // non-nil iff private
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"-"`
}
