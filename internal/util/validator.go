package util

import (
	"fmt"
	"time"
)

// ValidateDate checks the session date format (YYYY-MM-DD).
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateTime checks the session time format (HH:MM).
func ValidateTime(timeStr string) error {
	if timeStr == "" {
		return fmt.Errorf("time is empty")
	}
	if _, err := time.Parse("15:04", timeStr); err != nil {
		return fmt.Errorf("invalid time format: %w", err)
	}
	return nil
}
