package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/models"
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/util"

	"gorm.io/gorm"
)

// AnonymousName is stored when a participant joins without a name.
const AnonymousName = "Anonymous"

// Ledger owns attendance rows: joining, cancelling and roster
// management. Visibility and ownership decisions defer to the session
// records the Registry maintains.
type Ledger struct {
	DB *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{DB: db}
}

// Attendee is the roster view of an attendance row. The attendance
// code is deliberately absent: it belongs to the participant, not the
// organizer.
type Attendee struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RosterEntry is the export view of an attendance row.
type RosterEntry struct {
	ID       uint
	Name     string
	JoinedAt time.Time
}

// Join adds a participant to a session and returns the attendance code
// that authorizes cancelling later. Private sessions require the
// matching invite token. For capacity-limited sessions the count check
// and the insert are a single conditional statement inside a
// transaction, so concurrent joins cannot overshoot the limit.
func (l *Ledger) Join(sessionID uint, name, inviteToken string) (string, error) {
	var s models.Session
	if err := l.DB.First(&s, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("load session: %w", err)
	}

	if s.Visibility == VisibilityPrivate {
		if s.InviteToken == nil || inviteToken == "" || inviteToken != *s.InviteToken {
			return "", ErrForbidden
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = AnonymousName
	}

	for attempt := 0; attempt < insertRetries; attempt++ {
		code, err := util.RandomCode(codeBytes)
		if err != nil {
			return "", fmt.Errorf("generate attendance code: %w", err)
		}

		if s.MaxParticipants == nil {
			err = l.DB.Create(&models.Attendance{
				SessionID:      sessionID,
				Name:           name,
				AttendanceCode: code,
			}).Error
			if err == nil {
				return code, nil
			}
			if isUniqueViolation(err) {
				continue
			}
			return "", fmt.Errorf("insert attendance: %w", err)
		}

		var full bool
		err = l.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Exec(`INSERT INTO attendances (session_id, name, attendance_code, created_at)
				SELECT ?, ?, ?, ?
				WHERE (SELECT COUNT(*) FROM attendances WHERE session_id = ?) < ?`,
				sessionID, name, code, time.Now(), sessionID, *s.MaxParticipants)
			if res.Error != nil {
				return res.Error
			}
			full = res.RowsAffected == 0
			return nil
		})
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return "", fmt.Errorf("insert attendance: %w", err)
		}
		if full {
			return "", ErrFull
		}
		return code, nil
	}
	return "", ErrConflict
}

// Cancel deletes the attendance matching both the session and the
// code. A second cancel with the same code fails: the row is gone.
func (l *Ledger) Cancel(sessionID uint, attendanceCode string) error {
	if attendanceCode == "" {
		return ErrNotFound
	}
	res := l.DB.Where("session_id = ? AND attendance_code = ?", sessionID, attendanceCode).
		Delete(&models.Attendance{})
	if res.Error != nil {
		return fmt.Errorf("delete attendance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LookupByCode resolves an attendance code to its session. Codes whose
// session has been deleted behave as unknown.
func (l *Ledger) LookupByCode(attendanceCode string) (*models.Session, error) {
	if attendanceCode == "" {
		return nil, ErrNotFound
	}
	var a models.Attendance
	if err := l.DB.Where("attendance_code = ?", attendanceCode).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	var s models.Session
	if err := l.DB.First(&s, a.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

// ListAttendees returns the roster as {id, name} pairs for the
// session's owner. An empty roster is a valid empty result.
func (l *Ledger) ListAttendees(sessionID uint, managementCode string) ([]Attendee, error) {
	if err := l.authorize(sessionID, managementCode); err != nil {
		return nil, err
	}
	attendees := make([]Attendee, 0)
	if err := l.DB.Model(&models.Attendance{}).
		Select("id", "name").
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Scan(&attendees).Error; err != nil {
		return nil, fmt.Errorf("load attendees: %w", err)
	}
	return attendees, nil
}

// Roster returns the export view of the roster for the session's owner.
func (l *Ledger) Roster(sessionID uint, managementCode string) ([]RosterEntry, error) {
	if err := l.authorize(sessionID, managementCode); err != nil {
		return nil, err
	}
	entries := make([]RosterEntry, 0)
	if err := l.DB.Model(&models.Attendance{}).
		Select("id, name, created_at AS joined_at").
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return entries, nil
}

// RemoveAttendee deletes one attendance row on the organizer's behalf.
func (l *Ledger) RemoveAttendee(sessionID, attendeeID uint, managementCode string) error {
	if err := l.authorize(sessionID, managementCode); err != nil {
		return err
	}
	res := l.DB.Where("id = ? AND session_id = ?", attendeeID, sessionID).
		Delete(&models.Attendance{})
	if res.Error != nil {
		return fmt.Errorf("delete attendance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (l *Ledger) authorize(sessionID uint, managementCode string) error {
	var s models.Session
	if err := l.DB.First(&s, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load session: %w", err)
	}
	if s.ManagementCode != managementCode {
		return ErrUnauthorized
	}
	return nil
}
