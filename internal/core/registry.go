package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/models"
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/util"

	"gorm.io/gorm"
)

// Session visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// codeBytes is the entropy of every generated secret. Hex-encoded on
// the wire, so the strings are twice as long.
const codeBytes = 8

// insertRetries bounds regeneration attempts after a UNIQUE collision
// on a generated code.
const insertRetries = 3

// Registry owns session records, their visibility rules and
// management-code verification.
type Registry struct {
	DB      *gorm.DB
	BaseURL string
}

func NewRegistry(db *gorm.DB, baseURL string) *Registry {
	return &Registry{DB: db, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// CreateInput carries the organizer-supplied fields for a new session.
type CreateInput struct {
	Title           string
	Description     string
	Date            string
	Time            string
	Location        string
	MaxParticipants *int
	Visibility      string
}

// Created is the result of a successful Create.
type Created struct {
	Session        *models.Session
	ManagementLink string
	ShareLink      string
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Msg: "required"}
	}
	if strings.TrimSpace(in.Location) == "" {
		return &ValidationError{Field: "location", Msg: "required"}
	}
	if err := util.ValidateDate(in.Date); err != nil {
		return &ValidationError{Field: "date", Msg: err.Error()}
	}
	if err := util.ValidateTime(in.Time); err != nil {
		return &ValidationError{Field: "time", Msg: err.Error()}
	}
	if in.Visibility != VisibilityPublic && in.Visibility != VisibilityPrivate {
		return &ValidationError{Field: "visibility", Msg: "must be public or private"}
	}
	if in.MaxParticipants != nil && *in.MaxParticipants <= 0 {
		return &ValidationError{Field: "maxParticipants", Msg: "must be positive"}
	}
	return nil
}

// Create persists a new session with freshly generated secrets and
// returns it together with the management and share links. The invite
// token exists only for private sessions.
func (r *Registry) Create(in CreateInput) (*Created, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < insertRetries; attempt++ {
		code, err := util.RandomCode(codeBytes)
		if err != nil {
			return nil, fmt.Errorf("generate management code: %w", err)
		}
		var token *string
		if in.Visibility == VisibilityPrivate {
			t, err := util.RandomCode(codeBytes)
			if err != nil {
				return nil, fmt.Errorf("generate invite token: %w", err)
			}
			token = &t
		}

		s := models.Session{
			Title:           strings.TrimSpace(in.Title),
			Description:     in.Description,
			Date:            in.Date,
			Time:            in.Time,
			Location:        strings.TrimSpace(in.Location),
			MaxParticipants: in.MaxParticipants,
			Visibility:      in.Visibility,
			ManagementCode:  code,
			InviteToken:     token,
		}
		if err := r.DB.Create(&s).Error; err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, fmt.Errorf("insert session: %w", err)
		}

		share := fmt.Sprintf("%s/sessions/%d/attend", r.BaseURL, s.ID)
		if token != nil {
			share += "?inviteToken=" + *token
		}
		return &Created{
			Session:        &s,
			ManagementLink: fmt.Sprintf("%s/sessions/%d/edit?managementCode=%s", r.BaseURL, s.ID, code),
			ShareLink:      share,
		}, nil
	}
	return nil, ErrConflict
}

// ListPublic returns all public sessions. Private sessions are never
// enumerable.
func (r *Registry) ListPublic() ([]models.Session, error) {
	var sessions []models.Session
	if err := r.DB.Where("visibility = ?", VisibilityPublic).
		Order("id ASC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list public sessions: %w", err)
	}
	return sessions, nil
}

// GetPublicByID returns a public session by id together with its
// current participant count. Private ids behave as unknown.
func (r *Registry) GetPublicByID(id uint) (*models.Session, int64, error) {
	var s models.Session
	err := r.DB.Where("id = ? AND visibility = ?", id, VisibilityPublic).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("load session: %w", err)
	}
	var count int64
	if err := r.DB.Model(&models.Attendance{}).
		Where("session_id = ?", id).
		Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count attendances: %w", err)
	}
	return &s, count, nil
}

// GetPrivateByCode returns the private session whose management code
// or invite token equals code. Either credential grants the lookup;
// only the management code authorizes mutation.
func (r *Registry) GetPrivateByCode(code string) (*models.Session, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	var s models.Session
	err := r.DB.Where("visibility = ? AND (management_code = ? OR invite_token = ?)",
		VisibilityPrivate, code, code).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

// GetByManagementCode returns the session owned by the given code,
// public or private. Lets an organizer recover which session they own.
func (r *Registry) GetByManagementCode(code string) (*models.Session, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	var s models.Session
	err := r.DB.Where("management_code = ?", code).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

// GetOwned returns the full session for its owner's edit view.
func (r *Registry) GetOwned(id uint, managementCode string) (*models.Session, error) {
	s, err := r.load(id)
	if err != nil {
		return nil, err
	}
	if s.ManagementCode != managementCode {
		return nil, ErrUnauthorized
	}
	return s, nil
}

// Details is a session together with its roster.
type Details struct {
	Session   *models.Session
	Attendees []Attendee
}

// GetDetails returns a session of any visibility plus its attendee
// list. No credential is checked; attendee rows carry only id and
// name, never attendance codes.
func (r *Registry) GetDetails(id uint) (*Details, error) {
	s, err := r.load(id)
	if err != nil {
		return nil, err
	}
	attendees := make([]Attendee, 0)
	if err := r.DB.Model(&models.Attendance{}).
		Select("id", "name").
		Where("session_id = ?", id).
		Order("id ASC").
		Scan(&attendees).Error; err != nil {
		return nil, fmt.Errorf("load attendees: %w", err)
	}
	return &Details{Session: s, Attendees: attendees}, nil
}

// UpdateInput holds a partial update; nil fields are untouched.
type UpdateInput struct {
	Title           *string
	Description     *string
	Date            *string
	Time            *string
	Location        *string
	MaxParticipants *int
	Visibility      *string
}

// Update applies the supplied fields to a session the caller owns.
// Changing visibility keeps the invite-token invariant: flipping to
// private mints a token, flipping to public clears it.
func (r *Registry) Update(id uint, managementCode string, in UpdateInput) error {
	s, err := r.load(id)
	if err != nil {
		return err
	}
	if s.ManagementCode != managementCode {
		return ErrUnauthorized
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return &ValidationError{Field: "title", Msg: "required"}
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Date != nil {
		if err := util.ValidateDate(*in.Date); err != nil {
			return &ValidationError{Field: "date", Msg: err.Error()}
		}
		updates["date"] = *in.Date
	}
	if in.Time != nil {
		if err := util.ValidateTime(*in.Time); err != nil {
			return &ValidationError{Field: "time", Msg: err.Error()}
		}
		updates["time"] = *in.Time
	}
	if in.Location != nil {
		if strings.TrimSpace(*in.Location) == "" {
			return &ValidationError{Field: "location", Msg: "required"}
		}
		updates["location"] = strings.TrimSpace(*in.Location)
	}
	if in.MaxParticipants != nil {
		if *in.MaxParticipants <= 0 {
			return &ValidationError{Field: "maxParticipants", Msg: "must be positive"}
		}
		updates["max_participants"] = *in.MaxParticipants
	}
	if in.Visibility != nil {
		if *in.Visibility != VisibilityPublic && *in.Visibility != VisibilityPrivate {
			return &ValidationError{Field: "visibility", Msg: "must be public or private"}
		}
		updates["visibility"] = *in.Visibility
		switch {
		case *in.Visibility == VisibilityPrivate && s.InviteToken == nil:
			t, err := util.RandomCode(codeBytes)
			if err != nil {
				return fmt.Errorf("generate invite token: %w", err)
			}
			updates["invite_token"] = t
		case *in.Visibility == VisibilityPublic && s.InviteToken != nil:
			updates["invite_token"] = nil
		}
	}

	if len(updates) == 0 {
		return ErrNoFields
	}

	if err := r.DB.Model(s).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Delete removes a session the caller owns and, in the same
// transaction, all its attendances.
func (r *Registry) Delete(id uint, managementCode string) error {
	s, err := r.load(id)
	if err != nil {
		return err
	}
	if s.ManagementCode != managementCode {
		return ErrUnauthorized
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return fmt.Errorf("delete attendances: %w", err)
		}
		if err := tx.Delete(&models.Session{}, id).Error; err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

func (r *Registry) load(id uint) (*models.Session, error) {
	var s models.Session
	if err := r.DB.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}
