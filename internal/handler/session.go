package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/core"
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/models"
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the Session Registry over HTTP.
type SessionHandler struct {
	Registry *core.Registry
}

func NewSessionHandler(registry *core.Registry) *SessionHandler {
	return &SessionHandler{Registry: registry}
}

// sessionResp is the public serialization of a session. Management
// code and invite token are added separately by the few endpoints
// whose caller proved possession of a credential.
type sessionResp struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Location        string `json:"location"`
	MaxParticipants *int   `json:"maxParticipants"`
	Visibility      string `json:"visibility"`
}

func toSessionResp(s *models.Session) sessionResp {
	return sessionResp{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		Date:            s.Date,
		Time:            s.Time,
		Location:        s.Location,
		MaxParticipants: s.MaxParticipants,
		Visibility:      s.Visibility,
	}
}

// parseID reads a positive integer path parameter or writes a 400.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// respondError translates core failure kinds to transport statuses.
func respondError(c *gin.Context, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, ve.Error())
	case errors.Is(err, core.ErrNoFields):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "no fields to update")
	case errors.Is(err, core.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "not found")
	case errors.Is(err, core.ErrUnauthorized):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "incorrect management code")
	case errors.Is(err, core.ErrForbidden):
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "access denied to private session")
	case errors.Is(err, core.ErrFull):
		util.Error(c, http.StatusConflict, util.CodeFull, "session is already full")
	case errors.Is(err, core.ErrConflict):
		util.Error(c, http.StatusServiceUnavailable, util.CodeConflict, "code collision, please retry")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

type createSessionReq struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	Location        string `json:"location" binding:"required"`
	MaxParticipants *int   `json:"maxParticipants"`
	Visibility      string `json:"visibility" binding:"required,oneof=public private"`
}

// Create makes a new session and hands the organizer its secrets.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	created, err := h.Registry.Create(core.CreateInput{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		Visibility:      req.Visibility,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message":        "session created successfully",
		"id":             created.Session.ID,
		"managementCode": created.Session.ManagementCode,
		"managementLink": created.ManagementLink,
		"shareLink":      created.ShareLink,
	})
}

// List returns all public sessions.
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.Registry.ListPublic()
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]sessionResp, 0, len(sessions))
	for i := range sessions {
		items = append(items, toSessionResp(&sessions[i]))
	}
	util.Success(c, util.Response{
		"sessions": items,
	})
}

// Get returns one public session with its participant count.
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s, count, err := h.Registry.GetPublicByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"session":      toSessionResp(s),
		"participants": count,
	})
}

// GetPrivate returns a private session looked up by management code or
// invite token.
func (h *SessionHandler) GetPrivate(c *gin.Context) {
	s, err := h.Registry.GetPrivateByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"session":     toSessionResp(s),
		"inviteToken": s.InviteToken,
	})
}

// CheckManagement resolves a management code to the session it owns.
func (h *SessionHandler) CheckManagement(c *gin.Context) {
	s, err := h.Registry.GetByManagementCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"session":        toSessionResp(s),
		"managementCode": s.ManagementCode,
		"inviteToken":    s.InviteToken,
	})
}

// Details returns a session of any visibility plus its attendee list.
func (h *SessionHandler) Details(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	d, err := h.Registry.GetDetails(id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"session":      toSessionResp(d.Session),
		"participants": len(d.Attendees),
		"attendees":    d.Attendees,
	})
}

// GetForEdit returns the full session for the owner's edit form.
func (h *SessionHandler) GetForEdit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s, err := h.Registry.GetOwned(id, c.Query("managementCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"session":        toSessionResp(s),
		"managementCode": s.ManagementCode,
		"inviteToken":    s.InviteToken,
	})
}

type updateSessionReq struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	Location        *string `json:"location"`
	MaxParticipants *int    `json:"maxParticipants"`
	Visibility      *string `json:"visibility" binding:"omitempty,oneof=public private"`
}

// Update applies a partial edit authorized by the management code.
func (h *SessionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	err := h.Registry.Update(id, c.Query("managementCode"), core.UpdateInput{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		Visibility:      req.Visibility,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "session updated successfully",
	})
}

// Delete removes a session and all its attendances.
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Registry.Delete(id, c.Query("managementCode")); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "session deleted successfully",
	})
}
