package handler

import (
	"net/http"

	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/core"
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/util"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler exposes the Attendance Ledger over HTTP.
type AttendanceHandler struct {
	Ledger *core.Ledger
}

func NewAttendanceHandler(ledger *core.Ledger) *AttendanceHandler {
	return &AttendanceHandler{Ledger: ledger}
}

type joinReq struct {
	Name string `json:"name" binding:"max=64"`
}

// Join adds the caller to a session. The body and the name in it are
// both optional; private sessions require ?inviteToken=.
func (h *AttendanceHandler) Join(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req joinReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
			return
		}
	}

	code, err := h.Ledger.Join(id, req.Name, c.Query("inviteToken"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message":        "joined session successfully",
		"attendanceCode": code,
	})
}

// Cancel removes the caller's own attendance by its code.
func (h *AttendanceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	code := c.Query("attendanceCode")
	if code == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing attendance code")
		return
	}
	if err := h.Ledger.Cancel(id, code); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "attendance cancelled successfully",
	})
}

// Check resolves an attendance code to its session.
func (h *AttendanceHandler) Check(c *gin.Context) {
	code := c.Query("attendanceCode")
	if code == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing attendance code")
		return
	}
	s, err := h.Ledger.LookupByCode(code)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"session":        toSessionResp(s),
		"attendanceCode": code,
	})
}

// ListAttendees returns the roster to the session's owner.
func (h *AttendanceHandler) ListAttendees(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	attendees, err := h.Ledger.ListAttendees(id, c.Query("managementCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"attendees":    attendees,
		"participants": len(attendees),
	})
}

// RemoveAttendee deletes one attendee on the organizer's behalf.
func (h *AttendanceHandler) RemoveAttendee(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	attendeeID, ok := parseID(c, "attendeeId")
	if !ok {
		return
	}
	if err := h.Ledger.RemoveAttendee(id, attendeeID, c.Query("managementCode")); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "attendee removed successfully",
	})
}
