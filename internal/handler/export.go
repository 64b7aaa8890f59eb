package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/core"
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler lets an organizer download the roster of a session.
type ExportHandler struct {
	Ledger *core.Ledger
}

func NewExportHandler(ledger *core.Ledger) *ExportHandler {
	return &ExportHandler{Ledger: ledger}
}

// ExportRoster writes the attendee list as CSV (default) or XLSX,
// authorized by the management code. Attendance codes are never part
// of the export.
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	roster, err := h.Ledger.Roster(id, c.Query("managementCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		h.writeCSV(c, id, roster)
	case "xlsx":
		h.writeXLSX(c, id, roster)
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "format must be csv or xlsx")
	}
}

func (h *ExportHandler) writeCSV(c *gin.Context, sessionID uint, roster []core.RosterEntry) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"attendees_%d_%s.csv\"",
		sessionID, time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"ID", "Name", "Joined"})
	for _, r := range roster {
		writer.Write([]string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			r.JoinedAt.Format("2006-01-02 15:04"),
		})
	}
}

func (h *ExportHandler) writeXLSX(c *gin.Context, sessionID uint, roster []core.RosterEntry) {
	f := excelize.NewFile()
	sheetName := "Attendees"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Name", "Joined"}
	for i, head := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx, r := range roster {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.JoinedAt.Format("2006-01-02 15:04"))
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 18)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"attendees_%d_%s.xlsx\"",
		sessionID, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
