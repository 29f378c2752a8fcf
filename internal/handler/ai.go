package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type dailyContextRequest struct {
	Date     string `json:"date" binding:"required"`
	CourseID string `json:"courseId" binding:"required"`
}

// SummaryReport drafts a markdown report for one course and date, covering
// the day's breakdown and the trailing week's trend.
func (h *Handler) SummaryReport(c *gin.Context) {
	var req dailyContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.svc.CourseByID(req.CourseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	report, err := h.ai.DraftSummaryReport(c.Request.Context(), h.svc.Students(), h.svc.Data(), course, req.Date)
	countAI("report", err)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

type bulkAddRequest struct {
	Text string `json:"text"`
}

// BulkAdd parses free text into students and courses and registers them.
func (h *Handler) BulkAdd(c *gin.Context) {
	var req bulkAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parsed, err := h.ai.ParseBulkAdd(c.Request.Context(), req.Text)
	countAI("bulk-add", err)
	if err != nil {
		respondErr(c, err)
		return
	}
	students, courses, err := h.svc.BulkAdd(c.Request.Context(), parsed.Students, parsed.Courses)
	if err != nil {
		respondErr(c, err)
		return
	}
	mutationsTotal.WithLabelValues("bulk.added").Inc()
	c.JSON(http.StatusCreated, gin.H{"students": students, "courses": courses})
}

type groupsRequest struct {
	GroupCount int `json:"groupCount" binding:"required"`
}

// Groups splits the roster into evenly sized project groups.
func (h *Handler) Groups(c *gin.Context) {
	var req groupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	groups, err := h.ai.GenerateGroups(c.Request.Context(), h.svc.Students(), req.GroupCount)
	countAI("groups", err)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// FollowUpEmail drafts one email body addressed to the day's absentees.
func (h *Handler) FollowUpEmail(c *gin.Context) {
	var req dailyContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.svc.CourseByID(req.CourseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	record := h.svc.RecordFor(req.Date, req.CourseID)
	email, err := h.ai.DraftFollowUpEmail(c.Request.Context(), h.svc.Students(), record, course, req.Date)
	countAI("email", err)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email})
}

type chatRequest struct {
	Date     string `json:"date" binding:"required"`
	CourseID string `json:"courseId" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

// Chat streams one assistant exchange as plain-text chunks. The transcript is
// keyed by (course, date) and resets whenever the attendance snapshot for
// that context changes.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.svc.CourseByID(req.CourseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	record := h.svc.RecordFor(req.Date, req.CourseID)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("X-Content-Type-Options", "nosniff")

	wrote := false
	onChunk := func(chunk string) {
		wrote = true
		c.Writer.WriteString(chunk)
		c.Writer.Flush()
	}

	_, _, err = h.chat.Send(c.Request.Context(), h.svc.Students(), record, course, req.Date, req.Message, onChunk)
	countAI("chat", err)
	if err != nil {
		// Once chunks are on the wire the status line is gone; the client
		// sees a truncated body instead.
		if !wrote {
			respondErr(c, err)
		}
		return
	}
	c.Writer.Flush()
}

// ResetChat drops the transcript for a (course, date) context.
func (h *Handler) ResetChat(c *gin.Context) {
	date := c.Query("date")
	courseID := c.Query("course_id")
	if date == "" || courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and course_id are required"})
		return
	}
	if err := h.chat.Reset(c.Request.Context(), courseID, date); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
