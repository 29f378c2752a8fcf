package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"academiapulse/internal/apperrors"
	"academiapulse/internal/roster"
)

// ---------- Students ----------

func (h *Handler) ListStudents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"students": h.svc.Students()})
}

type addStudentRequest struct {
	Name       string `json:"name" binding:"required"`
	RollNumber string `json:"rollNumber" binding:"required"`
}

func (h *Handler) AddStudent(c *gin.Context) {
	var req addStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.svc.AddStudent(c.Request.Context(), req.Name, req.RollNumber)
	if err != nil {
		respondErr(c, err)
		return
	}
	mutationsTotal.WithLabelValues("student.added").Inc()
	c.JSON(http.StatusCreated, st)
}

// RemoveStudent requires confirm=true; removal is destructive and the
// original UI put a blocking confirmation prompt in front of it.
func (h *Handler) RemoveStudent(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrConfirmationRequired.Error()})
		return
	}
	if err := h.svc.RemoveStudent(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	mutationsTotal.WithLabelValues("student.removed").Inc()
	c.Status(http.StatusNoContent)
}

// ---------- Courses ----------

func (h *Handler) ListCourses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"courses": h.svc.Courses()})
}

type addCourseRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

func (h *Handler) AddCourse(c *gin.Context) {
	var req addCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.svc.AddCourse(c.Request.Context(), req.Name, req.Code)
	if err != nil {
		respondErr(c, err)
		return
	}
	mutationsTotal.WithLabelValues("course.added").Inc()
	c.JSON(http.StatusCreated, course)
}

func (h *Handler) RemoveCourse(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrConfirmationRequired.Error()})
		return
	}
	if err := h.svc.RemoveCourse(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	mutationsTotal.WithLabelValues("course.removed").Inc()
	c.Status(http.StatusNoContent)
}

// ---------- Attendance ----------

func (h *Handler) GetAttendance(c *gin.Context) {
	date := c.Query("date")
	courseID := c.Query("course_id")
	if date == "" || courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and course_id are required"})
		return
	}
	if _, err := h.svc.CourseByID(courseID); err != nil {
		respondErr(c, err)
		return
	}
	record := h.svc.RecordFor(date, courseID)
	summary := roster.Summarize(record, len(h.svc.Students()))
	c.JSON(http.StatusOK, gin.H{"record": record, "summary": summary})
}

type setStatusRequest struct {
	Date      string `json:"date" binding:"required"`
	CourseID  string `json:"courseId" binding:"required"`
	StudentID string `json:"studentId" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.SetStatus(c.Request.Context(), req.Date, req.CourseID, req.StudentID, roster.Status(req.Status))
	if err != nil {
		respondErr(c, err)
		return
	}
	mutationsTotal.WithLabelValues("attendance.marked").Inc()
	c.Status(http.StatusNoContent)
}

type markAllRequest struct {
	Date     string `json:"date" binding:"required"`
	CourseID string `json:"courseId" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

func (h *Handler) MarkAll(c *gin.Context) {
	var req markAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.MarkAll(c.Request.Context(), req.Date, req.CourseID, roster.Status(req.Status))
	if err != nil {
		respondErr(c, err)
		return
	}
	mutationsTotal.WithLabelValues("attendance.marked-all").Inc()
	c.Status(http.StatusNoContent)
}
