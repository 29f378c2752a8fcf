package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"academiapulse/internal/export"
	"academiapulse/internal/roster"
)

const (
	mimeCSV  = "text/csv"
	mimeDoc  = "application/msword"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func attach(c *gin.Context, filename, mime string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, mime, body)
}

// ExportDaily serves the single-day report as csv or doc, chosen by the
// format query parameter.
func (h *Handler) ExportDaily(c *gin.Context) {
	date := c.Query("date")
	courseID := c.Query("course_id")
	format := c.DefaultQuery("format", "csv")
	if date == "" || courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and course_id are required"})
		return
	}

	course, err := h.svc.CourseByID(courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	students := h.svc.Students()
	record := h.svc.RecordFor(date, courseID)
	college := h.svc.CollegeInfo()
	dept := h.svc.DepartmentInfo()

	switch format {
	case "csv":
		body := export.DailyCSV(students, course, record, date, college, dept)
		exportsTotal.WithLabelValues("daily", "csv").Inc()
		attach(c, export.DailyFilename(course.Code, date, "csv"), mimeCSV, []byte(body))
	case "doc":
		body, err := export.DailyDoc(students, course, record, date, college, dept)
		if err != nil {
			respondErr(c, err)
			return
		}
		exportsTotal.WithLabelValues("daily", "doc").Inc()
		attach(c, export.DailyFilename(course.Code, date, "doc"), mimeDoc, []byte(body))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or doc"})
	}
}

// ExportConsolidated serves the cross-course present-day matrix over an
// inclusive date range as csv, doc, or xlsx.
func (h *Handler) ExportConsolidated(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	format := c.DefaultQuery("format", "csv")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required"})
		return
	}

	dates, err := roster.DateRange(start, end)
	if err != nil {
		respondErr(c, err)
		return
	}
	students := h.svc.Students()
	courses := h.svc.Courses()
	data := h.svc.Data()
	college := h.svc.CollegeInfo()
	dept := h.svc.DepartmentInfo()

	switch format {
	case "csv":
		body := export.ConsolidatedCSV(students, courses, data, dates)
		exportsTotal.WithLabelValues("consolidated", "csv").Inc()
		attach(c, export.ConsolidatedFilename(start, end, "csv"), mimeCSV, []byte(body))
	case "doc":
		body, err := export.ConsolidatedDoc(students, courses, data, dates, start, end, college, dept)
		if err != nil {
			respondErr(c, err)
			return
		}
		exportsTotal.WithLabelValues("consolidated", "doc").Inc()
		attach(c, export.ConsolidatedFilename(start, end, "doc"), mimeDoc, []byte(body))
	case "xlsx":
		body, err := export.ConsolidatedXLSX(students, courses, data, dates, start, end)
		if err != nil {
			respondErr(c, err)
			return
		}
		exportsTotal.WithLabelValues("consolidated", "xlsx").Inc()
		attach(c, export.ConsolidatedFilename(start, end, "xlsx"), mimeXLSX, body)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv, doc or xlsx"})
	}
}
