package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academiapulse/internal/aiclient"
	"academiapulse/internal/assistant"
	"academiapulse/internal/roster"
	"academiapulse/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *roster.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := roster.NewService(context.Background(), store.NewMemoryKV(), nil)
	ai := aiclient.New("http://unused", "", true)
	chat := assistant.New(ai, assistant.NewMemoryStore())
	h := New(svc, ai, chat, nil)

	r := gin.New()
	r.GET("/students", h.ListStudents)
	r.POST("/students", h.AddStudent)
	r.DELETE("/students/:id", h.RemoveStudent)
	r.GET("/courses", h.ListCourses)
	r.POST("/courses", h.AddCourse)
	r.DELETE("/courses/:id", h.RemoveCourse)
	r.GET("/attendance", h.GetAttendance)
	r.PUT("/attendance/status", h.SetStatus)
	r.PUT("/attendance/markall", h.MarkAll)
	r.GET("/exports/daily", h.ExportDaily)
	r.GET("/exports/consolidated", h.ExportConsolidated)
	r.POST("/ai/email", h.FollowUpEmail)
	r.POST("/ai/groups", h.Groups)
	r.POST("/assistant/chat", h.Chat)
	r.GET("/settings", h.Settings)
	r.PUT("/settings/department", h.UpdateDepartment)
	r.POST("/settings/logo", h.UploadLogo)
	return r, svc
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListStudents(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Students []roster.Student `json:"students"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Students, 5)
}

func TestAddStudent(t *testing.T) {
	r, svc := newTestRouter(t)

	w := do(r, http.MethodPost, "/students", `{"name": "Nina", "rollNumber": "CSE050"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, svc.Students(), 6)

	w = do(r, http.MethodPost, "/students", `{"name": "Nina"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveStudentNeedsConfirmation(t *testing.T) {
	r, svc := newTestRouter(t)

	w := do(r, http.MethodDelete, "/students/s1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, svc.Students(), 5)

	w = do(r, http.MethodDelete, "/students/s1?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, svc.Students(), 4)

	w = do(r, http.MethodDelete, "/students/s1?confirm=true", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveCourseNeedsConfirmation(t *testing.T) {
	r, svc := newTestRouter(t)

	w := do(r, http.MethodDelete, "/courses/c1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/courses/c1?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, svc.Courses(), 2)
}

func TestAttendanceFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPut, "/attendance/status",
		`{"date": "2024-01-15", "courseId": "c1", "studentId": "s1", "status": "PRESENT"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/attendance?date=2024-01-15&course_id=c1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Record  roster.Record  `json:"record"`
		Summary roster.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, roster.Present, resp.Record["s1"])
	assert.Equal(t, 1, resp.Summary.Present)
	assert.Equal(t, 4, resp.Summary.Unmarked)
	assert.InDelta(t, 20.0, resp.Summary.Percentage, 0.001)
}

func TestAttendanceUnknownCourse(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/attendance?date=2024-01-15&course_id=ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAllEndpoint(t *testing.T) {
	r, svc := newTestRouter(t)

	w := do(r, http.MethodPut, "/attendance/markall",
		`{"date": "2024-01-15", "courseId": "c1", "status": "ABSENT"}`)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, svc.RecordFor("2024-01-15", "c1"), 5)

	w = do(r, http.MethodPut, "/attendance/markall",
		`{"date": "2024-01-15", "courseId": "c1", "status": "LATE"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportDailyCSV(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/exports/daily?date=2024-01-15&course_id=c1&format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="attendance-report-CS201-2024-01-15.csv"`,
		w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), `"Roll Number","Student Name","Status"`)
}

func TestExportDailyUnknownFormat(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/exports/daily?date=2024-01-15&course_id=c1&format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportConsolidatedXLSX(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/exports/consolidated?start=2024-01-01&end=2024-01-07&format=xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="consolidated-report-2024-01-01-to-2024-01-07.xlsx"`,
		w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestExportConsolidatedBadRange(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/exports/consolidated?start=2024-02-01&end=2024-01-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowUpEmailNoAbsentees(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/ai/email", `{"date": "2024-01-15", "courseId": "c1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, aiclient.NoAbsenteesMessage, resp.Email)
}

func TestGroupsValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/ai/groups", `{"groupCount": 99}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/ai/groups", `{"groupCount": 2}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatStreamsPlainText(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/assistant/chat",
		`{"date": "2024-01-15", "courseId": "c1", "message": "who is absent?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.NotEmpty(t, w.Body.String())
}

func TestUpdateDepartment(t *testing.T) {
	r, svc := newTestRouter(t)

	w := do(r, http.MethodPut, "/settings/department",
		`{"name": "Electronics", "studentYear": "Third Year", "academicYear": "2025-2026"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Electronics", svc.DepartmentInfo().Name)
}

func TestUploadLogoInline(t *testing.T) {
	r, svc := newTestRouter(t)

	w := do(r, http.MethodPost, "/settings/logo", `{"data": "data:image/png;base64,AAAA"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data:image/png;base64,AAAA", svc.CollegeInfo().LogoBase64)

	w = do(r, http.MethodPost, "/settings/logo", `{"data": "not-a-data-uri"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
