package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"academiapulse/internal/roster"
)

// Settings returns both institute header records in one payload.
func (h *Handler) Settings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"college":    h.svc.CollegeInfo(),
		"department": h.svc.DepartmentInfo(),
	})
}

func (h *Handler) College(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.CollegeInfo())
}

func (h *Handler) Department(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.DepartmentInfo())
}

func (h *Handler) UpdateCollege(c *gin.Context) {
	var info roster.CollegeInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.svc.UpdateCollegeInfo(c.Request.Context(), info)
	mutationsTotal.WithLabelValues("settings.college-updated").Inc()
	c.JSON(http.StatusOK, info)
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	var info roster.DepartmentInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.svc.UpdateDepartmentInfo(c.Request.Context(), info)
	mutationsTotal.WithLabelValues("settings.department-updated").Inc()
	c.JSON(http.StatusOK, info)
}

type logoRequest struct {
	Data string `json:"data" binding:"required"`
}

// UploadLogo accepts a data URI. With Cloudinary configured the image is
// hosted there and the secure URL is stored; otherwise the data URI is kept
// inline on the college record.
func (h *Handler) UploadLogo(c *gin.Context) {
	var req logoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !strings.HasPrefix(req.Data, "data:image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data must be an image data URI"})
		return
	}

	logo := req.Data
	if h.cloud != nil {
		res, err := h.cloud.UploadLogo(req.Data)
		if err != nil {
			respondErr(c, err)
			return
		}
		logo = res.SecureURL
	}

	h.svc.SetLogo(c.Request.Context(), logo)
	mutationsTotal.WithLabelValues("settings.logo-updated").Inc()
	c.JSON(http.StatusOK, gin.H{"logo": logo})
}
