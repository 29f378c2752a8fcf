// Package handler wires the HTTP surface to the domain services.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"academiapulse/internal/aiclient"
	"academiapulse/internal/apperrors"
	"academiapulse/internal/assistant"
	"academiapulse/internal/cloudinary"
	"academiapulse/internal/roster"
)

type Handler struct {
	svc   *roster.Service
	ai    *aiclient.Client
	chat  *assistant.Service
	cloud *cloudinary.Client // nil if Cloudinary not configured
}

func New(svc *roster.Service, ai *aiclient.Client, chat *assistant.Service, cloud *cloudinary.Client) *Handler {
	return &Handler{svc: svc, ai: ai, chat: chat, cloud: cloud}
}

// respondErr maps domain errors onto HTTP statuses: validation 400, unknown
// ids 404, AI boundary failures 502, the rest 500.
func respondErr(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case apperrors.IsService(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
