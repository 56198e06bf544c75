package controllers

import (
	"errors"
	"net/http"

	"github.com/tiansito98/calorie-vision-tracker/services"
	"github.com/tiansito98/calorie-vision-tracker/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DigestController struct {
	Svc *services.DigestService
}

func NewDigestController(svc *services.DigestService) *DigestController {
	return &DigestController{Svc: svc}
}

func (h *DigestController) GetLatestDigest(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	digest, err := h.Svc.LatestDigest(c.Request.Context(), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no digest yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, digest)
}

// SendDigest builds and emails the digest for the week containing
// week_start (defaults to the previous week).
func (h *DigestController) SendDigest(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	weekStart := c.DefaultQuery("week_start", utils.AddDays(utils.Today(), -7))
	digest, err := h.Svc.SendWeeklyDigest(c.Request.Context(), userID, weekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, digest)
}
