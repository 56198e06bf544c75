package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tiansito98/calorie-vision-tracker/services"
	"github.com/tiansito98/calorie-vision-tracker/utils"

	"github.com/gin-gonic/gin"
)

type SummaryController struct {
	Coordinator *services.Coordinator
	Svc         *services.SummaryService
}

func NewSummaryController(coordinator *services.Coordinator, svc *services.SummaryService) *SummaryController {
	return &SummaryController{Coordinator: coordinator, Svc: svc}
}

func (h *SummaryController) GetDailySummary(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := c.DefaultQuery("date", utils.Today())
	if _, err := utils.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	summary, err := h.Coordinator.GetDailySummary(c.Request.Context(), userID, date)
	switch {
	case errors.Is(err, services.ErrContention):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, summary)
	}
}

func (h *SummaryController) GetRollingAverage(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := c.DefaultQuery("date", utils.Today())
	window, err := strconv.Atoi(c.DefaultQuery("window", "7"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window"})
		return
	}

	avg, err := h.Coordinator.GetRollingAverage(c.Request.Context(), userID, date, window)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// avg is null when no day in the window has data; clients must not
	// render that as zero.
	c.JSON(http.StatusOK, gin.H{"date": date, "window_days": window, "average_calories": avg})
}

func (h *SummaryController) GetCalorieTrend(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	rows, err := h.Svc.CalorieTrend(c.Request.Context(), userID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *SummaryController) GetStreak(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	info, err := h.Svc.Streak(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}
