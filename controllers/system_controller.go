package controllers

import (
	"context"
	"net/http"
	"time"

	"healthtracker/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SystemController struct {
	Records   *services.HealthRecordService
	Log       *zap.Logger
	startTime time.Time
}

func NewSystemController(records *services.HealthRecordService, log *zap.Logger) *SystemController {
	return &SystemController{Records: records, Log: log, startTime: time.Now()}
}

// Healthz pings the record store. Driver errors are logged, never returned.
func (sc *SystemController) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	body := gin.H{"status": "healthy", "uptime": time.Since(sc.startTime).Round(time.Second).String()}
	if err := sc.Records.Ping(ctx); err != nil {
		sc.Log.Warn("health check failed", zap.Error(err))
		body["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (sc *SystemController) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Health Tracking App API"})
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}
