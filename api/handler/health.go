package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/articlereader/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// SessionCounter reports the number of rendering sessions currently open.
type SessionCounter interface {
	ActiveSessions() int
}

// Health returns a handler for GET /health-check.
func Health(sessions SessionCounter, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := models.HealthInfo{
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
		}
		if sessions != nil {
			info.ActiveSessions = sessions.ActiveSessions()
		}
		respond(c, http.StatusOK, models.StatusSuccess, successMessage, info)
	}
}
