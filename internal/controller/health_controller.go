package controller

import (
	"net/http"
	"time"

	"coursehub_backend/internal/session"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Sessions session.Store
}

func NewHealthController(sessions session.Store) *HealthController {
	return &HealthController{Sessions: sessions}
}

func (ctl *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"timestamp":      time.Now().Format(time.RFC3339),
		"activeSessions": ctl.Sessions.Len(),
	})
}
