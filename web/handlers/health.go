package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/web/common"
)

func RegisterHealth(r *gin.RouterGroup, dm *core.DatabaseManager) {
	r.GET("/health", HealthHandler(dm))
}

// HealthHandler reports healthy when the pool answers a ping.
func HealthHandler(dm *core.DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if dm != nil {
			if err := dm.SqlDB.PingContext(c.Request.Context()); err != nil {
				common.RespondServerError(c, common.CodeServerError, "Database unavailable", err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	}
}
