package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"itsheet.com/itsheet/web/common"
)

// AdminRequired must run after Authentication.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewCodedErrorResponse(common.CodeUnauthenticated, "Authentication required"))
			return
		}
		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				common.NewCodedErrorResponse(common.CodeUnauthorized, "Admin role required"))
			return
		}
		c.Next()
	}
}
