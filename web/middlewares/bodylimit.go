package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"itsheet.com/itsheet/web/common"
)

// BodyLimit caps request bodies at n bytes.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				common.NewCodedErrorResponse(common.CodePayloadTooLarge, "Request body too large"))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
