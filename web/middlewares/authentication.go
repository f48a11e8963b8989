package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"itsheet.com/itsheet/security"
	"itsheet.com/itsheet/web/common"
)

const (
	CookieName  = "itsheet.ApplicationCookie"
	identityKey = "identity"
)

// Authentication checks for a valid Bearer token, falling back to the
// application cookie.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					common.NewCodedErrorResponse(common.CodeUnauthenticated, "Authentication required"))
				return
			}
			tokenStr = cookie
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					common.NewCodedErrorResponse(common.CodeUnauthenticated, "Malformed Authorization header"))
				return
			}
			tokenStr = strings.TrimSpace(parts[1])
		}

		identity, err := security.ParseIdentityToken(tokenStr, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewCodedErrorResponse(common.CodeUnauthenticated, "invalid or expired token"))
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by Authentication.
func CurrentIdentity(c *gin.Context) (*security.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*security.Identity)
	return identity, ok && identity != nil
}
