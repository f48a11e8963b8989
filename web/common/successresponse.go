package common

import "github.com/gin-gonic/gin"

// Success builds a flat `{success:true, ...fields}` body.
func Success(fields gin.H) gin.H {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	return body
}
