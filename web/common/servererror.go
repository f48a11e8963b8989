package common

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const RequestIDKey = "requestId"

// RespondServerError logs err and answers 500 with a message that never
// includes database text.
func RespondServerError(c *gin.Context, code, message string, err error) {
	log.Printf("[ERROR] [%s] %s %s: %v\n", c.GetString(RequestIDKey), c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, NewCodedErrorResponse(code, message))
}

// RespondBindingError answers 413 for an oversized body and 400 with code
// for anything else ShouldBindJSON rejected.
func RespondBindingError(c *gin.Context, code string, err error) {
	if IsBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, NewCodedErrorResponse(CodePayloadTooLarge, FormatBindingError(err)))
		return
	}
	c.JSON(http.StatusBadRequest, NewCodedErrorResponse(code, FormatBindingError(err)))
}
