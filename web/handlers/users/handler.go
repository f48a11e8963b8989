package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"itsheet.com/itsheet/core/users"
	"itsheet.com/itsheet/web/common"
	"itsheet.com/itsheet/web/middlewares"
)

type Endpoint struct {
	directory *users.Directory
}

// Register mounts the admin user endpoints. The group must already
// require the Admin role.
func Register(r *gin.RouterGroup, directory *users.Directory) {
	endpoint := &Endpoint{directory: directory}
	r.POST("/users", endpoint.Create)
	r.GET("/users", endpoint.List)
	r.DELETE("/users/:id", endpoint.Delete)
	r.PUT("/users/:id/password", endpoint.ChangePassword)
	r.PUT("/users/:id/active", endpoint.SetActive)
}

type ChangePasswordDTO struct {
	NewPassword string `json:"newPassword"`
}

type SetActiveDTO struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (ep *Endpoint) Create(c *gin.Context) {
	var input users.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.RespondBindingError(c, common.CodeInvalidRequest, err)
		return
	}

	user, err := ep.directory.Create(c.Request.Context(), input)
	if err != nil {
		ep.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.Success(gin.H{
		"message": "User created successfully",
		"user":    user,
	}))
}

func (ep *Endpoint) List(c *gin.Context) {
	list, err := ep.directory.List(c.Request.Context())
	if err != nil {
		ep.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.Success(gin.H{"users": list}))
}

func (ep *Endpoint) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewCodedErrorResponse(common.CodeUnauthenticated, "Authentication required"))
		return
	}

	if err := ep.directory.Delete(c.Request.Context(), actor.ID, id); err != nil {
		ep.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.Success(gin.H{"message": "User deleted successfully"}))
}

func (ep *Endpoint) ChangePassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body ChangePasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondBindingError(c, common.CodeInvalidRequest, err)
		return
	}

	if err := ep.directory.ChangePassword(c.Request.Context(), id, body.NewPassword); err != nil {
		ep.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.Success(gin.H{"message": "Password updated successfully"}))
}

func (ep *Endpoint) SetActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body SetActiveDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondBindingError(c, common.CodeMissingField, err)
		return
	}

	if err := ep.directory.SetActive(c.Request.Context(), id, *body.IsActive); err != nil {
		ep.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.Success(gin.H{"message": "User updated successfully"}))
}

func parseID(c *gin.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeInvalidRequest, "Invalid id"))
		return 0, false
	}
	return int32(id), true
}

func (ep *Endpoint) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrMissingField):
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeMissingField, err.Error()))
	case errors.Is(err, users.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeInvalidField, err.Error()))
	case errors.Is(err, users.ErrSelfDelete):
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeSelfDelete, err.Error()))
	case errors.Is(err, users.ErrUsernameTaken):
		c.JSON(http.StatusConflict, common.NewCodedErrorResponse(common.CodeUsernameTaken, err.Error()))
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusNotFound, common.NewCodedErrorResponse(common.CodeNotFound, err.Error()))
	default:
		common.RespondServerError(c, common.CodeServerError, "Internal server error", err)
	}
}
