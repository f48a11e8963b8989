package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"itsheet.com/itsheet/core/users"
	"itsheet.com/itsheet/security"
	"itsheet.com/itsheet/web/common"
	"itsheet.com/itsheet/web/middlewares"
)

type Endpoint struct {
	directory *users.Directory
	secret    []byte
	ttl       time.Duration
}

func Register(r *gin.RouterGroup, directory *users.Directory, secret []byte, ttl time.Duration) {
	endpoint := &Endpoint{directory: directory, secret: secret, ttl: ttl}
	r.POST("/login", endpoint.Login)
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID       int32  `json:"id"`
	Username string `json:"username"`
	Team     string `json:"team"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

func (ep *Endpoint) Login(c *gin.Context) {
	var input LoginDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		common.RespondBindingError(c, common.CodeMissingField, err)
		return
	}

	user, err := ep.directory.Authenticate(c.Request.Context(), input.Username, input.Password)
	switch {
	case errors.Is(err, users.ErrMissingField):
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeMissingField, "Username and password are required"))
		return
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, common.NewCodedErrorResponse(common.CodeInvalidCredentials, "Invalid username or password"))
		return
	case errors.Is(err, users.ErrInactive):
		c.JSON(http.StatusForbidden, common.NewCodedErrorResponse(common.CodeInactive, "Account is inactive. Please contact administrator."))
		return
	case err != nil:
		common.RespondServerError(c, common.CodeServerError, "Internal server error", err)
		return
	}

	identity := security.Identity{ID: user.UserID, UniqueName: user.Username, Team: user.Team, Role: user.Role}
	token, err := security.CreateIdentityToken(identity, ep.secret, ep.ttl)
	if err != nil {
		common.RespondServerError(c, common.CodeServerError, "Internal server error", err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middlewares.CookieName, token, int(ep.ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: UserDTO{
			ID:       user.UserID,
			Username: user.Username,
			Team:     user.Team,
			Role:     user.Role,
		},
	})
}
