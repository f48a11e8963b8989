package v1

import "context"

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

type AuthEndpoint struct {
	transport *Transport
}

// Login authenticates and keeps the returned token for later calls.
func (e *AuthEndpoint) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	resp, err := e.transport.Post(ctx, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	if err != nil {
		return nil, err
	}
	result, err := decode[LoginResponse](resp)
	if err != nil {
		return nil, err
	}
	e.transport.AuthToken = result.Token
	return result, nil
}
