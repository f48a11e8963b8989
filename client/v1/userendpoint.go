package v1

import (
	"context"
	"fmt"

	"itsheet.com/itsheet/core/users"
	"itsheet.com/itsheet/model"
)

type UserResponse struct {
	Success bool       `json:"success"`
	User    model.User `json:"user"`
}

type UsersResponse struct {
	Success bool         `json:"success"`
	Users   []model.User `json:"users"`
}

type UserEndpoint struct {
	transport *Transport
}

func (e *UserEndpoint) Create(ctx context.Context, input users.CreateUserInput) (*model.User, error) {
	resp, err := e.transport.Post(ctx, "/api/users", input, nil)
	if err != nil {
		return nil, err
	}
	result, err := decode[UserResponse](resp)
	if err != nil {
		return nil, err
	}
	return &result.User, nil
}

func (e *UserEndpoint) List(ctx context.Context) ([]model.User, error) {
	resp, err := e.transport.Get(ctx, "/api/users", nil)
	if err != nil {
		return nil, err
	}
	result, err := decode[UsersResponse](resp)
	if err != nil {
		return nil, err
	}
	return result.Users, nil
}

func (e *UserEndpoint) Delete(ctx context.Context, id int32) error {
	_, err := e.transport.Delete(ctx, fmt.Sprintf("/api/users/%d", id))
	return err
}

func (e *UserEndpoint) ChangePassword(ctx context.Context, id int32, newPassword string) error {
	_, err := e.transport.Put(ctx, fmt.Sprintf("/api/users/%d/password", id), map[string]string{"newPassword": newPassword}, nil)
	return err
}

func (e *UserEndpoint) SetActive(ctx context.Context, id int32, active bool) error {
	_, err := e.transport.Put(ctx, fmt.Sprintf("/api/users/%d/active", id), map[string]bool{"isActive": active}, nil)
	return err
}
