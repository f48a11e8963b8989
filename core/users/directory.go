package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/model"
	"itsheet.com/itsheet/security"
)

var (
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidRole        = errors.New("role must be Admin or User")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNotFound           = errors.New("user not found")
	ErrSelfDelete         = errors.New("you cannot delete your own account")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactive           = errors.New("account is disabled")
)

type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Team     string `json:"team"`
	Role     string `json:"role"`
}

// Directory manages application accounts. Callers are expected to have
// checked the actor's role already.
type Directory struct {
	dm *core.DatabaseManager
}

func NewDirectory(dm *core.DatabaseManager) *Directory {
	return &Directory{dm: dm}
}

func (d *Directory) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Team = strings.TrimSpace(input.Team)
	input.Role = strings.TrimSpace(input.Role)

	required := []struct{ name, value string }{
		{"username", input.Username},
		{"password", input.Password},
		{"team", input.Team},
		{"role", input.Role},
	}
	for _, field := range required {
		if field.value == "" {
			return nil, fmt.Errorf("%w '%s'", ErrMissingField, field.name)
		}
	}
	if input.Role != model.RoleAdmin && input.Role != model.RoleUser {
		return nil, ErrInvalidRole
	}

	hashed, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username: input.Username,
		Password: hashed,
		Team:     input.Team,
		Role:     input.Role,
		IsActive: true,
	}
	err = d.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// List returns every account ordered by username.
func (d *Directory) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := d.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Omit("Password").Order("Username").Find(&users).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (d *Directory) Get(ctx context.Context, id int32) (*model.User, error) {
	var user model.User
	err := d.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.First(&user, "UserID = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes targetID. An actor can never delete its own account.
func (d *Directory) Delete(ctx context.Context, actorID, targetID int32) error {
	if actorID == targetID {
		return ErrSelfDelete
	}

	var affected int64
	err := d.dm.Exec(ctx, func(db *gorm.DB) error {
		result := db.Where("UserID = ?", targetID).Delete(&model.User{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", targetID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Directory) ChangePassword(ctx context.Context, id int32, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w 'newPassword'", ErrMissingField)
	}
	hashed, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return d.update(ctx, id, "Password", hashed)
}

func (d *Directory) SetActive(ctx context.Context, id int32, active bool) error {
	return d.update(ctx, id, "IsActive", active)
}

// update sets one column. MySQL reports zero affected rows when the value
// is unchanged, so existence is checked first.
func (d *Directory) update(ctx context.Context, id int32, column string, value interface{}) error {
	return d.dm.Transaction(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("UserID = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to find user %d: %w", id, err)
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&model.User{}).Where("UserID = ?", id).Update(column, value).Error; err != nil {
			return fmt.Errorf("failed to update user %d: %w", id, err)
		}
		return nil
	})
}

// Authenticate checks credentials and records the login time.
func (d *Directory) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w 'username' or 'password'", ErrMissingField)
	}

	var user model.User
	err := d.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("Username = ?", username).First(&user).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !security.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}

	now := time.Now().UTC()
	err = d.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Model(&model.User{}).Where("UserID = ?", user.UserID).Update("LastLogin", now).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now
	return &user, nil
}
