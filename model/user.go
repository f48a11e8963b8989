package model

import "time"

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type User struct {
	UserID    int32      `gorm:"primaryKey;autoIncrement;column:UserID" json:"id"`
	Username  string     `gorm:"column:Username;type:varchar(50);uniqueIndex;not null" json:"username"`
	Password  string     `gorm:"column:Password;type:varchar(100);not null" json:"-"`
	IsActive  bool       `gorm:"column:IsActive;not null" json:"isActive"`
	Team      string     `gorm:"column:Team;type:varchar(20)" json:"team"`
	Role      string     `gorm:"column:Role;type:varchar(20);not null" json:"role"`
	LastLogin *time.Time `gorm:"column:LastLogin" json:"lastLogin"`
}

func (User) TableName() string {
	return "Users"
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
