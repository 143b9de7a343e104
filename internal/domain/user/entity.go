package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	PasswordHash       string
	Role               Role
	ResetCode          *string
	ResetCodeExpiresAt *time.Time
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
