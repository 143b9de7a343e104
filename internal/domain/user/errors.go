package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailExists            = errors.New("user email already exists")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
