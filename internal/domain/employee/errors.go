package employee

import "errors"

var (
	ErrEmployeeNotFound         = errors.New("employee not found")
	ErrEmailExists              = errors.New("employee email already exists")
	ErrEmployeeIdentifierExists = errors.New("employee identifier already exists")
)
