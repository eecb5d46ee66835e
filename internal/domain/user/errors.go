package user

import "errors"

var (
	ErrInvalidRole             = errors.New("invalid role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrActorRequired           = errors.New("authenticated actor is required")
)
