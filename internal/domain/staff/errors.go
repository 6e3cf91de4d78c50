package staff

import "errors"

var (
	ErrAccountNotFound    = errors.New("staff account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("staff account is inactive")
	ErrPanelAccessDenied  = errors.New("role cannot access the admin panel")
	ErrEmailTaken         = errors.New("email already registered")
	ErrCannotManageRole   = errors.New("actor cannot manage this role")
	ErrSelfRoleChange     = errors.New("cannot change own role")
	ErrSelfDelete         = errors.New("cannot delete own account")
	ErrSelfDeactivate     = errors.New("cannot deactivate own account")
)
