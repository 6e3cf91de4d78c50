package roles

import "errors"

var (
	ErrSuperRoleImmutable = errors.New("the super role cannot be edited")
	ErrCannotManageRole   = errors.New("actor cannot manage this role")
	ErrOverrideNotFound   = errors.New("role has no permission override")
	ErrEditorDisabled     = errors.New("role overrides are disabled")
)
