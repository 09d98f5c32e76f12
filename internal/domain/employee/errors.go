package employee

import "errors"

var (
	ErrNotFound        = errors.New("employee not found")
	ErrDuplicateEmail  = errors.New("email already in use")
	ErrDuplicateIDCard = errors.New("id card already in use")
	ErrDuplicatePhone  = errors.New("phone number already in use")
)
