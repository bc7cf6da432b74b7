package form

import "errors"

var (
	// ErrUnknownField шаг или поле не существует
	ErrUnknownField = errors.New("form: unknown field")

	// ErrInvalidValue значение не подходит по типу
	ErrInvalidValue = errors.New("form: invalid value")
)
