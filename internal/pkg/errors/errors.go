package errors

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalid     = errors.New("invalid")
	ErrStorage     = errors.New("storage failure")
	ErrExtraction  = errors.New("extraction failure")
	ErrModel       = errors.New("model failure")
	ErrUnknownRole = errors.New("unknown role")
)

func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

func IsExtraction(err error) bool {
	return errors.Is(err, ErrExtraction)
}
