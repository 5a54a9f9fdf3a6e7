package products

import "errors"

var (
	ErrNotImage      = errors.New("not an image")
	ErrInvalidStatus = errors.New("invalid product status")
)
