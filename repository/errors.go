package repository

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrInvalidInput = errors.New("invalid input data")
	ErrOutOfStock   = errors.New("product is out of stock")
	ErrNotEnough    = errors.New("not enough quantity available")
	ErrEmptyCart    = errors.New("cart is empty")
)
