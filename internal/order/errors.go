package order

import "errors"

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to order")
	ErrInvalidCart      = errors.New("cart contains invalid items")
	ErrSignatureInvalid = errors.New("payment confirmation signature is invalid")
)
