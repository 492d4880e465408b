package service

import "errors"

var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnknownVendor    = errors.New("unknown vendor")

	// ErrOrderNotFound also covers "already canceled": the vendor does
	// not distinguish a never-existing order from a terminal one.
	ErrOrderNotFound = errors.New("order not found or already finalized")

	ErrReuseNotPossible       = errors.New("number cannot be reused")
	ErrReuseExpired           = errors.New("reuse window expired")
	ErrNotEnoughVendorBalance = errors.New("not enough vendor balance")
	ErrNoFreePhones           = errors.New("no free phones for the request")

	ErrPaymentReplayed = errors.New("payment already processed")
)
