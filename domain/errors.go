package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	// listing creation/removal
	ErrSalePriceCannotBeZero      = errors.New("sale price cannot be zero")
	ErrInvalidExpiresTimestamp    = errors.New("invalid expires timestamp")
	ErrCallerIsntOwnerNorApproved = errors.New("caller isn't owner nor approved")
	ErrInvalidListing             = errors.New("invalid listing")

	// purchase
	ErrInconsistentSalePrice = errors.New("inconsistent sale price")
	ErrInconsistentTokens    = errors.New("inconsistent tokens")
	ErrIncorrectValueSent    = errors.New("incorrect value sent")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrPaymentTransferFailed = errors.New("payment transfer failed")
	ErrReentrantCall         = errors.New("reentrant call")
	ErrNoValueEscrow         = errors.New("no value escrow configured")

	ErrNoRoyaltyConfig = errors.New("no royalty config")

	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidChainId      = errors.New("invalid chain id")
	ErrInvalidCurrency     = errors.New("invalid currency")

	// request error
	ErrInvalidAddress = errors.New("Invalid address")
)
