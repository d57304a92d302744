package auctionerrors

import "errors"

// Store-level errors
var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrNoBids           = errors.New("no bids found for listing")
	ErrConflict         = errors.New("conditional update conflict")
	ErrStoreUnavailable = errors.New("listing store unavailable")
)

// Business logic errors
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrAuctionNotActive  = errors.New("auction is not active")
	ErrSelfBidNotAllowed = errors.New("seller cannot bid on own listing")
	ErrInvalidTransition = errors.New("invalid listing transition")
	ErrInvalidListing    = errors.New("invalid listing")
	ErrNotWinner         = errors.New("payer is not the auction winner")
	ErrAlreadySettled    = errors.New("purchase already settled")
	ErrPaymentDeclined   = errors.New("payment declined")
)
