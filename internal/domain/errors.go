package domain

import "errors"

var (
	// ErrMissingCredential is returned when a required backend credential is absent
	ErrMissingCredential = errors.New("required API credential is not configured")

	// ErrRateLimited is returned when a provider signals rate limiting (HTTP 429)
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrQuotaExhausted is returned when a provider signals exhausted credits (HTTP 402)
	ErrQuotaExhausted = errors.New("provider quota exhausted")

	// ErrSearchAPIFailure is returned when a search backend request fails
	ErrSearchAPIFailure = errors.New("search API request failed")

	// ErrDescriberFailure is returned when the item describer call fails
	ErrDescriberFailure = errors.New("item describer request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownCountry is returned when a pricing destination is not supported
	ErrUnknownCountry = errors.New("unsupported destination country")
)
