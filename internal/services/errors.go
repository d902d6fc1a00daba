package services

import "errors"

// Authentication errors. All of them are terminal for the current attempt;
// the client starts over from nonce issuance.
var (
	// ErrInvalidInput: malformed address or missing fields. Nothing mutated.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidNonce: nonce absent, expired, already used, or bound to a
	// different wallet.
	ErrInvalidNonce = errors.New("invalid or expired nonce")

	// ErrBadSignature: signature did not verify. The nonce is already
	// consumed at this point (see AuthService.Authenticate).
	ErrBadSignature = errors.New("invalid wallet signature")

	// ErrNotEligible: no qualifying NFT found, or wallet not on the
	// allow-list. No state persisted.
	ErrNotEligible = errors.New("no qualifying NFT found")

	// ErrUpstreamUnavailable: the indexer or chat backend was unreachable or
	// erroring. Always fails closed.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrProvisioning: the chat backend responded but refused the account.
	ErrProvisioning = errors.New("failed to provision chat account")

	// ErrPseudonymCollision: a different wallet already holds the derived
	// chat user id. Registration stops before touching the chat backend.
	ErrPseudonymCollision = errors.New("derived chat identity already taken")
)
