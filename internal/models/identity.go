package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity maps a verified wallet to durable chat credentials.
// The wallet address is the primary lookup key and never changes once the
// record exists.
type Identity struct {
	ID             uuid.UUID `json:"id"`
	WalletAddress  string    `json:"wallet_address"`
	Chain          string    `json:"chain"`
	MatrixUserID   string    `json:"matrix_user_id"`
	Pseudonym      string    `json:"pseudonym"`
	TempPassword   string    `json:"-"`
	NFTMint        *string   `json:"nft_mint,omitempty"`
	NFTCreator     *string   `json:"nft_creator,omitempty"`
	RegisteredAt   time.Time `json:"registered_at"`
	LastVerifiedAt time.Time `json:"last_verified_at"`
	IsActive       bool      `json:"is_active"`
}
