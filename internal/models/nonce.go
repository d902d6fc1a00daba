package models

import (
	"time"

	"github.com/google/uuid"
)

// NonceChallenge is a single-use signing challenge bound to one wallet.
type NonceChallenge struct {
	ID            uuid.UUID `json:"id"`
	Nonce         string    `json:"nonce"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"-"`
	ExpiresAt     time.Time `json:"-"`
	Used          bool      `json:"-"`
}
