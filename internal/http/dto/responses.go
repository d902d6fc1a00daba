package dto

import (
	"time"

	"github.com/atimics/chat/internal/nft"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type NonceResponse struct {
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

type VerifyResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    AuthUser `json:"user"`
}

type AuthUser struct {
	MatrixUserID string               `json:"matrix_user_id"`
	Pseudonym    string               `json:"pseudonym"`
	TempPassword string               `json:"temp_password"`
	IsNewUser    bool                 `json:"is_new_user"`
	NFT          *nft.QualifyingAsset `json:"nft,omitempty"`
}

type MeResponse struct {
	MatrixUserID   string    `json:"matrix_user_id"`
	Pseudonym      string    `json:"pseudonym"`
	WalletAddress  string    `json:"wallet_address"`
	Chain          string    `json:"chain"`
	RegisteredAt   time.Time `json:"registered_at"`
	LastVerifiedAt time.Time `json:"last_verified_at"`
}

type StatsResponse struct {
	TotalRegistrations  int64     `json:"total_registrations"`
	ActiveRegistrations int64     `json:"active_registrations"`
	AuthorizedCreators  int       `json:"authorized_creators"`
	Timestamp           time.Time `json:"timestamp"`
}

type AdminUser struct {
	WalletAddress  string    `json:"wallet_address"`
	MatrixUserID   string    `json:"matrix_user_id"`
	Pseudonym      string    `json:"pseudonym"`
	NFTCreator     *string   `json:"nft_creator,omitempty"`
	RegisteredAt   time.Time `json:"registered_at"`
	LastVerifiedAt time.Time `json:"last_verified_at"`
	IsActive       bool      `json:"is_active"`
}

type AdminUsersResponse struct {
	Users []AdminUser `json:"users"`
}
