package dto

type NonceRequest struct {
	WalletAddress string `json:"wallet_address"`
	Chain         string `json:"chain,omitempty"` // "solana" (default) / "ethereum"
}

type VerifyRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
	Nonce         string `json:"nonce"`
	Chain         string `json:"chain,omitempty"`
}
