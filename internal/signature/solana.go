package signature

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// Solana wallets sign the raw message bytes with Ed25519. The address is the
// base58 encoding of the 32-byte public key, the signature is base58 too.

func validSolanaAddress(addr string) bool {
	decoded, err := base58.Decode(addr)
	return err == nil && len(decoded) == ed25519.PublicKeySize
}

func verifySolana(addr, sig, message string) bool {
	pubKey, err := base58.Decode(addr)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return false
	}

	sigBytes, err := base58.Decode(sig)
	if err != nil || len(sigBytes) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(pubKey), []byte(message), sigBytes)
}
