package signature

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Ethereum wallets use personal_sign: the signer's address is recovered from
// a 65-byte secp256k1 signature over the EIP-191 prefixed message hash and
// compared to the claimed address.

func validEthereumAddress(addr string) bool {
	return common.IsHexAddress(addr)
}

func verifyEthereum(addr, sigHex, message string) bool {
	if !common.IsHexAddress(addr) {
		return false
	}

	sig, err := hexutil.Decode(sigHex)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}

	// Yellow paper V is 27/28, go-ethereum expects 0/1.
	recSig := make([]byte, crypto.SignatureLength)
	copy(recSig, sig)
	if recSig[crypto.RecoveryIDOffset] >= 27 {
		recSig[crypto.RecoveryIDOffset] -= 27
	}

	msgHash := accounts.TextHash([]byte(message))
	pub, err := crypto.SigToPub(msgHash, recSig)
	if err != nil {
		return false
	}

	recovered := crypto.PubkeyToAddress(*pub)
	return strings.EqualFold(recovered.Hex(), addr)
}
