package signature

// Chain selects which signature scheme a wallet uses.
type Chain string

const (
	ChainSolana   Chain = "solana"
	ChainEthereum Chain = "ethereum"
)

func IsSupportedChain(c Chain) bool {
	return c == ChainSolana || c == ChainEthereum
}

// ValidAddress reports whether addr is syntactically valid for the chain.
func ValidAddress(addr string, chain Chain) bool {
	switch chain {
	case ChainSolana:
		return validSolanaAddress(addr)
	case ChainEthereum:
		return validEthereumAddress(addr)
	default:
		return false
	}
}

// Verify checks that sig was produced over message by the key behind addr.
// Malformed input of any kind yields false, never a panic or error.
func Verify(addr, sig, message string, chain Chain) bool {
	switch chain {
	case ChainSolana:
		return verifySolana(addr, sig, message)
	case ChainEthereum:
		return verifyEthereum(addr, sig, message)
	default:
		return false
	}
}
