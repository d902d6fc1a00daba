package identity

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
)

// Pseudonyms are a pure function of the wallet address: the same wallet always
// gets the same name, across logins and across restarts. Collisions between
// distinct wallets are tolerated (the Matrix user id carries a numeric suffix
// that makes them rare).

var adjectives = []string{
	"Cosmic", "Quantum", "Digital", "Cyber", "Neural",
	"Virtual", "Mystic", "Stellar", "Neon", "Crypto",
}

var nouns = []string{
	"Wanderer", "Pioneer", "Explorer", "Dreamer", "Seeker",
	"Voyager", "Oracle", "Guardian", "Sage", "Navigator",
}

// Pseudonym derives a human-facing name from a wallet address.
func Pseudonym(walletAddress string) string {
	hash := sha256.Sum256([]byte(walletAddress))

	adjIndex := int(hash[0]) % len(adjectives)
	nounIndex := int(hash[1]) % len(nouns)
	numSuffix := binary.BigEndian.Uint16(hash[2:4]) % 10000

	return fmt.Sprintf("%s%s%d", adjectives[adjIndex], nouns[nounIndex], numSuffix)
}

// MatrixUserID derives the full Matrix id from a pseudonym and homeserver name.
func MatrixUserID(pseudonym, serverName string) string {
	username := strings.ToLower(pseudonym)
	username = strings.Join(strings.Fields(username), "_")
	return fmt.Sprintf("@%s:%s", username, serverName)
}
