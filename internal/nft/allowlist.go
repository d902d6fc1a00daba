package nft

import (
	"context"
	"strings"
)

// AllowlistChecker is the degraded eligibility variant: membership of the raw
// wallet address in a static configured list, no network call.
type AllowlistChecker struct {
	wallets []string
}

func NewAllowlistChecker(wallets []string) *AllowlistChecker {
	return &AllowlistChecker{wallets: wallets}
}

func (c *AllowlistChecker) CheckEligibility(_ context.Context, walletAddress string, _ []string) (bool, *QualifyingAsset, error) {
	for _, w := range c.wallets {
		if strings.EqualFold(w, walletAddress) {
			return true, nil, nil
		}
	}
	return false, nil, nil
}
