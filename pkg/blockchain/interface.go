package blockchain

import (
	"context"
	"math/big"
)

// Indexer answers on-chain holding questions for eligibility rules. A lookup
// failure is returned as an error so callers can distinguish "does not hold"
// from "cannot tell".
type Indexer interface {
	// TokenBalance returns the balance of the address, in the token's base
	// unit. An empty token address means the native coin.
	TokenBalance(ctx context.Context, address, tokenAddress string) (*big.Int, error)

	// OwnsNFT reports whether the address holds at least one token of the
	// collection.
	OwnsNFT(ctx context.Context, address, collectionAddress string) (bool, error)
}
