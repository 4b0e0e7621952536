package actions

import "github.com/gin-gonic/gin"

const (
	ActionVersionHeader = "X-Action-Version"
	BlockchainIDsHeader = "X-Blockchain-Ids"
)

// CAIP-2 blockchain ids from the Solana Actions spec, keyed by cluster name
var blockchainIDs = map[string]string{
	"mainnet": "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp",
	"devnet":  "solana:EtWTRABZaYq6iMfeYKouRu166VU2xqa1",
	"testnet": "solana:4uhcVJyU9pJkvQyS88uRDiswHXSCkY3z",
}

// Headers advertises the action protocol version and target chain on every
// action response, as required for Blink client negotiation
func Headers(actionVersion, chainID string) gin.HandlerFunc {
	blockchainID, ok := blockchainIDs[chainID]
	if !ok {
		blockchainID = chainID
	}

	return func(c *gin.Context) {
		c.Header(ActionVersionHeader, actionVersion)
		c.Header(BlockchainIDsHeader, blockchainID)
		c.Next()
	}
}
