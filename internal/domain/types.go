package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Network represents the blockchain network a Soul ID is anchored to,
// using CAIP-2 identifiers.
type Network string

const (
	NetworkEthereumMainnet Network = "eip155:1"
	NetworkEthereumSepolia Network = "eip155:11155111"
	NetworkPolygonMainnet  Network = "eip155:137"
)

// IsValidNetwork checks if a network is supported
func IsValidNetwork(network Network) bool {
	return network == NetworkEthereumMainnet ||
		network == NetworkEthereumSepolia ||
		network == NetworkPolygonMainnet
}

// TransferStatus represents the review state of a transfer request
type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "pending"
	TransferStatusApproved TransferStatus = "approved"
	TransferStatusRejected TransferStatus = "rejected"
)

// IsTerminalTransferStatus reports whether a status is a valid review outcome.
// Pending is the only non-terminal state.
func IsTerminalTransferStatus(status TransferStatus) bool {
	return status == TransferStatusApproved || status == TransferStatusRejected
}

// DefaultLevelStep is the default number of trust points per trust level.
// The effective value comes from configuration (trust.level_step).
const DefaultLevelStep = 20

// TrustLevel derives a user's trust level from their trust score.
// Level 1 starts at zero points; every levelStep points adds a level.
func TrustLevel(trustScore int, levelStep int) int {
	if levelStep <= 0 {
		levelStep = DefaultLevelStep
	}
	if trustScore < 0 {
		trustScore = 0
	}
	return trustScore/levelStep + 1
}

// IsValidWalletAddress checks if a wallet address is a well-formed hex address
func IsValidWalletAddress(address string) bool {
	return common.IsHexAddress(address)
}

// NormalizeWalletAddress normalizes a wallet address to its EIP-55 checksummed
// form. Wallet uniqueness and lookups are case-insensitive because every stored
// address goes through this normalization first.
func NormalizeWalletAddress(address string) string {
	if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
		return common.HexToAddress(address).String()
	}
	return address
}
