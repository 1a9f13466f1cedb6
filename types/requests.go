package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SendTokenRequest is an outbound transfer submitted by a local caller.
type SendTokenRequest struct {
	Sender             common.Address
	TokenId            TokenId
	DestinationChain   string
	DestinationAddress common.Address
	Amount             *big.Int

	// Optional payload delivered to the destination contract. When set, the
	// metadata version must be zero.
	Data            []byte
	MetadataVersion uint32

	// Native value forwarded to the gas service for relaying.
	GasValue     *big.Int
	RefundWallet common.Address
}

// SendTokenResult reports what actually left the chain. For fee-on-transfer
// tokens ActualAmount can be lower than the requested amount.
type SendTokenResult struct {
	TokenId      TokenId
	ActualAmount *big.Int
	PayloadHash  common.Hash
}

// ExecuteRequest is an inbound delivery handed to the service by a relayer
// after gateway approval.
type ExecuteRequest struct {
	CommandId     common.Hash
	SourceChain   string
	SourceAddress string
	Payload       []byte
}

// ExecuteResult describes the terminal state of one inbound delivery.
type ExecuteResult struct {
	Selector     Selector
	TokenId      TokenId
	ActualAmount *big.Int

	// Set when an express record was settled instead of the destination.
	ExpressFulfilled bool
	ExpressCaller    common.Address
}

// ExpressReceiveRequest fronts an inbound transfer from the caller's own
// funds ahead of gateway confirmation.
type ExpressReceiveRequest struct {
	Caller        common.Address
	CommandId     common.Hash
	SourceChain   string
	SourceAddress string
	Payload       []byte
}

// DeployTokenManagerRequest creates a manager on this chain and optionally
// mirrors the deployment to remote chains.
type DeployTokenManagerRequest struct {
	Deployer    common.Address
	Salt        [32]byte
	CustodyType CustodyType
	Params      ManagerParams

	// Remote deployments to request alongside the local one.
	DestinationChains []string
	GasValues         []*big.Int
}

// DeployStandardizedTokenRequest deploys a fresh standardized token plus its
// manager on this chain and optionally mirrors both to remote chains.
type DeployStandardizedTokenRequest struct {
	Deployer    common.Address
	Salt        [32]byte
	Name        string
	Symbol      string
	Decimals    uint8
	Distributor common.Address
	MintTo      common.Address
	MintAmount  *big.Int
	Operator    common.Address

	DestinationChains []string
	GasValues         []*big.Int
}

// TokenManagerInfo is the read-side view of one token manager.
type TokenManagerInfo struct {
	TokenId      TokenId
	CustodyType  CustodyType
	TokenAddress common.Address
	FlowLimit    *big.Int
	FlowIn       *big.Int
	FlowOut      *big.Int
}
