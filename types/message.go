package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Selector discriminates the message variants exchanged between dvault
// instances. The set is closed; anything else is a protocol error.
type Selector int64

const (
	SelectorSendToken Selector = iota + 1
	SelectorSendTokenWithData
	SelectorDeployTokenManager
	SelectorDeployStandardizedToken
)

func (s Selector) Valid() bool {
	return s >= SelectorSendToken && s <= SelectorDeployStandardizedToken
}

// IsTransfer reports whether the selector moves token value (and is therefore
// eligible for express execution).
func (s Selector) IsTransfer() bool {
	return s == SelectorSendToken || s == SelectorSendTokenWithData
}

func (s Selector) String() string {
	switch s {
	case SelectorSendToken:
		return "SendToken"
	case SelectorSendTokenWithData:
		return "SendTokenWithData"
	case SelectorDeployTokenManager:
		return "DeployTokenManager"
	case SelectorDeployStandardizedToken:
		return "DeployStandardizedToken"
	default:
		return "Unknown"
	}
}

// CustodyType selects the strategy a token manager uses to hold and release
// the underlying asset. Immutable once the manager is created.
type CustodyType int64

const (
	CustodyLockUnlock CustodyType = iota
	CustodyMintBurn
	CustodyMintBurnFrom
	CustodyLockUnlockFee
	CustodyLiquidityPool
)

func (c CustodyType) Valid() bool {
	return c >= CustodyLockUnlock && c <= CustodyLiquidityPool
}

func (c CustodyType) String() string {
	switch c {
	case CustodyLockUnlock:
		return "LockUnlock"
	case CustodyMintBurn:
		return "MintBurn"
	case CustodyMintBurnFrom:
		return "MintBurnFrom"
	case CustodyLockUnlockFee:
		return "LockUnlockFeeOnTransfer"
	case CustodyLiquidityPool:
		return "LiquidityPool"
	default:
		return "Unknown"
	}
}

// ManagerParams carries the strategy-specific setup values for a token
// manager deployment.
type ManagerParams struct {
	Operator     common.Address
	TokenAddress common.Address

	// Only used by the LiquidityPool custody type.
	LiquidityPool common.Address
}

// SendTokenMessage credits amount to the destination address on the receiving
// chain.
type SendTokenMessage struct {
	TokenId     TokenId
	Destination common.Address
	Amount      *big.Int
}

// SendTokenWithDataMessage additionally invokes the destination contract with
// the attached data after the credit.
type SendTokenWithDataMessage struct {
	TokenId       TokenId
	Destination   common.Address
	Amount        *big.Int
	SourceAddress []byte
	Data          []byte
}

// DeployTokenManagerMessage instructs the receiving chain to create a token
// manager for the token id.
type DeployTokenManagerMessage struct {
	TokenId     TokenId
	CustodyType CustodyType
	Params      ManagerParams
}

// DeployStandardizedTokenMessage instructs the receiving chain to deploy a
// standardized token plus its manager.
type DeployStandardizedTokenMessage struct {
	TokenId     TokenId
	Name        string
	Symbol      string
	Decimals    uint8
	Distributor common.Address
	MintTo      common.Address
	MintAmount  *big.Int
	Operator    common.Address
}
