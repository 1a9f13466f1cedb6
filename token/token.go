package token

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient token balance")
	ErrInsufficientAllowance = errors.New("insufficient token allowance")
	ErrTokenNotFound         = errors.New("token is not registered")
	ErrTokenExists           = errors.New("token is already registered")
)

// Token is the minimum asset surface the custody strategies need. The acting
// account is always passed explicitly; the service executes every operation
// on behalf of a validated caller.
type Token interface {
	BalanceOf(addr common.Address) (*big.Int, error)

	// Transfer moves amount out of from's own balance.
	Transfer(from, to common.Address, amount *big.Int) error

	// TransferFrom moves amount from from's balance using spender's allowance.
	TransferFrom(spender, from, to common.Address, amount *big.Int) error

	Mint(to common.Address, amount *big.Int) error

	// Burn destroys amount from the acting account's own balance.
	Burn(from common.Address, amount *big.Int) error

	// BurnFrom destroys amount from from's balance using spender's allowance.
	BurnFrom(spender, from common.Address, amount *big.Int) error
}

// Metadata is implemented by tokens that can describe themselves. The
// service needs it when mirroring a canonical token to remote chains.
type Metadata interface {
	TokenName() string
	TokenSymbol() string
	TokenDecimals() uint8
}

// Registry resolves the token address recorded in a token manager to a live
// asset handle on this chain.
type Registry interface {
	Get(addr common.Address) (Token, error)
	Register(addr common.Address, t Token) error
}
